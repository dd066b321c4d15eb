package vm

import (
	"math"

	"skink/pkg/errors"
)

// maxSafeLength is 2^53 - 1, the ToLength clamp.
const maxSafeLength = int64(9007199254740991)

// ToBoolean coerces any value to a boolean. Never re-enters script.
func ToBoolean(v Value) bool {
	return !v.IsFalsey()
}

// ToPrimitive converts a value to a primitive following the ECMAScript
// OrdinaryToPrimitive order: valueOf then toString for the "number" and
// "default" hints, reversed for "string". Candidates are reached via Get and
// invoked via Call on the value itself, so script-visible accessors run and
// their failures propagate.
func ToPrimitive(v Value, hint string) (Value, error) {
	if !v.IsObject() {
		return v, nil
	}

	methodNames := [2]string{"valueOf", "toString"}
	if hint == "string" {
		methodNames = [2]string{"toString", "valueOf"}
	}

	for _, name := range methodNames {
		method, err := Get(v, name)
		if err != nil {
			return Undefined, err
		}
		if !method.IsCallable() {
			continue
		}
		result, err := Call(method, v, nil)
		if err != nil {
			return Undefined, err
		}
		if !result.IsObject() {
			return result, nil
		}
	}
	return Undefined, errors.NewTypeError("cannot convert object to primitive value")
}

// ToNumber coerces a value to a number. Objects go through ToPrimitive
// first and may therefore re-enter the abstract operations.
func ToNumber(v Value) (float64, error) {
	switch v.typ {
	case TypeIntegerNumber:
		return float64(v.AsInteger()), nil
	case TypeFloatNumber:
		return v.AsFloat(), nil
	case TypeNull:
		return 0, nil
	case TypeUndefined:
		return math.NaN(), nil
	case TypeBoolean:
		if v.AsBoolean() {
			return 1, nil
		}
		return 0, nil
	case TypeString:
		return parseStringToNumber(v.AsString()), nil
	}
	prim, err := ToPrimitive(v, "number")
	if err != nil {
		return 0, err
	}
	if prim.IsObject() {
		return 0, errors.NewTypeError("cannot convert object to number")
	}
	return ToNumber(prim)
}

// ToStringValue coerces a value to a string, consulting toString/valueOf on
// objects. The non-reentrant primitive rendering is Value.ToString.
func ToStringValue(v Value) (string, error) {
	if !v.IsObject() {
		return v.ToString(), nil
	}
	prim, err := ToPrimitive(v, "string")
	if err != nil {
		return "", err
	}
	if prim.IsObject() {
		return "", errors.NewTypeError("cannot convert object to string")
	}
	return prim.ToString(), nil
}

// ToLength coerces a value to an iteration bound: ToNumber, NaN and
// negatives to 0, truncated toward zero, clamped to 2^53-1.
func ToLength(v Value) (int64, error) {
	n, err := ToNumber(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || n <= 0 {
		return 0, nil
	}
	if math.IsInf(n, 1) || n >= float64(maxSafeLength) {
		return maxSafeLength, nil
	}
	return int64(math.Trunc(n)), nil
}

// toUint32Float wraps a number to the uint32 range with two's-complement
// sign handling.
func toUint32Float(n float64) uint32 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	t := math.Trunc(n)
	m := math.Mod(t, 4294967296)
	if m < 0 {
		m += 4294967296
	}
	return uint32(m)
}

// ToUint32 coerces a value to an unsigned 32-bit integer per the ECMAScript
// modular wraparound.
func ToUint32(v Value) (uint32, error) {
	n, err := ToNumber(v)
	if err != nil {
		return 0, err
	}
	return toUint32Float(n), nil
}

// ToIntegerOrInfinity coerces a value to an integer, mapping NaN to 0 and
// keeping infinities. Used for fromIndex-style arguments.
func ToIntegerOrInfinity(v Value) (float64, error) {
	n, err := ToNumber(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) {
		return 0, nil
	}
	return math.Trunc(n), nil
}
