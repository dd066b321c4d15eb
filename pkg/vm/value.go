package vm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unsafe"
)

type ValueType uint8

const (
	TypeUndefined ValueType = iota
	TypeNull

	TypeString

	TypeFloatNumber
	TypeIntegerNumber

	TypeBoolean

	TypeNativeFunction

	TypeObject
	TypeArray
)

// String returns a human-readable string representation of the ValueType
func (vt ValueType) String() string {
	switch vt {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeString:
		return "string"
	case TypeFloatNumber, TypeIntegerNumber:
		return "number"
	case TypeBoolean:
		return "boolean"
	case TypeNativeFunction:
		return "native function"
	case TypeObject:
		return "object"
	case TypeArray:
		return "array"
	default:
		return "unknown"
	}
}

// Object is the common embedded base for all heap-allocated value payloads.
type Object struct {
}

type StringObject struct {
	Object
	value string
}

// NativeFunc is the Go signature of a callable value: getters, setters,
// builtin methods and iteration callbacks all use it. The receiver is passed
// explicitly so a caller can route a different `this` than the object the
// property was found on.
type NativeFunc func(this Value, args []Value) (Value, error)

type NativeFunctionObject struct {
	Object
	name  string
	arity int
	fn    NativeFunc
}

// Name returns the function's debug name.
func (f *NativeFunctionObject) Name() string { return f.name }

// Arity returns the declared parameter count.
func (f *NativeFunctionObject) Arity() int { return f.arity }

// Value is a tagged ECMAScript value. Small immediates live in payload;
// strings, functions and objects hang off obj.
type Value struct {
	typ     ValueType
	payload uint64
	obj     unsafe.Pointer
}

var (
	Undefined = Value{typ: TypeUndefined}
	Null      = Value{typ: TypeNull}
	True      = Value{typ: TypeBoolean, payload: 1}
	False     = Value{typ: TypeBoolean, payload: 0}
	NaN       = Value{typ: TypeFloatNumber, payload: math.Float64bits(math.NaN())}
)

func NumberValue(value float64) Value {
	return Value{typ: TypeFloatNumber, payload: math.Float64bits(value)}
}

func IntegerValue(value int32) Value {
	return Value{typ: TypeIntegerNumber, payload: uint64(int64(value))}
}

// numericValue picks the integer representation when the value fits, the
// float representation otherwise. Array lengths go through here since they
// range up to 2^32-1.
func numericValue(f float64) Value {
	if f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32 {
		if f == 0 && math.Signbit(f) {
			return NumberValue(f) // preserve -0
		}
		return IntegerValue(int32(f))
	}
	return NumberValue(f)
}

func BooleanValue(value bool) Value {
	if value {
		return True
	}
	return False
}

func NewString(value string) Value {
	return Value{typ: TypeString, obj: unsafe.Pointer(&StringObject{value: value})}
}

func NewNativeFunction(arity int, name string, fn NativeFunc) Value {
	nf := &NativeFunctionObject{name: name, arity: arity, fn: fn}
	return Value{typ: TypeNativeFunction, obj: unsafe.Pointer(nf)}
}

// Type returns the value's type tag.
func (v Value) Type() ValueType { return v.typ }

func (v Value) IsUndefined() bool { return v.typ == TypeUndefined }
func (v Value) IsNull() bool      { return v.typ == TypeNull }
func (v Value) IsString() bool    { return v.typ == TypeString }
func (v Value) IsBoolean() bool   { return v.typ == TypeBoolean }
func (v Value) IsNumber() bool {
	return v.typ == TypeFloatNumber || v.typ == TypeIntegerNumber
}

// IsObject reports whether the value is an object of any kind. Callables
// count: a native function is an object reachable through Get/Set.
func (v Value) IsObject() bool {
	return v.typ == TypeObject || v.typ == TypeArray || v.typ == TypeNativeFunction
}

func (v Value) IsCallable() bool { return v.typ == TypeNativeFunction }

func (v Value) AsString() string {
	if v.typ != TypeString {
		panic("value is not a string")
	}
	return (*StringObject)(v.obj).value
}

func (v Value) AsFloat() float64 {
	if v.typ != TypeFloatNumber {
		panic("value is not a float number")
	}
	return math.Float64frombits(v.payload)
}

func (v Value) AsInteger() int32 {
	if v.typ != TypeIntegerNumber {
		panic("value is not an integer number")
	}
	return int32(int64(v.payload))
}

func (v Value) AsBoolean() bool {
	if v.typ != TypeBoolean {
		panic("value is not a boolean")
	}
	return v.payload == 1
}

func (v Value) AsNativeFunction() *NativeFunctionObject {
	if v.typ != TypeNativeFunction {
		panic("value is not a native function")
	}
	return (*NativeFunctionObject)(v.obj)
}

func (v Value) AsPlainObject() *PlainObject {
	if v.typ != TypeObject {
		panic("value is not a plain object")
	}
	return (*PlainObject)(v.obj)
}

func (v Value) AsArray() *ArrayObject {
	if v.typ != TypeArray {
		panic("value is not an array")
	}
	return (*ArrayObject)(v.obj)
}

// Is reports reference identity: same immediate value or same heap object.
func (v Value) Is(other Value) bool {
	return v.typ == other.typ && v.payload == other.payload && v.obj == other.obj
}

// asNumber returns the numeric payload for either number representation.
func (v Value) asNumber() float64 {
	if v.typ == TypeIntegerNumber {
		return float64(v.AsInteger())
	}
	return v.AsFloat()
}

// StrictEquals implements the === comparison for values already at hand.
// Objects compare by identity, numbers by numeric value across the two
// internal representations.
func (v Value) StrictEquals(other Value) bool {
	if v.IsNumber() && other.IsNumber() {
		return v.asNumber() == other.asNumber()
	}
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeUndefined, TypeNull:
		return true
	case TypeString:
		return v.AsString() == other.AsString()
	case TypeBoolean:
		return v.AsBoolean() == other.AsBoolean()
	default:
		return v.obj == other.obj
	}
}

// SameValue is the SameValue comparison used by descriptor validation:
// like StrictEquals except NaN equals NaN and +0 differs from -0.
func (v Value) SameValue(other Value) bool {
	if v.IsNumber() && other.IsNumber() {
		a, b := v.asNumber(), other.asNumber()
		if math.IsNaN(a) && math.IsNaN(b) {
			return true
		}
		if a == 0 && b == 0 {
			return math.Signbit(a) == math.Signbit(b)
		}
		return a == b
	}
	return v.StrictEquals(other)
}

// IsFalsey reports whether the value coerces to false: undefined, null,
// false, NaN, ±0 and the empty string.
func (v Value) IsFalsey() bool {
	switch v.typ {
	case TypeUndefined, TypeNull:
		return true
	case TypeBoolean:
		return !v.AsBoolean()
	case TypeIntegerNumber:
		return v.AsInteger() == 0
	case TypeFloatNumber:
		f := v.AsFloat()
		return f == 0 || math.IsNaN(f)
	case TypeString:
		return v.AsString() == ""
	default:
		return false
	}
}

// TypeOf returns the typeof-operator name for the value.
func (v Value) TypeOf() string {
	switch v.typ {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "object"
	case TypeString:
		return "string"
	case TypeFloatNumber, TypeIntegerNumber:
		return "number"
	case TypeBoolean:
		return "boolean"
	case TypeNativeFunction:
		return "function"
	default:
		return "object"
	}
}

// cleanExponentialFormat removes leading zeros from exponent to match JS format
// e.g., "1e-07" -> "1e-7", "1e+25" -> "1e+25"
func cleanExponentialFormat(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == 'e' || s[i] == 'E' {
			if i+1 < len(s) && (s[i+1] == '+' || s[i+1] == '-') {
				sign := s[i+1]
				expStart := i + 2
				j := expStart
				for j < len(s) && s[j] == '0' {
					j++
				}
				if j >= len(s) {
					return s[:i+2] + "0"
				}
				return s[:i+1] + string(sign) + s[j:]
			}
			break
		}
	}
	return s
}

// formatNumber renders a float per ECMAScript ToString(Number) (7.1.12.1).
func formatNumber(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	// -0 prints as 0
	if f == 0 && math.Signbit(f) {
		return "0"
	}
	absF := f
	if absF < 0 {
		absF = -absF
	}
	// Exponential notation outside [1e-6, 1e21)
	if absF != 0 && (absF < 1e-6 || absF >= 1e21) {
		exp := strconv.FormatFloat(f, 'e', -1, 64)
		return cleanExponentialFormat(exp)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// parseStringToNumber converts a string to a number following ECMAScript rules.
// Handles hex (0x), octal (0o), binary (0b), and decimal (including scientific notation).
func parseStringToNumber(s string) float64 {
	str := strings.TrimSpace(s)
	if str == "" {
		return 0
	}

	if len(str) >= 2 && (strings.HasPrefix(str, "0x") || strings.HasPrefix(str, "0X")) {
		if i, err := strconv.ParseInt(str[2:], 16, 64); err == nil {
			return float64(i)
		}
		return math.NaN()
	}

	if len(str) >= 2 && (strings.HasPrefix(str, "0b") || strings.HasPrefix(str, "0B")) {
		if i, err := strconv.ParseInt(str[2:], 2, 64); err == nil {
			return float64(i)
		}
		return math.NaN()
	}

	if len(str) >= 2 && (strings.HasPrefix(str, "0o") || strings.HasPrefix(str, "0O")) {
		if i, err := strconv.ParseInt(str[2:], 8, 64); err == nil {
			return float64(i)
		}
		return math.NaN()
	}

	// Per ECMAScript, "Infinity" is case-sensitive (unlike Go's ParseFloat)
	if str == "Infinity" || str == "+Infinity" {
		return math.Inf(1)
	}
	if str == "-Infinity" {
		return math.Inf(-1)
	}
	strLower := strings.ToLower(str)
	if strLower == "infinity" || strLower == "+infinity" || strLower == "-infinity" {
		return math.NaN()
	}
	// Go's ParseFloat also accepts the "inf" shorthands, which ECMAScript
	// does not.
	if strLower == "inf" || strLower == "+inf" || strLower == "-inf" {
		return math.NaN()
	}

	if f, err := strconv.ParseFloat(str, 64); err == nil {
		return f
	}

	return math.NaN()
}

// ToString renders the value without re-entering script code. Objects come
// out as their default tags; the re-entrant conversion that consults
// toString/valueOf lives in ToStringValue.
func (v Value) ToString() string {
	switch v.typ {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeString:
		return v.AsString()
	case TypeIntegerNumber:
		return strconv.FormatInt(int64(v.AsInteger()), 10)
	case TypeFloatNumber:
		return formatNumber(v.AsFloat())
	case TypeBoolean:
		if v.AsBoolean() {
			return "true"
		}
		return "false"
	case TypeNativeFunction:
		nativeFn := v.AsNativeFunction()
		if nativeFn.name != "" {
			return fmt.Sprintf("<native function %s>", nativeFn.name)
		}
		return "<native function>"
	case TypeArray:
		return "[object Array]"
	case TypeObject:
		return "[object Object]"
	}
	return fmt.Sprintf("<unknown type %d>", v.typ)
}
