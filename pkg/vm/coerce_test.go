package vm

import (
	"math"
	"testing"

	"skink/pkg/errors"
)

func TestToNumberPrimitives(t *testing.T) {
	tests := []struct {
		in   Value
		want float64
	}{
		{IntegerValue(3), 3},
		{NumberValue(2.5), 2.5},
		{Null, 0},
		{True, 1},
		{False, 0},
		{NewString("12"), 12},
		{NewString(""), 0},
	}
	for _, tt := range tests {
		got, err := ToNumber(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ToNumber(%s) = %v, %v; want %v", tt.in.ToString(), got, err, tt.want)
		}
	}
	if n, _ := ToNumber(Undefined); !math.IsNaN(n) {
		t.Errorf("ToNumber(undefined) must be NaN")
	}
	if n, _ := ToNumber(NewString("abc")); !math.IsNaN(n) {
		t.Errorf("ToNumber(\"abc\") must be NaN")
	}
}

func TestToPrimitiveAlreadyPrimitive(t *testing.T) {
	for _, v := range []Value{Undefined, Null, True, IntegerValue(1), NewString("s")} {
		got, err := ToPrimitive(v, "number")
		if err != nil || !got.Is(v) {
			t.Errorf("ToPrimitive must pass primitives through unchanged")
		}
	}
}

func TestToPrimitiveUsesValueOf(t *testing.T) {
	o := NewObjectWithProto(Null)
	o.AsPlainObject().SetOwn("valueOf", NewNativeFunction(0, "valueOf", func(this Value, args []Value) (Value, error) {
		return IntegerValue(7), nil
	}))
	o.AsPlainObject().SetOwn("toString", NewNativeFunction(0, "toString", func(this Value, args []Value) (Value, error) {
		return NewString("str"), nil
	}))

	n, err := ToNumber(o)
	if err != nil || n != 7 {
		t.Errorf("number hint must prefer valueOf: %v, %v", n, err)
	}
	s, err := ToStringValue(o)
	if err != nil || s != "str" {
		t.Errorf("string hint must prefer toString: %q, %v", s, err)
	}
}

func TestToPrimitiveSkipsNonPrimitiveResults(t *testing.T) {
	o := NewObjectWithProto(Null)
	po := o.AsPlainObject()
	// valueOf returns an object, so toString gets consulted next.
	po.SetOwn("valueOf", NewNativeFunction(0, "valueOf", func(this Value, args []Value) (Value, error) {
		return NewObjectWithProto(Null), nil
	}))
	po.SetOwn("toString", NewNativeFunction(0, "toString", func(this Value, args []Value) (Value, error) {
		return NewString("5"), nil
	}))
	n, err := ToNumber(o)
	if err != nil || n != 5 {
		t.Errorf("expected fallback to toString, got %v, %v", n, err)
	}
}

func TestToPrimitiveNoCandidates(t *testing.T) {
	o := NewObjectWithProto(Null) // no prototype, no valueOf/toString anywhere
	_, err := ToPrimitive(o, "number")
	if !errors.IsTypeError(err) {
		t.Errorf("object with no primitive conversion must fail with TypeError, got %v", err)
	}
}

func TestToPrimitivePropagatesScriptError(t *testing.T) {
	o := NewObjectWithProto(Null)
	o.AsPlainObject().SetOwn("valueOf", NewNativeFunction(0, "valueOf", func(this Value, args []Value) (Value, error) {
		return Undefined, errors.NewTypeError("no primitive for you")
	}))
	_, err := ToNumber(o)
	if !errors.IsTypeError(err) {
		t.Errorf("valueOf failure must propagate, got %v", err)
	}
}

func TestToPrimitiveThroughInheritedGetter(t *testing.T) {
	// valueOf reached through an inherited accessor: ToPrimitive re-enters
	// Get, which runs the getter, which returns the callable.
	proto := NewObjectWithProto(Null)
	valueOf := NewNativeFunction(0, "valueOf", func(this Value, args []Value) (Value, error) {
		return IntegerValue(3), nil
	})
	getter := NewNativeFunction(0, "get", func(this Value, args []Value) (Value, error) {
		return valueOf, nil
	})
	proto.AsPlainObject().DefineOwn("valueOf", AccessorDescriptor(getter, Undefined, false, true))
	o := NewObjectWithProto(proto)

	n, err := ToNumber(o)
	if err != nil || n != 3 {
		t.Errorf("inherited accessor valueOf: %v, %v", n, err)
	}
}

func TestToLength(t *testing.T) {
	tests := []struct {
		in   Value
		want int64
	}{
		{IntegerValue(5), 5},
		{NumberValue(5.9), 5},
		{NumberValue(-3), 0},
		{NaN, 0},
		{Undefined, 0},
		{NumberValue(math.Inf(1)), maxSafeLength},
		{NumberValue(1e300), maxSafeLength},
		{NewString("4"), 4},
	}
	for _, tt := range tests {
		got, err := ToLength(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ToLength(%s) = %v, %v; want %v", tt.in.ToString(), got, err, tt.want)
		}
	}
}

func TestToUint32(t *testing.T) {
	tests := []struct {
		in   float64
		want uint32
	}{
		{0, 0},
		{1, 1},
		{4294967295, 4294967295},
		{4294967296, 0},
		{4294967297, 1},
		{-1, 4294967295},
		{-4294967295, 1},
		{1.9, 1},
		{-1.9, 4294967295},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
	}
	for _, tt := range tests {
		if got := toUint32Float(tt.in); got != tt.want {
			t.Errorf("toUint32Float(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestToBoolean(t *testing.T) {
	if ToBoolean(NewString("")) || ToBoolean(IntegerValue(0)) || ToBoolean(Undefined) {
		t.Errorf("falsey values must coerce to false")
	}
	if !ToBoolean(NewObjectWithProto(Null)) || !ToBoolean(NewString("0")) {
		t.Errorf("objects and non-empty strings coerce to true")
	}
}
