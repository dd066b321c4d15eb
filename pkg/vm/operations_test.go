package vm

import (
	"testing"

	"skink/pkg/errors"
)

func TestGetWalksPrototypeChain(t *testing.T) {
	proto := NewObjectWithProto(Null)
	proto.AsPlainObject().SetOwn("inherited", IntegerValue(7))
	o := NewObjectWithProto(proto)
	o.AsPlainObject().SetOwn("own", IntegerValue(1))

	v, err := Get(o, "own")
	if err != nil || !v.StrictEquals(IntegerValue(1)) {
		t.Errorf("own property read failed: %v %v", v.ToString(), err)
	}
	v, err = Get(o, "inherited")
	if err != nil || !v.StrictEquals(IntegerValue(7)) {
		t.Errorf("inherited property read failed: %v %v", v.ToString(), err)
	}
	v, err = Get(o, "missing")
	if err != nil || !v.IsUndefined() {
		t.Errorf("missing property must read as undefined: %v %v", v.ToString(), err)
	}
}

func TestGetShadowing(t *testing.T) {
	proto := NewObjectWithProto(Null)
	proto.AsPlainObject().SetOwn("x", IntegerValue(1))
	o := NewObjectWithProto(proto)
	o.AsPlainObject().SetOwn("x", IntegerValue(2))
	v, _ := Get(o, "x")
	if !v.StrictEquals(IntegerValue(2)) {
		t.Errorf("own property must shadow the prototype's: got %s", v.ToString())
	}
}

func TestInheritedAccessorWithoutGetterYieldsUndefined(t *testing.T) {
	// An accessor with an undefined getter is found, stops the search, and
	// reads as undefined; the chain is not searched further.
	root := NewObjectWithProto(Null)
	root.AsPlainObject().SetOwn("1", IntegerValue(99))
	proto := NewObjectWithProto(root)
	setter := NewNativeFunction(1, "set", func(this Value, args []Value) (Value, error) {
		return Undefined, nil
	})
	proto.AsPlainObject().DefineOwn("1", AccessorDescriptor(Undefined, setter, true, true))
	o := NewObjectWithProto(proto)

	v, err := Get(o, "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.IsUndefined() {
		t.Errorf("getterless accessor must yield undefined, got %s", v.ToString())
	}
}

func TestGetterReceiverBinding(t *testing.T) {
	proto := NewObjectWithProto(Null)
	var seenThis Value
	getter := NewNativeFunction(0, "get", func(this Value, args []Value) (Value, error) {
		seenThis = this
		return IntegerValue(1), nil
	})
	proto.AsPlainObject().DefineOwn("p", AccessorDescriptor(getter, Undefined, true, true))
	o := NewObjectWithProto(proto)

	if _, err := Get(o, "p"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !seenThis.Is(o) {
		t.Errorf("inherited getter must run with this = original receiver")
	}
}

func TestGetterErrorPropagates(t *testing.T) {
	o := NewObjectWithProto(Null)
	getter := NewNativeFunction(0, "get", func(this Value, args []Value) (Value, error) {
		return Undefined, errors.NewTypeError("boom")
	})
	o.AsPlainObject().DefineOwn("p", AccessorDescriptor(getter, Undefined, true, true))
	if _, err := Get(o, "p"); !errors.IsTypeError(err) {
		t.Errorf("getter failure must propagate, got %v", err)
	}
}

func TestSetCreatesOwnOverInheritedData(t *testing.T) {
	proto := NewObjectWithProto(Null)
	proto.AsPlainObject().SetOwn("x", IntegerValue(1))
	o := NewObjectWithProto(proto)

	ok, err := Set(o, "x", IntegerValue(2))
	if err != nil || !ok {
		t.Fatalf("assignment failed: ok=%v err=%v", ok, err)
	}
	// The ancestor is untouched; the receiver has a fresh own property.
	pv, _ := Get(proto, "x")
	if !pv.StrictEquals(IntegerValue(1)) {
		t.Errorf("assignment must never mutate the prototype, got %s", pv.ToString())
	}
	if !o.AsPlainObject().HasOwn("x") {
		t.Errorf("assignment must create an own property on the receiver")
	}
}

func TestSetInvokesInheritedSetter(t *testing.T) {
	proto := NewObjectWithProto(Null)
	var seenThis, seenValue Value
	setter := NewNativeFunction(1, "set", func(this Value, args []Value) (Value, error) {
		seenThis = this
		if len(args) > 0 {
			seenValue = args[0]
		}
		return Undefined, nil
	})
	proto.AsPlainObject().DefineOwn("x", AccessorDescriptor(Undefined, setter, true, true))
	o := NewObjectWithProto(proto)

	ok, err := Set(o, "x", IntegerValue(5))
	if err != nil || !ok {
		t.Fatalf("setter assignment failed: ok=%v err=%v", ok, err)
	}
	if !seenThis.Is(o) {
		t.Errorf("setter must run with this = receiver")
	}
	if !seenValue.StrictEquals(IntegerValue(5)) {
		t.Errorf("setter received %s", seenValue.ToString())
	}
	if o.AsPlainObject().HasOwn("x") {
		t.Errorf("accessor assignment must not create an own data property")
	}
}

func TestSetWithoutSetterFails(t *testing.T) {
	o := NewObjectWithProto(Null)
	getter := NewNativeFunction(0, "get", func(this Value, args []Value) (Value, error) {
		return IntegerValue(1), nil
	})
	o.AsPlainObject().DefineOwn("x", AccessorDescriptor(getter, Undefined, true, true))
	ok, err := Set(o, "x", IntegerValue(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("assignment through a setterless accessor must report false")
	}
}

func TestSetRespectsNonWritable(t *testing.T) {
	o := NewObjectWithProto(Null)
	o.AsPlainObject().DefineOwn("x", DataDescriptor(IntegerValue(1), false, true, true))
	ok, err := Set(o, "x", IntegerValue(2))
	if err != nil || ok {
		t.Errorf("write to non-writable property: ok=%v err=%v", ok, err)
	}
	v, _ := Get(o, "x")
	if !v.StrictEquals(IntegerValue(1)) {
		t.Errorf("failed write must leave the value unchanged")
	}
	// Inherited non-writable data blocks shadowing too.
	child := NewObjectWithProto(o)
	ok, _ = Set(child, "x", IntegerValue(3))
	if ok || child.AsPlainObject().HasOwn("x") {
		t.Errorf("inherited non-writable property must block shadowing")
	}
}

func TestSetOnNonExtensibleReceiver(t *testing.T) {
	o := NewObjectWithProto(Null)
	o.AsPlainObject().PreventExtensions()
	ok, err := Set(o, "fresh", IntegerValue(1))
	if err != nil || ok {
		t.Errorf("new property on non-extensible receiver: ok=%v err=%v", ok, err)
	}
}

func TestHasPropertyWalksChain(t *testing.T) {
	proto := NewObjectWithProto(Null)
	proto.AsPlainObject().SetOwn("inherited", IntegerValue(1))
	o := NewObjectWithProto(proto)
	if !HasProperty(o, "inherited") {
		t.Errorf("HasProperty must see inherited properties")
	}
	if HasProperty(o, "missing") {
		t.Errorf("HasProperty must be false for absent keys")
	}
	// A getterless accessor still counts as present.
	proto.AsPlainObject().DefineOwn("acc", AccessorDescriptor(Undefined, Undefined, true, true))
	if !HasProperty(o, "acc") {
		t.Errorf("accessor presence does not depend on a getter")
	}
}

func TestCyclicPrototypeChainTerminates(t *testing.T) {
	a := NewObjectWithProto(Null)
	b := NewObjectWithProto(a)
	// Wire a cycle directly; lookups must stay bounded.
	a.AsPlainObject().SetPrototype(b)

	if HasProperty(a, "nope") {
		t.Errorf("lookup on a cyclic chain must terminate false")
	}
	v, err := Get(a, "nope")
	if err != nil || !v.IsUndefined() {
		t.Errorf("get on a cyclic chain: %v %v", v.ToString(), err)
	}
	ok, err := Set(a, "x", IntegerValue(1))
	if err != nil || !ok {
		t.Errorf("set on a cyclic chain: ok=%v err=%v", ok, err)
	}
}

func TestDefineOwnPropertyOnNonObject(t *testing.T) {
	_, err := DefineOwnProperty(IntegerValue(1), "x", ValueOnlyDescriptor(IntegerValue(1)))
	if !errors.IsTypeError(err) {
		t.Errorf("define on a primitive must fail with TypeError, got %v", err)
	}
}

func TestCallNonCallable(t *testing.T) {
	_, err := Call(IntegerValue(1), Undefined, nil)
	if !errors.IsTypeError(err) {
		t.Errorf("calling a non-callable must fail with TypeError, got %v", err)
	}
}

func TestReentrantMutationDuringGetter(t *testing.T) {
	// A getter that mutates the object it lives on: the operation in flight
	// must not cache stale state.
	o := NewObjectWithProto(Null)
	po := o.AsPlainObject()
	getter := NewNativeFunction(0, "get", func(this Value, args []Value) (Value, error) {
		po.SetOwn("side", IntegerValue(42))
		return IntegerValue(1), nil
	})
	po.DefineOwn("trap", AccessorDescriptor(getter, Undefined, true, true))

	if _, err := Get(o, "trap"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := Get(o, "side")
	if !v.StrictEquals(IntegerValue(42)) {
		t.Errorf("re-entrant mutation must be visible afterwards")
	}
}
