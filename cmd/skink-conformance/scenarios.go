package main

import (
	"fmt"

	"skink/pkg/builtins"
	"skink/pkg/errors"
	"skink/pkg/vm"
)

// scenario is one self-contained behavioral check run against a fresh realm.
type scenario struct {
	name string
	run  func(r *vm.Realm) error
}

func failf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

var scenarios = []scenario{
	{"descriptor/defaults-are-false", func(r *vm.Realm) error {
		o := r.NewObject()
		ok, err := vm.DefineOwnProperty(o, "x", vm.PropertyDescriptor{Value: vm.IntegerValue(1), HasValue: true})
		if err != nil || !ok {
			return failf("define failed: ok=%v err=%v", ok, err)
		}
		desc, _ := vm.GetOwnProperty(o, "x")
		if desc.Writable.Bool() || desc.Enumerable.Bool() || desc.Configurable.Bool() {
			return failf("omitted attributes must default to false, got %+v", desc)
		}
		return nil
	}},

	{"descriptor/non-configurable-locks", func(r *vm.Realm) error {
		o := r.NewObject()
		if _, err := vm.DefineOwnProperty(o, "x", vm.DataDescriptor(vm.IntegerValue(1), false, false, false)); err != nil {
			return err
		}
		ok, err := vm.DefineOwnProperty(o, "x", vm.PropertyDescriptor{Configurable: vm.FLAG_TRUE})
		if err != nil {
			return err
		}
		if ok {
			return failf("configurable upgrade on locked property must be rejected")
		}
		// Same-value redefinition stays legal.
		ok, err = vm.DefineOwnProperty(o, "x", vm.ValueOnlyDescriptor(vm.IntegerValue(1)))
		if err != nil || !ok {
			return failf("same-value redefinition rejected: ok=%v err=%v", ok, err)
		}
		return nil
	}},

	{"enumeration/index-then-insertion-order", func(r *vm.Realm) error {
		o := r.NewObject()
		po := o.AsPlainObject()
		po.SetOwn("b", vm.IntegerValue(1))
		po.SetOwn("10", vm.IntegerValue(2))
		po.SetOwn("a", vm.IntegerValue(3))
		po.SetOwn("2", vm.IntegerValue(4))
		keys := vm.OwnPropertyKeys(o)
		want := []string{"2", "10", "b", "a"}
		if len(keys) != len(want) {
			return failf("key count: got %v want %v", keys, want)
		}
		for i := range want {
			if keys[i] != want[i] {
				return failf("key order: got %v want %v", keys, want)
			}
		}
		return nil
	}},

	{"array/length-tracks-highest-index", func(r *vm.Realm) error {
		a := r.NewArray(0)
		if _, err := vm.DefineOwnProperty(a, "41", vm.DataDescriptor(vm.IntegerValue(1), true, true, true)); err != nil {
			return err
		}
		if got := a.AsArray().Length(); got != 42 {
			return failf("length after sparse define: got %d want 42", got)
		}
		return nil
	}},

	{"array/shrink-deletes-indices", func(r *vm.Realm) error {
		a := r.NewArray(0)
		for i := 0; i < 5; i++ {
			key := fmt.Sprintf("%d", i)
			if _, err := vm.DefineOwnProperty(a, key, vm.DataDescriptor(vm.IntegerValue(int32(i)), true, true, true)); err != nil {
				return err
			}
		}
		ok, err := vm.DefineOwnProperty(a, "length", vm.ValueOnlyDescriptor(vm.IntegerValue(2)))
		if err != nil || !ok {
			return failf("shrink failed: ok=%v err=%v", ok, err)
		}
		if vm.HasProperty(a, "2") || !vm.HasProperty(a, "1") {
			return failf("shrink must delete indices >= new length and keep the rest")
		}
		return nil
	}},

	{"array/shrink-stops-at-non-configurable", func(r *vm.Realm) error {
		a := r.NewArray(0)
		for i := 0; i < 5; i++ {
			key := fmt.Sprintf("%d", i)
			if _, err := vm.DefineOwnProperty(a, key, vm.DataDescriptor(vm.IntegerValue(int32(i)), true, true, true)); err != nil {
				return err
			}
		}
		if _, err := vm.DefineOwnProperty(a, "3", vm.PropertyDescriptor{Configurable: vm.FLAG_FALSE}); err != nil {
			return err
		}
		ok, err := vm.DefineOwnProperty(a, "length", vm.ValueOnlyDescriptor(vm.IntegerValue(1)))
		if err != nil {
			return err
		}
		if ok {
			return failf("blocked shrink must report failure")
		}
		if got := a.AsArray().Length(); got != 4 {
			return failf("length after blocked shrink: got %d want 4", got)
		}
		return nil
	}},

	{"array/invalid-length-is-type-error", func(r *vm.Realm) error {
		a := r.NewArray(0)
		_, err := vm.DefineOwnProperty(a, "length", vm.ValueOnlyDescriptor(vm.NumberValue(4.5)))
		if !errors.IsTypeError(err) {
			return failf("length 4.5 must raise a TypeError, got %v", err)
		}
		_, err = vm.DefineOwnProperty(a, "length", vm.ValueOnlyDescriptor(vm.IntegerValue(-1)))
		if !errors.IsTypeError(err) {
			return failf("length -1 must raise a TypeError, got %v", err)
		}
		return nil
	}},

	{"chain/set-shadows-inherited-data", func(r *vm.Realm) error {
		proto := r.NewObject()
		proto.AsPlainObject().SetOwn("x", vm.IntegerValue(1))
		o := vm.NewObjectWithProto(proto)
		if _, err := vm.Set(o, "x", vm.IntegerValue(2)); err != nil {
			return err
		}
		own, found := vm.GetOwnProperty(o, "x")
		if !found || !own.Value.StrictEquals(vm.IntegerValue(2)) {
			return failf("write must create a shadowing own property")
		}
		inherited, _ := vm.Get(proto, "x")
		if !inherited.StrictEquals(vm.IntegerValue(1)) {
			return failf("ancestor must be untouched, got %s", inherited.ToString())
		}
		return nil
	}},

	{"chain/getterless-accessor-is-undefined", func(r *vm.Realm) error {
		proto := r.NewObject()
		setter := vm.NewNativeFunction(1, "set", func(this vm.Value, args []vm.Value) (vm.Value, error) {
			return vm.Undefined, nil
		})
		if _, err := vm.DefineOwnProperty(proto, "x", vm.AccessorDescriptor(vm.Undefined, setter, true, true)); err != nil {
			return err
		}
		grandProto := r.NewObject()
		grandProto.AsPlainObject().SetOwn("x", vm.IntegerValue(1))
		proto.AsPlainObject().SetPrototype(grandProto)

		o := vm.NewObjectWithProto(proto)
		v, err := vm.Get(o, "x")
		if err != nil {
			return err
		}
		if !v.IsUndefined() {
			return failf("getterless accessor must stop the search at undefined, got %s", v.ToString())
		}
		return nil
	}},

	{"chain/accessor-runs-with-receiver", func(r *vm.Realm) error {
		proto := r.NewObject()
		getter := vm.NewNativeFunction(0, "get", func(this vm.Value, args []vm.Value) (vm.Value, error) {
			return vm.Get(this, "tag")
		})
		if _, err := vm.DefineOwnProperty(proto, "x", vm.AccessorDescriptor(getter, vm.Undefined, true, true)); err != nil {
			return err
		}
		o := vm.NewObjectWithProto(proto)
		o.AsPlainObject().SetOwn("tag", vm.NewString("receiver"))
		v, err := vm.Get(o, "x")
		if err != nil {
			return err
		}
		if !v.StrictEquals(vm.NewString("receiver")) {
			return failf("getter this must be the receiver, got %s", v.ToString())
		}
		return nil
	}},

	{"coerce/to-uint32-wraps", func(r *vm.Realm) error {
		cases := []struct {
			in   vm.Value
			want uint32
		}{
			{vm.NumberValue(-1), 4294967295},
			{vm.NumberValue(4294967296), 0},
			{vm.NumberValue(4294967297.7), 1},
			{vm.NaN, 0},
		}
		for _, c := range cases {
			got, err := vm.ToUint32(c.in)
			if err != nil {
				return err
			}
			if got != c.want {
				return failf("ToUint32(%s): got %d want %d", c.in.ToString(), got, c.want)
			}
		}
		return nil
	}},

	{"coerce/to-primitive-consults-value-of", func(r *vm.Realm) error {
		o := r.NewObject()
		o.AsPlainObject().SetOwn("valueOf", vm.NewNativeFunction(0, "valueOf", func(this vm.Value, args []vm.Value) (vm.Value, error) {
			return vm.IntegerValue(41), nil
		}))
		n, err := vm.ToNumber(o)
		if err != nil {
			return err
		}
		if n != 41 {
			return failf("ToNumber via valueOf: got %v want 41", n)
		}
		return nil
	}},

	{"builtins/define-property-throws", func(r *vm.Realm) error {
		o := r.NewObject()
		if _, err := vm.DefineOwnProperty(o, "x", vm.DataDescriptor(vm.IntegerValue(1), false, false, false)); err != nil {
			return err
		}
		defineProperty, err := vm.Get(r.ObjectConstructor, "defineProperty")
		if err != nil {
			return err
		}
		attrs := r.NewObject()
		attrs.AsPlainObject().SetOwn("value", vm.IntegerValue(2))
		_, err = vm.Call(defineProperty, vm.Undefined, []vm.Value{o, vm.NewString("x"), attrs})
		if !errors.IsTypeError(err) {
			return failf("redefinition through Object.defineProperty must raise a TypeError, got %v", err)
		}
		return nil
	}},

	{"builtins/map-preserves-holes", func(r *vm.Realm) error {
		a := r.NewArray(3)
		if _, err := vm.DefineOwnProperty(a, "0", vm.DataDescriptor(vm.IntegerValue(1), true, true, true)); err != nil {
			return err
		}
		if _, err := vm.DefineOwnProperty(a, "2", vm.DataDescriptor(vm.IntegerValue(3), true, true, true)); err != nil {
			return err
		}
		double := vm.NewNativeFunction(1, "double", func(this vm.Value, args []vm.Value) (vm.Value, error) {
			n, err := vm.ToNumber(args[0])
			if err != nil {
				return vm.Undefined, err
			}
			return vm.NumberValue(n * 2), nil
		})
		out, err := builtins.GenericArrayAlgorithm(r, builtins.KindMap, a, double, vm.Undefined)
		if err != nil {
			return err
		}
		if out.AsArray().Length() != 3 {
			return failf("map result length: got %d want 3", out.AsArray().Length())
		}
		if vm.HasProperty(out, "1") {
			return failf("map must not materialize holes")
		}
		return nil
	}},

	{"builtins/reduce-empty-no-seed", func(r *vm.Realm) error {
		a := r.NewArray(0)
		sum := vm.NewNativeFunction(2, "sum", func(this vm.Value, args []vm.Value) (vm.Value, error) {
			return vm.Undefined, nil
		})
		_, err := builtins.GenericArrayAlgorithm(r, builtins.KindReduce, a, sum, vm.Undefined)
		if !errors.IsTypeError(err) {
			return failf("reduce of empty array without a seed must raise a TypeError, got %v", err)
		}
		return nil
	}},

	{"builtins/every-over-array-like", func(r *vm.Realm) error {
		o := r.NewObject()
		po := o.AsPlainObject()
		po.SetOwn("length", vm.IntegerValue(3))
		po.SetOwn("0", vm.IntegerValue(2))
		po.SetOwn("1", vm.IntegerValue(4))
		po.SetOwn("2", vm.IntegerValue(6))
		even := vm.NewNativeFunction(1, "even", func(this vm.Value, args []vm.Value) (vm.Value, error) {
			n, err := vm.ToNumber(args[0])
			if err != nil {
				return vm.Undefined, err
			}
			return vm.BooleanValue(int64(n)%2 == 0), nil
		})
		res, err := builtins.GenericArrayAlgorithm(r, builtins.KindEvery, o, even, vm.Undefined)
		if err != nil {
			return err
		}
		if !res.AsBoolean() {
			return failf("every over an even array-like must be true")
		}
		return nil
	}},

	{"builtins/freeze-locks-object", func(r *vm.Realm) error {
		o := r.NewObject()
		o.AsPlainObject().SetOwn("x", vm.IntegerValue(1))
		freeze, err := vm.Get(r.ObjectConstructor, "freeze")
		if err != nil {
			return err
		}
		if _, err := vm.Call(freeze, vm.Undefined, []vm.Value{o}); err != nil {
			return err
		}
		ok, err := vm.Set(o, "x", vm.IntegerValue(2))
		if err != nil {
			return err
		}
		if ok || vm.IsExtensible(o) {
			return failf("frozen object must reject writes and extensions")
		}
		return nil
	}},
}
