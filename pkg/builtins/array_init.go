package builtins

import (
	"math"
	"strings"

	"skink/pkg/vm"
)

// ArrayInitializer implements the Array builtin
type ArrayInitializer struct{}

func (a *ArrayInitializer) Name() string {
	return "Array"
}

func (a *ArrayInitializer) Priority() int {
	return PriorityArray // After Object (prototype chain)
}

// ArrayAlgorithmKind selects the iteration protocol run by
// GenericArrayAlgorithm.
type ArrayAlgorithmKind int

const (
	KindEvery ArrayAlgorithmKind = iota
	KindSome
	KindForEach
	KindMap
	KindFilter
	KindIndexOf
	KindReduce
)

func (k ArrayAlgorithmKind) String() string {
	switch k {
	case KindEvery:
		return "every"
	case KindSome:
		return "some"
	case KindForEach:
		return "forEach"
	case KindMap:
		return "map"
	case KindFilter:
		return "filter"
	case KindIndexOf:
		return "indexOf"
	case KindReduce:
		return "reduce"
	default:
		return "unknown"
	}
}

// maxConcreteLength is one above the largest array length, 2^32.
const maxConcreteLength = int64(4294967296)

// GenericArrayAlgorithm runs one of the array iteration protocols over any
// object with a length property. The length is read and coerced once up
// front; element presence (HasProperty) and element reads (Get) happen live
// per index, so a callback that mutates the object changes what later
// iterations see, but never the iteration bound.
//
// For KindIndexOf, callback carries the search element and thisArg the
// optional fromIndex. For KindReduce, accumulator optionally carries the
// initial value. The other kinds invoke callback(element, index, o) with
// `this` bound to thisArg.
func GenericArrayAlgorithm(r *vm.Realm, kind ArrayAlgorithmKind, o, callback, thisArg vm.Value, accumulator ...vm.Value) (vm.Value, error) {
	if !o.IsObject() {
		return vm.Undefined, errTypef("Array.prototype.%s called on non-object: %s", kind, o.ToString())
	}
	lenVal, err := vm.Get(o, "length")
	if err != nil {
		return vm.Undefined, err
	}
	length, err := vm.ToLength(lenVal)
	if err != nil {
		return vm.Undefined, err
	}

	if kind == KindIndexOf {
		return arrayIndexOf(o, length, callback, thisArg)
	}
	if !callback.IsCallable() {
		return vm.Undefined, errTypef("%s is not a function", callback.ToString())
	}
	if kind == KindReduce {
		return arrayReduce(o, length, callback, accumulator)
	}

	var out vm.Value
	var filtered int64
	switch kind {
	case KindMap:
		if length >= maxConcreteLength {
			return vm.Undefined, errTypef("invalid array length")
		}
		out = r.NewArray(uint32(length))
	case KindFilter:
		out = r.NewArray(0)
	}

	for k := int64(0); k < length; k++ {
		key := indexName(k)
		if !vm.HasProperty(o, key) {
			continue
		}
		elem, err := vm.Get(o, key)
		if err != nil {
			return vm.Undefined, err
		}
		res, err := vm.Call(callback, thisArg, []vm.Value{elem, vm.NumberValue(float64(k)), o})
		if err != nil {
			return vm.Undefined, err
		}
		switch kind {
		case KindEvery:
			if !vm.ToBoolean(res) {
				return vm.False, nil
			}
		case KindSome:
			if vm.ToBoolean(res) {
				return vm.True, nil
			}
		case KindMap:
			if err := definePropertyOrThrow(out, key, vm.DataDescriptor(res, true, true, true)); err != nil {
				return vm.Undefined, err
			}
		case KindFilter:
			if vm.ToBoolean(res) {
				if err := definePropertyOrThrow(out, indexName(filtered), vm.DataDescriptor(elem, true, true, true)); err != nil {
					return vm.Undefined, err
				}
				filtered++
			}
		}
	}

	switch kind {
	case KindEvery:
		return vm.True, nil
	case KindSome:
		return vm.False, nil
	case KindMap, KindFilter:
		return out, nil
	default:
		return vm.Undefined, nil
	}
}

func arrayIndexOf(o vm.Value, length int64, search, fromIndex vm.Value) (vm.Value, error) {
	if length == 0 {
		return vm.IntegerValue(-1), nil
	}
	from, err := vm.ToIntegerOrInfinity(fromIndex)
	if err != nil {
		return vm.Undefined, err
	}
	if math.IsInf(from, 1) {
		return vm.IntegerValue(-1), nil
	}
	var k int64
	switch {
	case math.IsInf(from, -1):
		k = 0
	case from < 0:
		if -from >= float64(length) {
			k = 0
		} else {
			k = length + int64(from)
		}
	default:
		if from >= float64(length) {
			return vm.IntegerValue(-1), nil
		}
		k = int64(from)
	}
	for ; k < length; k++ {
		key := indexName(k)
		if !vm.HasProperty(o, key) {
			continue
		}
		elem, err := vm.Get(o, key)
		if err != nil {
			return vm.Undefined, err
		}
		if elem.StrictEquals(search) {
			return vm.NumberValue(float64(k)), nil
		}
	}
	return vm.IntegerValue(-1), nil
}

func arrayReduce(o vm.Value, length int64, callback vm.Value, initial []vm.Value) (vm.Value, error) {
	k := int64(0)
	var acc vm.Value
	if len(initial) > 0 {
		acc = initial[0]
	} else {
		// Seed from the first present element; an empty source with no
		// initial value has nothing to reduce.
		seeded := false
		for ; k < length; k++ {
			key := indexName(k)
			if vm.HasProperty(o, key) {
				v, err := vm.Get(o, key)
				if err != nil {
					return vm.Undefined, err
				}
				acc = v
				seeded = true
				k++
				break
			}
		}
		if !seeded {
			return vm.Undefined, errTypef("Reduce of empty array with no initial value")
		}
	}
	for ; k < length; k++ {
		key := indexName(k)
		if !vm.HasProperty(o, key) {
			continue
		}
		elem, err := vm.Get(o, key)
		if err != nil {
			return vm.Undefined, err
		}
		res, err := vm.Call(callback, vm.Undefined, []vm.Value{acc, elem, vm.NumberValue(float64(k)), o})
		if err != nil {
			return vm.Undefined, err
		}
		acc = res
	}
	return acc, nil
}

// iterationMethod wraps a callback-taking kind as a prototype method.
func iterationMethod(r *vm.Realm, kind ArrayAlgorithmKind, arity int) vm.Value {
	return vm.NewNativeFunction(arity, kind.String(), func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if kind == KindReduce {
			if len(args) >= 2 {
				return GenericArrayAlgorithm(r, kind, this, argAt(args, 0), vm.Undefined, args[1])
			}
			return GenericArrayAlgorithm(r, kind, this, argAt(args, 0), vm.Undefined)
		}
		return GenericArrayAlgorithm(r, kind, this, argAt(args, 0), argAt(args, 1))
	})
}

func (a *ArrayInitializer) InitRuntime(ctx *RuntimeContext) error {
	r := ctx.Realm
	arrayProto := r.ArrayPrototype.AsPlainObject()

	for _, m := range []struct {
		kind  ArrayAlgorithmKind
		arity int
	}{
		{KindEvery, 1},
		{KindSome, 1},
		{KindForEach, 1},
		{KindMap, 1},
		{KindFilter, 1},
		{KindIndexOf, 1},
		{KindReduce, 1},
	} {
		arrayProto.SetOwnNonEnumerable(m.kind.String(), iterationMethod(r, m.kind, m.arity))
	}

	arrayProto.SetOwnNonEnumerable("push", vm.NewNativeFunction(1, "push", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if !this.IsObject() {
			return vm.Undefined, errTypef("Array.prototype.push called on non-object: %s", this.ToString())
		}
		lenVal, err := vm.Get(this, "length")
		if err != nil {
			return vm.Undefined, err
		}
		length, err := vm.ToLength(lenVal)
		if err != nil {
			return vm.Undefined, err
		}
		for _, arg := range args {
			ok, err := vm.Set(this, indexName(length), arg)
			if err != nil {
				return vm.Undefined, err
			}
			if !ok {
				return vm.Undefined, errTypef("Cannot add property %s", indexName(length))
			}
			length++
		}
		newLen := vm.NumberValue(float64(length))
		ok, err := vm.Set(this, "length", newLen)
		if err != nil {
			return vm.Undefined, err
		}
		if !ok {
			return vm.Undefined, errTypef("Cannot assign to read only property 'length'")
		}
		return newLen, nil
	}))

	arrayProto.SetOwnNonEnumerable("join", vm.NewNativeFunction(1, "join", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if !this.IsObject() {
			return vm.Undefined, errTypef("Array.prototype.join called on non-object: %s", this.ToString())
		}
		lenVal, err := vm.Get(this, "length")
		if err != nil {
			return vm.Undefined, err
		}
		length, err := vm.ToLength(lenVal)
		if err != nil {
			return vm.Undefined, err
		}
		sep := ","
		if s := argAt(args, 0); !s.IsUndefined() {
			sep, err = vm.ToStringValue(s)
			if err != nil {
				return vm.Undefined, err
			}
		}
		var sb strings.Builder
		for k := int64(0); k < length; k++ {
			if k > 0 {
				sb.WriteString(sep)
			}
			elem, err := vm.Get(this, indexName(k))
			if err != nil {
				return vm.Undefined, err
			}
			if elem.IsUndefined() || elem.IsNull() {
				continue
			}
			s, err := vm.ToStringValue(elem)
			if err != nil {
				return vm.Undefined, err
			}
			sb.WriteString(s)
		}
		return vm.NewString(sb.String()), nil
	}))

	arrayCtor := r.ArrayConstructor.AsPlainObject()
	arrayCtor.SetOwnNonEnumerable("prototype", r.ArrayPrototype)

	arrayCtor.SetOwnNonEnumerable("isArray", vm.NewNativeFunction(1, "isArray", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return vm.BooleanValue(argAt(args, 0).Type() == vm.TypeArray), nil
	}))

	arrayCtor.SetOwnNonEnumerable("of", vm.NewNativeFunction(0, "of", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		arr := r.NewArray(0)
		for i, arg := range args {
			if err := definePropertyOrThrow(arr, indexName(int64(i)), vm.DataDescriptor(arg, true, true, true)); err != nil {
				return vm.Undefined, err
			}
		}
		return arr, nil
	}))

	return ctx.DefineGlobal("Array", r.ArrayConstructor)
}
