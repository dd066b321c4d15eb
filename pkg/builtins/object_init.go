package builtins

import (
	"skink/pkg/vm"
)

// ObjectInitializer implements the Object builtin
type ObjectInitializer struct{}

func (o *ObjectInitializer) Name() string {
	return "Object"
}

func (o *ObjectInitializer) Priority() int {
	return PriorityObject // Must be first (base prototype)
}

// ToPropertyDescriptor reads a descriptor object into its internal form.
// Each field is fetched through Get, so accessor-backed descriptor objects
// run script and their failures propagate. get/set must be callable or
// undefined; mixing them with value/writable is rejected.
func ToPropertyDescriptor(attrs vm.Value) (vm.PropertyDescriptor, error) {
	var desc vm.PropertyDescriptor
	if !attrs.IsObject() {
		return desc, errTypef("property description must be an object: %s", attrs.ToString())
	}

	if vm.HasProperty(attrs, "enumerable") {
		v, err := vm.Get(attrs, "enumerable")
		if err != nil {
			return desc, err
		}
		desc.Enumerable = flagOfBool(vm.ToBoolean(v))
	}
	if vm.HasProperty(attrs, "configurable") {
		v, err := vm.Get(attrs, "configurable")
		if err != nil {
			return desc, err
		}
		desc.Configurable = flagOfBool(vm.ToBoolean(v))
	}
	if vm.HasProperty(attrs, "value") {
		v, err := vm.Get(attrs, "value")
		if err != nil {
			return desc, err
		}
		desc.Value = v
		desc.HasValue = true
	}
	if vm.HasProperty(attrs, "writable") {
		v, err := vm.Get(attrs, "writable")
		if err != nil {
			return desc, err
		}
		desc.Writable = flagOfBool(vm.ToBoolean(v))
	}
	if vm.HasProperty(attrs, "get") {
		v, err := vm.Get(attrs, "get")
		if err != nil {
			return desc, err
		}
		if !v.IsUndefined() && !v.IsCallable() {
			return desc, errTypef("getter must be a function: %s", v.ToString())
		}
		desc.Getter = v
		desc.HasGetter = true
	}
	if vm.HasProperty(attrs, "set") {
		v, err := vm.Get(attrs, "set")
		if err != nil {
			return desc, err
		}
		if !v.IsUndefined() && !v.IsCallable() {
			return desc, errTypef("setter must be a function: %s", v.ToString())
		}
		desc.Setter = v
		desc.HasSetter = true
	}

	if desc.IsAccessorDescriptor() && (desc.HasValue || desc.Writable != vm.FLAG_NOT_SET) {
		return desc, errTypef("invalid property descriptor: cannot both specify accessors and a value or writable attribute")
	}
	return desc, nil
}

// FromPropertyDescriptor renders a complete internal descriptor back into a
// fresh ordinary object of the realm.
func FromPropertyDescriptor(r *vm.Realm, desc vm.PropertyDescriptor) vm.Value {
	obj := r.NewObject()
	po := obj.AsPlainObject()
	if desc.IsAccessorDescriptor() {
		po.SetOwn("get", desc.Getter)
		po.SetOwn("set", desc.Setter)
	} else {
		po.SetOwn("value", desc.Value)
		po.SetOwn("writable", vm.BooleanValue(desc.Writable.Bool()))
	}
	po.SetOwn("enumerable", vm.BooleanValue(desc.Enumerable.Bool()))
	po.SetOwn("configurable", vm.BooleanValue(desc.Configurable.Bool()))
	return obj
}

func flagOfBool(b bool) vm.Flag {
	if b {
		return vm.FLAG_TRUE
	}
	return vm.FLAG_FALSE
}

func requireObject(v vm.Value, op string) error {
	if !v.IsObject() {
		return errTypef("%s called on non-object: %s", op, v.ToString())
	}
	return nil
}

// definePropertyOrThrow wraps DefineOwnProperty for callers that must not
// observe a silent rejection: ordinary validation failure becomes a
// TypeError naming the property.
func definePropertyOrThrow(o vm.Value, name string, desc vm.PropertyDescriptor) error {
	ok, err := vm.DefineOwnProperty(o, name, desc)
	if err != nil {
		return err
	}
	if !ok {
		return errTypef("Cannot redefine property: %s", name)
	}
	return nil
}

func (o *ObjectInitializer) InitRuntime(ctx *RuntimeContext) error {
	r := ctx.Realm
	objectProto := r.ObjectPrototype.AsPlainObject()

	objectProto.SetOwnNonEnumerable("hasOwnProperty", vm.NewNativeFunction(1, "hasOwnProperty", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		name, err := vm.ToStringValue(argAt(args, 0))
		if err != nil {
			return vm.Undefined, err
		}
		_, found := vm.GetOwnProperty(this, name)
		return vm.BooleanValue(found), nil
	}))

	objectProto.SetOwnNonEnumerable("isPrototypeOf", vm.NewNativeFunction(1, "isPrototypeOf", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		obj := argAt(args, 0)
		if !obj.IsObject() || !this.IsObject() {
			return vm.False, nil
		}
		seen := make(map[vm.Value]struct{})
		for {
			proto := vm.GetPrototypeOf(obj)
			if !proto.IsObject() {
				return vm.False, nil
			}
			if proto.Is(this) {
				return vm.True, nil
			}
			if _, ok := seen[obj]; ok {
				return vm.False, nil
			}
			seen[obj] = struct{}{}
			obj = proto
		}
	}))

	objectProto.SetOwnNonEnumerable("propertyIsEnumerable", vm.NewNativeFunction(1, "propertyIsEnumerable", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		name, err := vm.ToStringValue(argAt(args, 0))
		if err != nil {
			return vm.Undefined, err
		}
		desc, found := vm.GetOwnProperty(this, name)
		return vm.BooleanValue(found && desc.Enumerable.Bool()), nil
	}))

	objectProto.SetOwnNonEnumerable("toString", vm.NewNativeFunction(0, "toString", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		switch this.Type() {
		case vm.TypeUndefined:
			return vm.NewString("[object Undefined]"), nil
		case vm.TypeNull:
			return vm.NewString("[object Null]"), nil
		case vm.TypeArray:
			return vm.NewString("[object Array]"), nil
		case vm.TypeNativeFunction:
			return vm.NewString("[object Function]"), nil
		default:
			return vm.NewString("[object Object]"), nil
		}
	}))

	objectProto.SetOwnNonEnumerable("valueOf", vm.NewNativeFunction(0, "valueOf", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return this, nil
	}))

	objectCtor := r.ObjectConstructor.AsPlainObject()
	objectCtor.SetOwnNonEnumerable("prototype", r.ObjectPrototype)

	objectCtor.SetOwnNonEnumerable("defineProperty", vm.NewNativeFunction(3, "defineProperty", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		obj := argAt(args, 0)
		if err := requireObject(obj, "Object.defineProperty"); err != nil {
			return vm.Undefined, err
		}
		name, err := vm.ToStringValue(argAt(args, 1))
		if err != nil {
			return vm.Undefined, err
		}
		desc, err := ToPropertyDescriptor(argAt(args, 2))
		if err != nil {
			return vm.Undefined, err
		}
		if err := definePropertyOrThrow(obj, name, desc); err != nil {
			return vm.Undefined, err
		}
		return obj, nil
	}))

	objectCtor.SetOwnNonEnumerable("defineProperties", vm.NewNativeFunction(2, "defineProperties", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		obj := argAt(args, 0)
		if err := requireObject(obj, "Object.defineProperties"); err != nil {
			return vm.Undefined, err
		}
		attrsObj := argAt(args, 1)
		if err := requireObject(attrsObj, "Object.defineProperties"); err != nil {
			return vm.Undefined, err
		}

		// All descriptor objects are read (and may run script) before any
		// property is defined, so a bad descriptor rejects the whole call.
		type pending struct {
			name string
			desc vm.PropertyDescriptor
		}
		var descs []pending
		for _, name := range vm.OwnPropertyKeys(attrsObj) {
			d, found := vm.GetOwnProperty(attrsObj, name)
			if !found || !d.Enumerable.Bool() {
				continue
			}
			attrs, err := vm.Get(attrsObj, name)
			if err != nil {
				return vm.Undefined, err
			}
			desc, err := ToPropertyDescriptor(attrs)
			if err != nil {
				return vm.Undefined, err
			}
			descs = append(descs, pending{name, desc})
		}
		for _, p := range descs {
			if err := definePropertyOrThrow(obj, p.name, p.desc); err != nil {
				return vm.Undefined, err
			}
		}
		return obj, nil
	}))

	objectCtor.SetOwnNonEnumerable("getOwnPropertyDescriptor", vm.NewNativeFunction(2, "getOwnPropertyDescriptor", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		obj := argAt(args, 0)
		if err := requireObject(obj, "Object.getOwnPropertyDescriptor"); err != nil {
			return vm.Undefined, err
		}
		name, err := vm.ToStringValue(argAt(args, 1))
		if err != nil {
			return vm.Undefined, err
		}
		desc, found := vm.GetOwnProperty(obj, name)
		if !found {
			return vm.Undefined, nil
		}
		return FromPropertyDescriptor(r, desc), nil
	}))

	objectCtor.SetOwnNonEnumerable("keys", vm.NewNativeFunction(1, "keys", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		obj := argAt(args, 0)
		if err := requireObject(obj, "Object.keys"); err != nil {
			return vm.Undefined, err
		}
		var keys []string
		for _, name := range vm.OwnPropertyKeys(obj) {
			if d, found := vm.GetOwnProperty(obj, name); found && d.Enumerable.Bool() {
				keys = append(keys, name)
			}
		}
		return newStringArray(r, keys)
	}))

	objectCtor.SetOwnNonEnumerable("getOwnPropertyNames", vm.NewNativeFunction(1, "getOwnPropertyNames", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		obj := argAt(args, 0)
		if err := requireObject(obj, "Object.getOwnPropertyNames"); err != nil {
			return vm.Undefined, err
		}
		return newStringArray(r, vm.OwnPropertyKeys(obj))
	}))

	objectCtor.SetOwnNonEnumerable("create", vm.NewNativeFunction(2, "create", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		proto := argAt(args, 0)
		if !proto.IsObject() && !proto.IsNull() {
			return vm.Undefined, errTypef("Object prototype may only be an Object or null: %s", proto.ToString())
		}
		obj := vm.NewObjectWithProto(proto)
		attrs := argAt(args, 1)
		if !attrs.IsUndefined() {
			defineProps, err := vm.Get(r.ObjectConstructor, "defineProperties")
			if err != nil {
				return vm.Undefined, err
			}
			return vm.Call(defineProps, vm.Undefined, []vm.Value{obj, attrs})
		}
		return obj, nil
	}))

	objectCtor.SetOwnNonEnumerable("getPrototypeOf", vm.NewNativeFunction(1, "getPrototypeOf", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		obj := argAt(args, 0)
		if err := requireObject(obj, "Object.getPrototypeOf"); err != nil {
			return vm.Undefined, err
		}
		return vm.GetPrototypeOf(obj), nil
	}))

	objectCtor.SetOwnNonEnumerable("setPrototypeOf", vm.NewNativeFunction(2, "setPrototypeOf", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		obj := argAt(args, 0)
		if err := requireObject(obj, "Object.setPrototypeOf"); err != nil {
			return vm.Undefined, err
		}
		proto := argAt(args, 1)
		if !proto.IsObject() && !proto.IsNull() {
			return vm.Undefined, errTypef("Object prototype may only be an Object or null: %s", proto.ToString())
		}
		if !vm.SetPrototypeOf(obj, proto) {
			return vm.Undefined, errTypef("cannot set prototype of non-extensible object")
		}
		return obj, nil
	}))

	objectCtor.SetOwnNonEnumerable("preventExtensions", vm.NewNativeFunction(1, "preventExtensions", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		obj := argAt(args, 0)
		if err := requireObject(obj, "Object.preventExtensions"); err != nil {
			return vm.Undefined, err
		}
		vm.PreventExtensions(obj)
		return obj, nil
	}))

	objectCtor.SetOwnNonEnumerable("isExtensible", vm.NewNativeFunction(1, "isExtensible", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return vm.BooleanValue(vm.IsExtensible(argAt(args, 0))), nil
	}))

	objectCtor.SetOwnNonEnumerable("freeze", vm.NewNativeFunction(1, "freeze", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		obj := argAt(args, 0)
		if err := requireObject(obj, "Object.freeze"); err != nil {
			return vm.Undefined, err
		}
		vm.PreventExtensions(obj)
		for _, name := range vm.OwnPropertyKeys(obj) {
			desc, found := vm.GetOwnProperty(obj, name)
			if !found {
				continue
			}
			req := vm.PropertyDescriptor{Configurable: vm.FLAG_FALSE}
			if !desc.IsAccessorDescriptor() {
				req.Writable = vm.FLAG_FALSE
			}
			if err := definePropertyOrThrow(obj, name, req); err != nil {
				return vm.Undefined, err
			}
		}
		return obj, nil
	}))

	objectCtor.SetOwnNonEnumerable("isFrozen", vm.NewNativeFunction(1, "isFrozen", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		obj := argAt(args, 0)
		if !obj.IsObject() {
			return vm.True, nil
		}
		if vm.IsExtensible(obj) {
			return vm.False, nil
		}
		for _, name := range vm.OwnPropertyKeys(obj) {
			desc, found := vm.GetOwnProperty(obj, name)
			if !found {
				continue
			}
			if desc.Configurable.Bool() {
				return vm.False, nil
			}
			if !desc.IsAccessorDescriptor() && desc.Writable.Bool() {
				return vm.False, nil
			}
		}
		return vm.True, nil
	}))

	return ctx.DefineGlobal("Object", r.ObjectConstructor)
}

// newStringArray builds a realm array holding the given strings, the result
// shape of Object.keys and friends.
func newStringArray(r *vm.Realm, names []string) (vm.Value, error) {
	arr := r.NewArray(0)
	for i, name := range names {
		if err := definePropertyOrThrow(arr, indexName(int64(i)), vm.DataDescriptor(vm.NewString(name), true, true, true)); err != nil {
			return vm.Undefined, err
		}
	}
	return arr, nil
}
