package vm

import (
	"skink/pkg/errors"
)

// The functions in this file are the sole mutation and lookup path into
// property storage: the evaluator and every built-in go through them, never
// through the tables directly. Each call either fully applies its effect or
// fully fails, except the documented array length partial shrink.

// propsOf returns the property table behind an object value, or nil for
// non-objects. Arrays share the ordinary table; their divergence lives
// entirely in ArrayObject.DefineOwn.
func propsOf(v Value) *PlainObject {
	switch v.typ {
	case TypeObject:
		return v.AsPlainObject()
	case TypeArray:
		return &v.AsArray().PlainObject
	}
	return nil
}

// GetOwnProperty returns the complete descriptor of an own property of o.
// No prototype search, no side effects.
func GetOwnProperty(o Value, name string) (PropertyDescriptor, bool) {
	if po := propsOf(o); po != nil {
		return po.GetOwnProperty(name)
	}
	return PropertyDescriptor{}, false
}

// DefineOwnProperty validates and applies a descriptor on o, routing to the
// exotic algorithm for arrays. (false, nil) is ordinary validation
// rejection; the error is non-nil only when script re-entry failed or an
// array length is not representable as a uint32. Callers that require
// success convert false into a TypeError-class failure.
func DefineOwnProperty(o Value, name string, desc PropertyDescriptor) (bool, error) {
	switch o.typ {
	case TypeArray:
		return o.AsArray().DefineOwn(name, desc)
	case TypeObject:
		return o.AsPlainObject().DefineOwn(name, desc), nil
	}
	return false, errors.NewTypeError("cannot define property %q on %s", name, o.TypeOf())
}

// HasProperty reports whether name resolves as an own or inherited property
// of o. The walk is visited-set bounded, so pathological prototype cycles
// terminate.
func HasProperty(o Value, name string) bool {
	cur := o
	var visited map[*PlainObject]struct{}
	for {
		po := propsOf(cur)
		if po == nil {
			return false
		}
		if po.HasOwn(name) {
			return true
		}
		proto := po.GetPrototype()
		if !proto.IsObject() {
			return false
		}
		if visited == nil {
			visited = make(map[*PlainObject]struct{})
		}
		if _, seen := visited[po]; seen {
			return false
		}
		visited[po] = struct{}{}
		cur = proto
	}
}

// Get reads a property of o, searching the prototype chain.
func Get(o Value, name string) (Value, error) {
	return GetWithReceiver(o, name, o)
}

// GetWithReceiver reads a property of o with an explicit receiver: when the
// search lands on an accessor, its getter runs with `this` bound to receiver
// rather than to the prototype holding the accessor. An accessor with no
// getter yields undefined without searching further up the chain.
func GetWithReceiver(o Value, name string, receiver Value) (Value, error) {
	cur := o
	var visited map[*PlainObject]struct{}
	for {
		po := propsOf(cur)
		if po == nil {
			return Undefined, nil
		}
		if p := po.getOwn(name); p != nil {
			if p.accessor {
				if p.getter.IsUndefined() {
					return Undefined, nil
				}
				return Call(p.getter, receiver, nil)
			}
			return p.value, nil
		}
		proto := po.GetPrototype()
		if !proto.IsObject() {
			return Undefined, nil
		}
		if visited == nil {
			visited = make(map[*PlainObject]struct{})
		}
		if _, seen := visited[po]; seen {
			return Undefined, nil
		}
		visited[po] = struct{}{}
		cur = proto
	}
}

// Set writes a property on o. Non-strict callers may ignore a false result;
// strict callers escalate it.
func Set(o Value, name string, v Value) (bool, error) {
	return SetWithReceiver(o, name, v, o)
}

// SetWithReceiver writes a property with an explicit receiver. An accessor
// found anywhere on the chain runs its setter with `this` = receiver (false
// if the setter is absent); an inherited data property is shadowed by a
// fresh own property on the receiver, never mutated on the ancestor; an own
// non-writable data property rejects the write.
func SetWithReceiver(o Value, name string, v Value, receiver Value) (bool, error) {
	var owner *Property
	cur := o
	var visited map[*PlainObject]struct{}
	for {
		po := propsOf(cur)
		if po == nil {
			break
		}
		if p := po.getOwn(name); p != nil {
			owner = p
			break
		}
		proto := po.GetPrototype()
		if !proto.IsObject() {
			break
		}
		if visited == nil {
			visited = make(map[*PlainObject]struct{})
		}
		if _, seen := visited[po]; seen {
			break
		}
		visited[po] = struct{}{}
		cur = proto
	}

	if owner != nil && owner.accessor {
		if owner.setter.IsUndefined() {
			return false, nil
		}
		if _, err := Call(owner.setter, receiver, []Value{v}); err != nil {
			return false, err
		}
		return true, nil
	}
	if owner != nil && !owner.writable {
		return false, nil
	}

	rp := propsOf(receiver)
	if rp == nil {
		return false, nil
	}
	if existing := rp.getOwn(name); existing != nil {
		if existing.accessor || !existing.writable {
			return false, nil
		}
		return DefineOwnProperty(receiver, name, ValueOnlyDescriptor(v))
	}
	return DefineOwnProperty(receiver, name, DataDescriptor(v, true, true, true))
}

// DeleteProperty removes an own property of o. True when the property was
// removed or never existed; false for an own non-configurable property,
// which is never forcibly removed.
func DeleteProperty(o Value, name string) bool {
	if po := propsOf(o); po != nil {
		return po.DeleteOwn(name)
	}
	return false
}

// OwnPropertyKeys returns a snapshot of o's own keys in enumeration order:
// array indices ascending, then other strings in first-definition order.
// Later mutation of o does not change an already-returned slice.
func OwnPropertyKeys(o Value) []string {
	if po := propsOf(o); po != nil {
		return po.OwnKeys()
	}
	return nil
}

// GetPrototypeOf returns o's prototype, or Null for non-objects.
func GetPrototypeOf(o Value) Value {
	if po := propsOf(o); po != nil {
		return po.GetPrototype()
	}
	return Null
}

// SetPrototypeOf replaces o's prototype. False when o is non-extensible and
// the new prototype differs from the current one, or o is not an object.
func SetPrototypeOf(o Value, proto Value) bool {
	if po := propsOf(o); po != nil {
		return po.SetPrototype(proto)
	}
	return false
}

// IsExtensible reports whether new properties can be added to o.
func IsExtensible(o Value) bool {
	if po := propsOf(o); po != nil {
		return po.IsExtensible()
	}
	return false
}

// PreventExtensions clears o's extensible flag. Returns false for
// non-objects.
func PreventExtensions(o Value) bool {
	if po := propsOf(o); po != nil {
		po.PreventExtensions()
		return true
	}
	return false
}

// Call invokes a callable value with an explicit `this` and arguments.
func Call(fn, this Value, args []Value) (Value, error) {
	if !fn.IsCallable() {
		return Undefined, errors.NewTypeError("%s is not a function", fn.ToString())
	}
	return fn.AsNativeFunction().fn(this, args)
}
