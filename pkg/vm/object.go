package vm

import (
	"sort"
	"strconv"
	"unsafe"
)

// maxArrayIndex is the largest valid array index, 2^32 - 2. An array's
// length tops out one above it.
const maxArrayIndex = 4294967294

// arrayIndex parses a canonical array index key. Returns (index, true) when
// the key is the exact decimal form of an integer in [0, 2^32-2]: no sign,
// no leading zeros (except "0" itself), and round-trips precisely.
func arrayIndex(key string) (uint32, bool) {
	if key == "" {
		return 0, false
	}
	if len(key) > 1 && key[0] == '0' {
		return 0, false
	}
	var idx uint64
	for i := 0; i < len(key); i++ {
		ch := key[i]
		if ch < '0' || ch > '9' {
			return 0, false
		}
		idx = idx*10 + uint64(ch-'0')
		if idx > maxArrayIndex {
			return 0, false
		}
	}
	return uint32(idx), true
}

// IsArrayIndex reports whether key is a canonical array index.
func IsArrayIndex(key string) bool {
	_, ok := arrayIndex(key)
	return ok
}

func indexToKey(idx uint32) string {
	return strconv.FormatUint(uint64(idx), 10)
}

// PlainObject is the ordinary object: an ordered own-property table, a
// prototype reference and an extensible flag. The table holds complete
// Property entries keyed by name; keyOrder remembers first-definition order
// for enumeration. Exotic kinds embed PlainObject and override only the
// steps where their behavior diverges.
type PlainObject struct {
	Object
	prototype  Value
	props      map[string]*Property
	keyOrder   []string
	extensible bool
}

// NewObjectWithProto creates an ordinary object with an explicit prototype.
// Pass Null for a prototype-less object; realms hand out objects wired to
// their shared Object.prototype root via Realm.NewObject.
func NewObjectWithProto(proto Value) Value {
	prototype := Null
	if proto.IsObject() {
		prototype = proto
	}
	po := &PlainObject{
		prototype:  prototype,
		props:      make(map[string]*Property),
		extensible: true,
	}
	return Value{typ: TypeObject, obj: unsafe.Pointer(po)}
}

// NewValueFromPlainObject wraps an existing object back into a Value.
func NewValueFromPlainObject(o *PlainObject) Value {
	return Value{typ: TypeObject, obj: unsafe.Pointer(o)}
}

// getOwn returns the stored entry for an own property, or nil.
func (o *PlainObject) getOwn(name string) *Property {
	return o.props[name]
}

// GetOwnProperty returns the complete descriptor for an own property.
// No side effects, no prototype search.
func (o *PlainObject) GetOwnProperty(name string) (PropertyDescriptor, bool) {
	if p := o.props[name]; p != nil {
		return p.toDescriptor(), true
	}
	return PropertyDescriptor{}, false
}

// HasOwn reports whether an own property with the given name exists.
func (o *PlainObject) HasOwn(name string) bool {
	_, ok := o.props[name]
	return ok
}

// DefineOwn runs the ordinary [[DefineOwnProperty]] validation state machine
// and installs or replaces the entry on success. Returns false, with no
// mutation, when the request conflicts with a non-configurable current
// property or the object is not extensible.
func (o *PlainObject) DefineOwn(name string, desc PropertyDescriptor) bool {
	current := o.props[name]

	if current == nil {
		if !o.extensible {
			return false
		}
		o.props[name] = newProperty(desc)
		o.keyOrder = append(o.keyOrder, name)
		return true
	}

	if !current.configurable {
		if desc.Configurable == FLAG_TRUE {
			return false
		}
		if desc.Enumerable != FLAG_NOT_SET && desc.Enumerable.Bool() != current.enumerable {
			return false
		}
		// Kind changes need a configurable current property.
		if current.accessor && desc.IsDataDescriptor() {
			return false
		}
		if !current.accessor && desc.IsAccessorDescriptor() {
			return false
		}
		if current.accessor {
			// Each accessor half present in the request must be the very
			// same function (undefined compares as a value here).
			if desc.HasGetter && !desc.Getter.SameValue(current.getter) {
				return false
			}
			if desc.HasSetter && !desc.Setter.SameValue(current.setter) {
				return false
			}
		} else if !current.writable {
			if desc.Writable == FLAG_TRUE {
				return false
			}
			if desc.HasValue && !desc.Value.SameValue(current.value) {
				return false
			}
		}
	}

	// Validation passed: build the replacement entry from the current state
	// plus the requested fields. A kind switch discards the old kind's
	// fields and defaults the new kind's unspecified ones.
	np := &Property{
		value:        current.value,
		getter:       current.getter,
		setter:       current.setter,
		accessor:     current.accessor,
		writable:     current.writable,
		enumerable:   current.enumerable,
		configurable: current.configurable,
	}
	switch {
	case !current.accessor && desc.IsAccessorDescriptor():
		np.accessor = true
		np.value = Undefined
		np.writable = false
		np.getter = Undefined
		np.setter = Undefined
	case current.accessor && desc.IsDataDescriptor():
		np.accessor = false
		np.getter = Undefined
		np.setter = Undefined
		np.value = Undefined
		np.writable = false
	}
	if desc.HasValue {
		np.value = desc.Value
	}
	if desc.HasGetter {
		np.getter = desc.Getter
	}
	if desc.HasSetter {
		np.setter = desc.Setter
	}
	if desc.Writable != FLAG_NOT_SET {
		np.writable = desc.Writable.Bool()
	}
	if desc.Enumerable != FLAG_NOT_SET {
		np.enumerable = desc.Enumerable.Bool()
	}
	if desc.Configurable != FLAG_NOT_SET {
		np.configurable = desc.Configurable.Bool()
	}
	o.props[name] = np
	return true
}

// DeleteOwn removes an own property. Deleting an absent property succeeds;
// a non-configurable one is never removed.
func (o *PlainObject) DeleteOwn(name string) bool {
	p := o.props[name]
	if p == nil {
		return true
	}
	if !p.configurable {
		return false
	}
	delete(o.props, name)
	for i, k := range o.keyOrder {
		if k == name {
			o.keyOrder = append(o.keyOrder[:i], o.keyOrder[i+1:]...)
			break
		}
	}
	return true
}

// OwnKeys returns every own key in the mandated order: canonical array
// indices first, ascending numerically, then the remaining string keys in
// first-definition order. The slice is a snapshot of the table at call time.
func (o *PlainObject) OwnKeys() []string {
	var indices []uint32
	stringKeys := make([]string, 0, len(o.keyOrder))
	for _, k := range o.keyOrder {
		if idx, ok := arrayIndex(k); ok {
			indices = append(indices, idx)
		} else {
			stringKeys = append(stringKeys, k)
		}
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	result := make([]string, 0, len(indices)+len(stringKeys))
	for _, idx := range indices {
		result = append(result, indexToKey(idx))
	}
	result = append(result, stringKeys...)
	return result
}

// EnumerableOwnKeys returns the ordered own keys whose properties are
// enumerable (the Object.keys view).
func (o *PlainObject) EnumerableOwnKeys() []string {
	all := o.OwnKeys()
	keys := make([]string, 0, len(all))
	for _, k := range all {
		if p := o.props[k]; p != nil && p.enumerable {
			keys = append(keys, k)
		}
	}
	return keys
}

// SetOwn installs or updates an own data property with plain-assignment
// attributes (writable, enumerable, configurable all true on creation).
// An existing non-writable property makes this a no-op.
func (o *PlainObject) SetOwn(name string, v Value) {
	if p := o.props[name]; p != nil {
		if p.accessor || !p.writable {
			return
		}
		o.DefineOwn(name, ValueOnlyDescriptor(v))
		return
	}
	o.DefineOwn(name, DataDescriptor(v, true, true, true))
}

// SetOwnNonEnumerable installs a built-in method style property: writable
// and configurable but hidden from enumeration.
func (o *PlainObject) SetOwnNonEnumerable(name string, v Value) {
	if p := o.props[name]; p != nil {
		if p.accessor || !p.writable {
			return
		}
		o.DefineOwn(name, ValueOnlyDescriptor(v))
		return
	}
	o.DefineOwn(name, DataDescriptor(v, true, false, true))
}

// GetPrototype returns the object's prototype.
func (o *PlainObject) GetPrototype() Value {
	return o.prototype
}

// SetPrototype sets the object's prototype. Fails on a non-extensible
// object unless the prototype is unchanged.
func (o *PlainObject) SetPrototype(proto Value) bool {
	if !proto.IsObject() {
		proto = Null
	}
	if proto.Is(o.prototype) {
		return true
	}
	if !o.extensible {
		return false
	}
	o.prototype = proto
	return true
}

// IsExtensible returns whether new properties can be added to this object.
func (o *PlainObject) IsExtensible() bool {
	return o.extensible
}

// PreventExtensions clears the extensible flag. There is no way back.
func (o *PlainObject) PreventExtensions() {
	o.extensible = false
}
