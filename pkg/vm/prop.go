package vm

// Flag is a tri-state boolean used by partial property descriptors: an
// attribute a redefinition request leaves out must not be checked against the
// current property, so "not set" is distinct from false.
type Flag int

const (
	FLAG_NOT_SET Flag = iota
	FLAG_FALSE
	FLAG_TRUE
)

func (f Flag) Bool() bool {
	return f == FLAG_TRUE
}

func flagOf(b bool) Flag {
	if b {
		return FLAG_TRUE
	}
	return FLAG_FALSE
}

// PropertyDescriptor describes the current or requested state of one
// property. A complete descriptor has every applicable field present; a
// partial one (a redefinition request) may leave fields unset, in which case
// only the present fields are validated and applied.
type PropertyDescriptor struct {
	Value    Value
	HasValue bool

	Getter    Value
	HasGetter bool
	Setter    Value
	HasSetter bool

	Writable     Flag
	Enumerable   Flag
	Configurable Flag
}

// IsDataDescriptor reports whether the descriptor carries data fields.
func (d PropertyDescriptor) IsDataDescriptor() bool {
	return d.HasValue || d.Writable != FLAG_NOT_SET
}

// IsAccessorDescriptor reports whether the descriptor carries accessor fields.
func (d PropertyDescriptor) IsAccessorDescriptor() bool {
	return d.HasGetter || d.HasSetter
}

// IsGenericDescriptor reports whether the descriptor carries neither data nor
// accessor fields, only attribute flags.
func (d PropertyDescriptor) IsGenericDescriptor() bool {
	return !d.IsDataDescriptor() && !d.IsAccessorDescriptor()
}

// DataDescriptor builds a complete data descriptor.
func DataDescriptor(value Value, writable, enumerable, configurable bool) PropertyDescriptor {
	return PropertyDescriptor{
		Value:        value,
		HasValue:     true,
		Writable:     flagOf(writable),
		Enumerable:   flagOf(enumerable),
		Configurable: flagOf(configurable),
	}
}

// AccessorDescriptor builds a complete accessor descriptor. Pass Undefined
// for an absent getter or setter; an undefined getter is still "present" and
// makes reads yield undefined rather than search further.
func AccessorDescriptor(getter, setter Value, enumerable, configurable bool) PropertyDescriptor {
	return PropertyDescriptor{
		Getter:       getter,
		HasGetter:    true,
		Setter:       setter,
		HasSetter:    true,
		Enumerable:   flagOf(enumerable),
		Configurable: flagOf(configurable),
	}
}

// ValueOnlyDescriptor builds the partial descriptor used by assignment:
// just a value, no attribute requests.
func ValueOnlyDescriptor(value Value) PropertyDescriptor {
	return PropertyDescriptor{Value: value, HasValue: true}
}

// Property is the stored, complete state of one own property. Entries are
// immutable once installed: redefinition swaps the entry rather than
// mutating it in place.
type Property struct {
	value  Value
	getter Value
	setter Value

	accessor     bool
	writable     bool
	enumerable   bool
	configurable bool
}

// IsAccessor reports whether the property is a get/set pair.
func (p *Property) IsAccessor() bool { return p.accessor }

// Writable reports the writable attribute. Meaningless for accessors.
func (p *Property) Writable() bool { return p.writable }

// Enumerable reports the enumerable attribute.
func (p *Property) Enumerable() bool { return p.enumerable }

// Configurable reports the configurable attribute.
func (p *Property) Configurable() bool { return p.configurable }

// toDescriptor builds the complete descriptor for a stored property.
func (p *Property) toDescriptor() PropertyDescriptor {
	if p.accessor {
		d := AccessorDescriptor(p.getter, p.setter, p.enumerable, p.configurable)
		return d
	}
	return DataDescriptor(p.value, p.writable, p.enumerable, p.configurable)
}

// newProperty installs a descriptor on a fresh slot, filling omitted fields
// with the defaults: undefined values, false flags.
func newProperty(desc PropertyDescriptor) *Property {
	p := &Property{
		value:        Undefined,
		getter:       Undefined,
		setter:       Undefined,
		enumerable:   desc.Enumerable.Bool(),
		configurable: desc.Configurable.Bool(),
	}
	if desc.IsAccessorDescriptor() {
		p.accessor = true
		if desc.HasGetter {
			p.getter = desc.Getter
		}
		if desc.HasSetter {
			p.setter = desc.Setter
		}
		return p
	}
	if desc.HasValue {
		p.value = desc.Value
	}
	p.writable = desc.Writable.Bool()
	return p
}
