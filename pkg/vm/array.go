package vm

import (
	"sort"
	"unsafe"

	"skink/pkg/errors"
)

// ArrayObject is the array exotic object: an ordinary property table plus
// the derived invariant that the own "length" data property always exceeds
// the largest own array-index key. Only [[DefineOwnProperty]] diverges from
// the ordinary algorithm; everything else is inherited.
type ArrayObject struct {
	PlainObject
}

// NewArrayWithProto creates an array with an explicit prototype and initial
// length. The length property is installed writable, non-enumerable and
// non-configurable.
func NewArrayWithProto(proto Value, initialLength uint32) Value {
	prototype := Null
	if proto.IsObject() {
		prototype = proto
	}
	a := &ArrayObject{PlainObject{
		prototype:  prototype,
		props:      make(map[string]*Property),
		extensible: true,
	}}
	a.props["length"] = &Property{
		value:    numericValue(float64(initialLength)),
		getter:   Undefined,
		setter:   Undefined,
		writable: true,
	}
	a.keyOrder = append(a.keyOrder, "length")
	return Value{typ: TypeArray, obj: unsafe.Pointer(a)}
}

// Length returns the current value of the length property.
func (a *ArrayObject) Length() uint32 {
	return uint32(a.props["length"].value.asNumber())
}

// setLengthValue overwrites the stored length directly, keeping its
// attributes. Used for the index-write bump and the partial-shrink result;
// length is always a non-configurable own data property so this never needs
// re-validation.
func (a *ArrayObject) setLengthValue(n uint32) {
	p := a.props["length"]
	np := *p
	np.value = numericValue(float64(n))
	a.props["length"] = &np
}

func (a *ArrayObject) setLengthWritable(w bool) {
	p := a.props["length"]
	np := *p
	np.writable = w
	a.props["length"] = &np
}

// DefineOwn is the array exotic [[DefineOwnProperty]]. Length writes coerce
// the incoming value and may shrink the array, deleting index properties
// from the highest present index downward; a non-configurable index stops
// the shrink, leaves length at blockingIndex+1 and reports failure. Index
// writes at or beyond the current length bump length on success.
//
// The error return is used only for script re-entry failures and for a
// length value not representable as a uint32; ordinary validation rejection
// is (false, nil).
func (a *ArrayObject) DefineOwn(name string, desc PropertyDescriptor) (bool, error) {
	if name == "length" {
		return a.defineLength(desc)
	}
	if idx, isIndex := arrayIndex(name); isIndex {
		oldLen := a.Length()
		if idx >= oldLen && !a.props["length"].writable {
			return false, nil
		}
		if !a.PlainObject.DefineOwn(name, desc) {
			return false, nil
		}
		if idx >= oldLen {
			a.setLengthValue(idx + 1)
		}
		return true, nil
	}
	return a.PlainObject.DefineOwn(name, desc), nil
}

func (a *ArrayObject) defineLength(desc PropertyDescriptor) (bool, error) {
	if !desc.HasValue {
		// Attribute-only request, e.g. freezing length.
		return a.PlainObject.DefineOwn("length", desc), nil
	}

	numberLen, err := ToNumber(desc.Value)
	if err != nil {
		return false, err
	}
	newLen := toUint32Float(numberLen)
	if float64(newLen) != numberLen {
		return false, errors.NewTypeError("invalid array length")
	}

	newDesc := desc
	newDesc.Value = numericValue(float64(newLen))
	oldLen := a.Length()

	if newLen >= oldLen {
		return a.PlainObject.DefineOwn("length", newDesc), nil
	}

	lengthProp := a.props["length"]
	if !lengthProp.writable {
		return false, nil
	}

	// If the request also clears writable, defer that until the deletions
	// are done so they can still update length.
	newWritable := true
	if newDesc.Writable == FLAG_FALSE {
		newWritable = false
		newDesc.Writable = FLAG_TRUE
	}

	if !a.PlainObject.DefineOwn("length", newDesc) {
		return false, nil
	}

	// Delete every own index property at or above the new length, highest
	// first, stopping at the first non-configurable blocker.
	var doomed []uint32
	for _, k := range a.keyOrder {
		if idx, ok := arrayIndex(k); ok && idx >= newLen {
			doomed = append(doomed, idx)
		}
	}
	sort.Slice(doomed, func(i, j int) bool { return doomed[i] > doomed[j] })

	for _, idx := range doomed {
		if !a.PlainObject.DeleteOwn(indexToKey(idx)) {
			a.setLengthValue(idx + 1)
			if !newWritable {
				a.setLengthWritable(false)
			}
			// Partial effect applied, failure reported: callers must not
			// assume failure means no change.
			return false, nil
		}
	}
	if !newWritable {
		a.setLengthWritable(false)
	}
	return true, nil
}
