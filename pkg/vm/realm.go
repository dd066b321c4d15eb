package vm

// Realm is an isolated set of intrinsics: the shared Object.prototype root
// every object in the realm ultimately inherits from, the array prototype,
// and the namespace objects built-ins hang off. The root is passed
// explicitly through construction rather than reached through an ambient
// package singleton, so multiple realms coexist and tests get fresh ones.
type Realm struct {
	// Built-in prototypes
	ObjectPrototype   Value
	FunctionPrototype Value
	ArrayPrototype    Value

	// Namespace objects (cached for built-in installation)
	GlobalObject      Value
	ObjectConstructor Value
	ArrayConstructor  Value
}

// NewRealm wires the bare prototype graph: an Object.prototype with a null
// prototype, Function.prototype and Array.prototype inheriting from it, and
// empty namespace objects. Built-in methods are installed on top by the
// builtins package.
func NewRealm() *Realm {
	r := &Realm{}
	r.ObjectPrototype = NewObjectWithProto(Null)
	r.FunctionPrototype = NewObjectWithProto(r.ObjectPrototype)
	r.ArrayPrototype = NewObjectWithProto(r.ObjectPrototype)
	r.GlobalObject = NewObjectWithProto(r.ObjectPrototype)
	r.ObjectConstructor = NewObjectWithProto(r.FunctionPrototype)
	r.ArrayConstructor = NewObjectWithProto(r.FunctionPrototype)
	return r
}

// NewObject creates an ordinary object inheriting from the realm's
// Object.prototype root.
func (r *Realm) NewObject() Value {
	return NewObjectWithProto(r.ObjectPrototype)
}

// NewArray creates an array exotic object with the given initial length,
// inheriting from the realm's Array.prototype.
func (r *Realm) NewArray(initialLength uint32) Value {
	return NewArrayWithProto(r.ArrayPrototype, initialLength)
}
