package builtins

import (
	"sort"
	"strconv"

	"skink/pkg/errors"
	"skink/pkg/vm"
)

// indexName renders a non-negative index as a property key. int64 because
// generic array indices range up to 2^53-1.
func indexName(i int64) string {
	return strconv.FormatInt(i, 10)
}

func errTypef(format string, args ...interface{}) error {
	return errors.NewTypeError(format, args...)
}

// BuiltinInitializer is implemented by each builtin module
type BuiltinInitializer interface {
	// Name returns the module name (e.g., "Object", "Array")
	Name() string

	// Priority returns initialization order (lower = earlier)
	Priority() int

	// InitRuntime creates runtime values on the realm
	InitRuntime(ctx *RuntimeContext) error
}

// RuntimeContext provides everything needed for runtime initialization
type RuntimeContext struct {
	Realm *vm.Realm
}

// DefineGlobal installs a value on the realm's global object as a
// non-enumerable data property, the way hosts expose built-ins.
func (ctx *RuntimeContext) DefineGlobal(name string, value vm.Value) error {
	ok, err := vm.DefineOwnProperty(ctx.Realm.GlobalObject, name,
		vm.DataDescriptor(value, true, false, true))
	if err != nil {
		return err
	}
	if !ok {
		return errTypef("cannot install global %s", name)
	}
	return nil
}

// Priority constants for initialization order
const (
	PriorityObject = 0 // Object must be first (base prototype)
	PriorityArray  = 1 // Array second (inherits from Object)
)

func standardInitializers() []BuiltinInitializer {
	inits := []BuiltinInitializer{
		&ObjectInitializer{},
		&ArrayInitializer{},
	}
	sort.Slice(inits, func(i, j int) bool { return inits[i].Priority() < inits[j].Priority() })
	return inits
}

// InitializeStandardLibrary installs the standard built-ins onto an
// existing realm in priority order.
func InitializeStandardLibrary(r *vm.Realm) error {
	ctx := &RuntimeContext{Realm: r}
	for _, init := range standardInitializers() {
		if err := init.InitRuntime(ctx); err != nil {
			return err
		}
	}
	return nil
}

// NewRealm creates a realm with the standard built-ins installed.
func NewRealm() (*vm.Realm, error) {
	r := vm.NewRealm()
	if err := InitializeStandardLibrary(r); err != nil {
		return nil, err
	}
	return r, nil
}

// argAt returns the idx-th argument or Undefined, mirroring how script
// callees see missing arguments.
func argAt(args []vm.Value, idx int) vm.Value {
	if idx < len(args) {
		return args[idx]
	}
	return vm.Undefined
}
