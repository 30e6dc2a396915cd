package runtime

import "fmt"

// Object is an opaque handle to a runtime-owned value.
type Object any

// Tuple is an ordered, immutable sequence of handles passed across the boundary.
type Tuple []Object

// Callable is a runtime value that can be invoked with positional arguments.
type Callable interface {
	Call(args ...Object) (Object, error)
}

// Type is a runtime type constructor.
type Type interface {
	Callable
	TypeName() string
}

// Named is implemented by callables that can be located again by a qualified
// name, e.g. "qiskit.circuit.library.RGate". Persistence uses it to store a
// reference to a constructor instead of the constructor itself.
type Named interface {
	QualName() string
}

// AttrGetter reads attributes off a runtime object.
type AttrGetter interface {
	Attr(name string) (Object, error)
}

// MethodCaller invokes named methods on a runtime object.
type MethodCaller interface {
	CallMethod(name string, args ...Object) (Object, error)
}

// List is a runtime-owned indexable sequence.
type List interface {
	Len() int
	Item(index int) (Object, error)
}

// Module is a runtime module namespace.
type Module interface {
	AttrGetter
	Name() string
}

// Runtime imports module namespaces by dotted path.
type Runtime interface {
	Import(path string) (Module, error)
}

// Locker is implemented by runtimes that require callers to hold a global
// lock for the duration of a call sequence. WithLock runs fn with the lock
// held and returns its error.
type Locker interface {
	WithLock(fn func() error) error
}

// CallableFunc adapts a plain function to the Callable interface.
type CallableFunc func(args ...Object) (Object, error)

// Call implements Callable.
func (f CallableFunc) Call(args ...Object) (Object, error) {
	return f(args...)
}

// TypeOf returns a short description of a handle's dynamic kind for error
// messages.
func TypeOf(obj Object) string {
	if t, ok := obj.(Type); ok {
		return "type " + t.TypeName()
	}
	if obj == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", obj)
}
