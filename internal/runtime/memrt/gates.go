package memrt

import (
	"fmt"

	"github.com/roach88/qbridge/internal/runtime"
)

// ParamType type-checks a single operation parameter.
type ParamType interface {
	// Dynamic reports whether the parameter may change during execution
	// (true) or is part of the operation's fixed state (false).
	Dynamic() bool
	// Bind returns value in normalized form, or a TypeError.
	Bind(value runtime.Object) (runtime.Object, error)
}

// FloatType accepts floating-point numbers and widens integers.
type FloatType struct{}

func (FloatType) Dynamic() bool { return true }

func (FloatType) Bind(value runtime.Object) (runtime.Object, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	}
	return nil, runtime.Errorf(runtime.KindType, "required a floating-point number, but received '%v'", value)
}

// OpaqueType accepts anything unchanged.
type OpaqueType struct{}

func (OpaqueType) Dynamic() bool { return false }

func (OpaqueType) Bind(value runtime.Object) (runtime.Object, error) { return value, nil }

// Operation is a constructed gate or other circuit operation.
type Operation struct {
	name       string
	numQubits  int
	numClbits  int
	params     []runtime.Object
	paramTypes []ParamType
}

// Name returns the operation name, e.g. "rz".
func (op *Operation) Name() string { return op.name }

// NumQubits returns how many qubits the operation acts on.
func (op *Operation) NumQubits() int { return op.numQubits }

// NumClbits returns how many classical bits the operation acts on.
func (op *Operation) NumClbits() int { return op.numClbits }

// Params returns a copy of the bound parameters.
func (op *Operation) Params() []runtime.Object {
	out := make([]runtime.Object, len(op.params))
	copy(out, op.params)
	return out
}

// DynamicParams returns the parameters whose type is dynamic.
func (op *Operation) DynamicParams() []runtime.Object {
	var out []runtime.Object
	for i, p := range op.params {
		if op.paramTypes[i].Dynamic() {
			out = append(out, p)
		}
	}
	return out
}

// Attr implements runtime.AttrGetter.
func (op *Operation) Attr(name string) (runtime.Object, error) {
	switch name {
	case "name":
		return op.name, nil
	case "num_qubits":
		return op.numQubits, nil
	case "num_clbits":
		return op.numClbits, nil
	case "params":
		return runtime.Tuple(op.Params()), nil
	}
	return nil, runtime.Errorf(runtime.KindAttribute, "operation has no attribute %q", name)
}

func (op *Operation) String() string {
	return fmt.Sprintf("Operation(%s, qubits=%d, params=%v)", op.name, op.numQubits, op.params)
}

func newOperation(name string, numQubits, numClbits int, paramTypes []ParamType, args []runtime.Object) (*Operation, error) {
	if len(args) != len(paramTypes) {
		return nil, runtime.Errorf(runtime.KindType, "%s takes %d parameters, got %d", name, len(paramTypes), len(args))
	}
	params := make([]runtime.Object, len(args))
	for i, a := range args {
		v, err := paramTypes[i].Bind(a)
		if err != nil {
			return nil, err
		}
		params[i] = v
	}
	return &Operation{name: name, numQubits: numQubits, numClbits: numClbits, params: params, paramTypes: paramTypes}, nil
}

// gateType builds a library constructor with fixed parameter types.
func gateType(typeName, opName string, numQubits, numClbits int, paramTypes ...ParamType) *Type {
	return NewType(typeName, func(args ...runtime.Object) (runtime.Object, error) {
		return newOperation(opName, numQubits, numClbits, paramTypes, args)
	})
}

// newGenericGate implements Gate(name, num_qubits, params).
func newGenericGate(args ...runtime.Object) (runtime.Object, error) {
	if len(args) != 3 {
		return nil, runtime.Errorf(runtime.KindType, "Gate() takes (name, num_qubits, params), got %d arguments", len(args))
	}
	name, ok := args[0].(string)
	if !ok || name == "" {
		return nil, runtime.Errorf(runtime.KindType, "gate name must be a non-empty string, got %v", args[0])
	}
	n, ok := asInt(args[1])
	if !ok || n < 0 {
		return nil, runtime.Errorf(runtime.KindType, "num_qubits must be a non-negative integer, got %v", args[1])
	}
	params, ok := args[2].(runtime.Tuple)
	if !ok {
		return nil, runtime.Errorf(runtime.KindType, "params must be a tuple, got %T", args[2])
	}
	paramTypes := make([]ParamType, len(params))
	for i := range paramTypes {
		paramTypes[i] = FloatType{}
	}
	return newOperation(name, n, 0, paramTypes, params)
}

func newLibraryModule() *Module {
	m := NewModule(LibraryNamespace)
	m.Set("HGate", gateType("HGate", "h", 1, 0))
	m.Set("CHGate", gateType("CHGate", "ch", 2, 0))
	m.Set("CXGate", gateType("CXGate", "cx", 2, 0))
	m.Set("RGate", gateType("RGate", "r", 1, 0, FloatType{}, FloatType{}))
	m.Set("RZGate", gateType("RZGate", "rz", 1, 0, FloatType{}))
	m.Set("Measure", gateType("Measure", "measure", 1, 1))
	return m
}
