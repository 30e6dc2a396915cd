package circuit

import (
	"fmt"
	"iter"

	"github.com/roach88/qbridge/internal/runtime"
)

// register is the shared body of the two register handle kinds.
//
// bits is a snapshot taken once at construction. It is never re-read from the
// runtime, so it goes stale if the runtime grows the register afterwards.
type register struct {
	object runtime.Object
	bits   []runtime.Object
}

// QuantumRegister wraps a runtime quantum register with O(1) bit access.
type QuantumRegister struct {
	register
}

// ClassicalRegister wraps a runtime classical register with O(1) bit access.
type ClassicalRegister struct {
	register
}

// Bit returns the bit at index, in creation order.
func (r *register) Bit(index int) (runtime.Object, error) {
	if index < 0 || index >= len(r.bits) {
		return nil, &ImporterError{
			Code:    ErrCodeIndexOutOfRange,
			Message: fmt.Sprintf("bit index %d out of range for register of size %d", index, len(r.bits)),
		}
	}
	return r.bits[index], nil
}

// Len returns the number of bits in the snapshot.
func (r *register) Len() int {
	return len(r.bits)
}

// Iter yields every bit in creation order. Each call starts a fresh pass over
// the same snapshot.
func (r *register) Iter() iter.Seq[runtime.Object] {
	return func(yield func(runtime.Object) bool) {
		for _, b := range r.bits {
			if !yield(b) {
				return
			}
		}
	}
}

// All yields (index, bit) pairs in creation order.
func (r *register) All() iter.Seq2[int, runtime.Object] {
	return func(yield func(int, runtime.Object) bool) {
		for i, b := range r.bits {
			if !yield(i, b) {
				return
			}
		}
	}
}

// Object returns the underlying runtime register. The returned handle and the
// wrapper denote the same runtime object.
func (r *register) Object() runtime.Object {
	return r.object
}

// snapshotBits copies a runtime list into a local slice.
func snapshotBits(list runtime.List) ([]runtime.Object, error) {
	n := list.Len()
	bits := make([]runtime.Object, n)
	for i := 0; i < n; i++ {
		b, err := list.Item(i)
		if err != nil {
			return nil, err
		}
		bits[i] = b
	}
	return bits, nil
}

func registerSizeMismatch(name string, want, got int) string {
	return fmt.Sprintf("register %s declared size %d but runtime reports %d bits", name, want, got)
}
