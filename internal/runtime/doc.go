// Package runtime defines the boundary between qbridge and the external
// circuit runtime.
//
// The runtime owns every circuit, register, bit, operation and instruction
// object. qbridge only ever holds opaque handles to them (Object) and talks to
// the runtime through a small set of capabilities:
//
//   - Runtime: imports a module namespace by dotted path
//   - Module: resolves named attributes inside a namespace
//   - Type: a constructor that can be called with positional arguments
//   - AttrGetter / MethodCaller: attribute reads and method calls on objects
//   - List: a runtime-owned indexable sequence
//
// Handles are shared, never owned. Two handles denote the same runtime object
// iff they compare equal with ==, so implementations must use pointer (or
// otherwise comparable) object identities.
//
// Every call across this boundary is synchronous. Callers serialize access to
// a runtime themselves; nothing in this package is safe for concurrent use
// unless an implementation says otherwise.
package runtime
