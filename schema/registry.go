package schema

import (
	"fmt"
	"sync"
)

// Registry is the process-wide, freely-shared lookup from record-type
// name to its compiled Binding (spec.md §5: "the schema registry is
// process-wide... shared without locking"). A sync.RWMutex guards the
// rare write path (Register); lookups never block each other, matching
// the teacher's construct-once/reuse-freely resource discipline applied
// to a map instead of a sync.Pool.
type Registry struct {
	mu       sync.RWMutex
	bindings map[string]any
}

// NewRegistry constructs an empty Registry. Most programs need exactly
// one, held for the process lifetime.
func NewRegistry() *Registry {
	return &Registry{bindings: make(map[string]any)}
}

// Register stores binding under name. Registering the same name twice
// replaces the prior binding; Registry does not itself enforce
// uniqueness, since recompiling a schema at startup (e.g. in tests) is a
// legitimate use.
func Register[T any](r *Registry, name string, binding *Binding[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[name] = binding
}

// Lookup retrieves the *Binding[T] registered under name, failing if no
// binding exists or it was registered for a different T.
func Lookup[T any](r *Registry, name string) (*Binding[T], error) {
	r.mu.RLock()
	v, ok := r.bindings[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("schema: no binding registered for %q", name)
	}
	b, ok := v.(*Binding[T])
	if !ok {
		return nil, fmt.Errorf("schema: binding registered for %q has a different record type", name)
	}
	return b, nil
}
