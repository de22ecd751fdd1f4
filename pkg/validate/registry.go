package validate

import (
	"reflect"
	"sync"
)

// Registry maps Go model types to their validators. Lookups that miss are a
// normal outcome: models without validation metadata simply produce no
// schema constraints.
type Registry struct {
	mu         sync.RWMutex
	validators map[reflect.Type]Validator
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{validators: make(map[reflect.Type]Validator)}
}

// Register associates a validator with the model's type. Pointer models are
// registered under their element type so *User and User share a validator.
// Registering the same type twice replaces the previous validator.
func (r *Registry) Register(model any, v Validator) {
	if model == nil || v == nil {
		return
	}
	r.RegisterType(reflect.TypeOf(model), v)
}

// RegisterType associates a validator with an explicit reflect.Type.
func (r *Registry) RegisterType(t reflect.Type, v Validator) {
	if t == nil || v == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validators[normaliseType(t)] = v
}

// Lookup returns the validator registered for the type, if any.
func (r *Registry) Lookup(t reflect.Type) (Validator, bool) {
	if r == nil || t == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.validators[normaliseType(t)]
	return v, ok
}

// LookupFor returns the validator registered for the model value's type.
func (r *Registry) LookupFor(model any) (Validator, bool) {
	if model == nil {
		return nil, false
	}
	return r.Lookup(reflect.TypeOf(model))
}

// ResolverFor returns a Resolver that defers the lookup until traversal
// time, allowing includes between validators regardless of registration
// order.
func (r *Registry) ResolverFor(model any) Resolver {
	t := reflect.TypeOf(model)
	return ResolverFunc(func() (Validator, bool) {
		return r.Lookup(t)
	})
}

func normaliseType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
