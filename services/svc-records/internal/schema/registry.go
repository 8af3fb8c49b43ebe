package schema

import (
	"errors"
	"fmt"
)

var (
	ErrRegistrySealed = errors.New("schema registry is sealed")
	ErrBindingExists  = errors.New("schema binding already registered")
	ErrEmptyBinding   = errors.New("schema binding is empty")
)

type (
	classKey struct {
		owner     string
		operation Operation
	}

	methodKey struct {
		owner  string
		method string
	}

	// Registry maps operations to schema bindings. Class bindings are keyed by
	// (owner, operation); method bindings by (owner, method) and win over class
	// bindings field by field. Bind* calls happen during startup only; once
	// sealed the registry is read-only and safe for concurrent Resolve calls.
	Registry struct {
		classes map[classKey]Binding
		methods map[methodKey]Binding
		sealed  bool
	}
)

func NewRegistry() *Registry {
	return &Registry{
		classes: make(map[classKey]Binding),
		methods: make(map[methodKey]Binding),
	}
}

func (r *Registry) BindClass(owner string, operation Operation, binding Binding) error {
	if err := r.checkWritable(binding); err != nil {
		return fmt.Errorf("binding %s.%s: %w", owner, operation, err)
	}

	key := classKey{owner: owner, operation: operation}
	if _, ok := r.classes[key]; ok {
		return fmt.Errorf("binding %s.%s: %w", owner, operation, ErrBindingExists)
	}

	r.classes[key] = binding

	return nil
}

func (r *Registry) BindMethod(owner, method string, binding Binding) error {
	if err := r.checkWritable(binding); err != nil {
		return fmt.Errorf("binding %s#%s: %w", owner, method, err)
	}

	key := methodKey{owner: owner, method: method}
	if _, ok := r.methods[key]; ok {
		return fmt.Errorf("binding %s#%s: %w", owner, method, ErrBindingExists)
	}

	r.methods[key] = binding

	return nil
}

func (r *Registry) Seal() {
	r.sealed = true
}

func (r *Registry) Sealed() bool {
	return r.sealed
}

// Resolve returns the binding for an operation, optionally refined by a method name.
// With nothing registered the zero Binding is returned with SourceIdentity.
func (r *Registry) Resolve(owner string, operation Operation, method string) (Binding, Source) {
	binding, source := Binding{}, SourceIdentity

	if classBinding, ok := r.classes[classKey{owner: owner, operation: operation}]; ok {
		binding, source = classBinding, SourceClass
	}

	if method == "" {
		return binding, source
	}

	if methodBinding, ok := r.methods[methodKey{owner: owner, method: method}]; ok {
		return binding.overlay(methodBinding), SourceMethod
	}

	return binding, source
}

func (r *Registry) checkWritable(binding Binding) error {
	if r.sealed {
		return ErrRegistrySealed
	}

	if binding.IsZero() {
		return ErrEmptyBinding
	}

	return nil
}
