package permission

import (
	"errors"
	"sync"
)

// Registry maps function selectors to their schemas. Lookups are pure; the
// only mutations are Register and Unregister, which the engine exposes solely
// through the governed registration workflow.
//
//	Docs: docs/permission.md
type Registry struct {
	mu      sync.RWMutex
	schemas map[Selector]*FunctionSchema
}

// NewRegistry creates an empty function schema [Registry].
func NewRegistry() *Registry {
	return &Registry{
		schemas: make(map[Selector]*FunctionSchema),
	}
}

// Register stores a schema for its selector. Re-registering a protected
// selector fails with [ErrDuplicateSchema]; an unprotected schema is replaced.
func (r *Registry) Register(schema FunctionSchema) error {
	if schema.Selector.IsZero() {
		return errors.New("schema selector cannot be zero")
	}
	if schema.Name == "" {
		return errors.New("schema name cannot be empty")
	}
	if schema.Supported == 0 {
		return errors.New("schema must support at least one action")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.schemas[schema.Selector]; ok && existing.Protected {
		return ErrDuplicateSchema
	}

	r.schemas[schema.Selector] = schema.clone()
	return nil
}

// Unregister removes the schema for selector. Protected schemas fail with
// [ErrProtectedSchema]; absent ones with [ErrUnknownSchema].
func (r *Registry) Unregister(selector Selector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	schema, ok := r.schemas[selector]
	if !ok {
		return ErrUnknownSchema
	}
	if schema.Protected {
		return ErrProtectedSchema
	}

	delete(r.schemas, selector)
	return nil
}

// Schema returns a copy of the schema registered for selector.
func (r *Registry) Schema(selector Selector) (FunctionSchema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, ok := r.schemas[selector]
	if !ok {
		return FunctionSchema{}, false
	}
	return *schema.clone(), true
}

// Supported returns the supported action mask for selector.
func (r *Registry) Supported(selector Selector) (Mask16, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, ok := r.schemas[selector]
	if !ok {
		return 0, false
	}
	return schema.Supported, true
}

// Count returns the number of registered schemas.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.schemas)
}
