package engine

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
)

// SchemaProvider materialises a field-owning schema for a model type. The
// parameter adapter uses it to obtain the schema whose single field is then
// annotated and projected onto an operation parameter.
type SchemaProvider interface {
	SchemaForType(t reflect.Type) (*openapi3.Schema, error)
}

// SchemaProviderFunc adapts a function to the SchemaProvider interface.
type SchemaProviderFunc func(t reflect.Type) (*openapi3.Schema, error)

func (f SchemaProviderFunc) SchemaForType(t reflect.Type) (*openapi3.Schema, error) {
	return f(t)
}

// Reflector is the default SchemaProvider. It derives schemas from struct
// reflection via openapi3gen and memoises the result per type, since the
// engine only ever mutates copies owned by a single call.
type Reflector struct {
	generator *openapi3gen.Generator

	mu    sync.Mutex
	cache map[reflect.Type]*openapi3.Schema
}

var _ SchemaProvider = (*Reflector)(nil)

// NewReflector constructs a Reflector that includes every exported struct
// field, honouring json tags for property names when present.
func NewReflector() *Reflector {
	return &Reflector{
		generator: openapi3gen.NewGenerator(openapi3gen.UseAllExportedFields()),
		cache:     make(map[reflect.Type]*openapi3.Schema),
	}
}

// SchemaForType returns a fresh copy of the generated schema so callers can
// mutate it freely.
func (r *Reflector) SchemaForType(t reflect.Type) (*openapi3.Schema, error) {
	if t == nil {
		return nil, fmt.Errorf("engine: schema requested for nil type")
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	r.mu.Lock()
	cached, ok := r.cache[t]
	r.mu.Unlock()
	if ok {
		return cloneSchema(cached), nil
	}

	ref, err := r.generator.NewSchemaRefForValue(reflect.New(t).Interface(), nil)
	if err != nil {
		return nil, fmt.Errorf("engine: generate schema for %s: %w", t, err)
	}
	if ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("engine: no schema generated for %s", t)
	}

	r.mu.Lock()
	r.cache[t] = ref.Value
	r.mu.Unlock()
	return cloneSchema(ref.Value), nil
}

// cloneSchema copies a schema and its property tree deeply enough that rule
// mutations on the copy never leak back into the memoised original.
func cloneSchema(src *openapi3.Schema) *openapi3.Schema {
	if src == nil {
		return nil
	}
	dst := *src
	dst.Required = append([]string(nil), src.Required...)
	dst.Enum = append([]any(nil), src.Enum...)
	if src.MaxLength != nil {
		value := *src.MaxLength
		dst.MaxLength = &value
	}
	if src.Min != nil {
		value := *src.Min
		dst.Min = &value
	}
	if src.Max != nil {
		value := *src.Max
		dst.Max = &value
	}
	if len(src.Properties) > 0 {
		dst.Properties = make(openapi3.Schemas, len(src.Properties))
		for name, ref := range src.Properties {
			if ref == nil || ref.Value == nil {
				dst.Properties[name] = ref
				continue
			}
			dst.Properties[name] = openapi3.NewSchemaRef(ref.Ref, cloneSchema(ref.Value))
		}
	}
	return &dst
}
