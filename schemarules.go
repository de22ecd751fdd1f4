// Package schemarules derives OpenAPI schema constraints from validation
// metadata registered against Go model types. It exposes the engine, rule
// catalog, and validator registry under a single import path together with
// document-level helpers for annotating a full openapi3.T.
package schemarules

import (
	"reflect"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-schemarules/pkg/bindings"
	"github.com/goliatone/go-schemarules/pkg/engine"
	"github.com/goliatone/go-schemarules/pkg/rules"
	"github.com/goliatone/go-schemarules/pkg/validate"
)

// Engine applies the rule catalog to schema documents.
type Engine = engine.Engine

// Option customises engine construction.
type Option = engine.Option

// Rule pairs a constraint predicate with a schema mutation.
type Rule = rules.Rule

// Catalog is the ordered, name-unique rule set in effect for a pass.
type Catalog = rules.Catalog

// Context is the per-application bundle handed to a rule's Apply.
type Context = rules.Context

// Diagnostic records one event from a generation pass.
type Diagnostic = rules.Diagnostic

// Diagnostics accumulates the events of a single pass.
type Diagnostics = rules.Diagnostics

// Validator is the read-only handle to a model's validation metadata.
type Validator = validate.Validator

// RuleSet is the built-in Validator implementation.
type RuleSet = validate.RuleSet

// Registry maps model types to validators.
type Registry = validate.Registry

// Constraint is the typed payload of a field rule.
type Constraint = validate.Constraint

// FieldRule binds a constraint to a named model field.
type FieldRule = validate.FieldRule

// New constructs an engine; see engine.New for the defaults applied.
func New(options ...Option) *Engine {
	return engine.New(options...)
}

// NewRegistry returns an empty validator registry.
func NewRegistry() *Registry {
	return validate.NewRegistry()
}

// NewRuleSet returns an empty rule set ready for declarations.
func NewRuleSet() *RuleSet {
	return validate.NewRuleSet()
}

// DefaultCatalog returns the built-in rule catalog.
func DefaultCatalog() Catalog {
	return rules.Default()
}

// Re-exported engine options.
var (
	WithRegistry       = engine.WithRegistry
	WithCatalog        = engine.WithCatalog
	WithRules          = engine.WithRules
	WithSchemaProvider = engine.WithSchemaProvider
	WithLogger         = engine.WithLogger
	WithNamer          = engine.WithNamer
)

// AnnotateComponents applies the engine to every component schema in doc
// that has an entry in models, which maps component names to model values.
// Components without a mapping are left untouched.
func AnnotateComponents(doc *openapi3.T, eng *Engine, models map[string]any) Diagnostics {
	var diags Diagnostics
	if doc == nil || eng == nil || doc.Components == nil {
		return diags
	}
	for _, name := range sortedKeys(models) {
		ref, ok := doc.Components.Schemas[name]
		if !ok || ref == nil || ref.Value == nil {
			continue
		}
		model := models[name]
		if model == nil {
			continue
		}
		diags = append(diags, eng.Apply(ref.Value, reflect.TypeOf(model))...)
	}
	return diags
}

// AnnotateOperations applies the parameter adapter to every parameter of
// every operation that has an entry in models, which maps operation ids to
// model values. Each parameter name is treated as the model field name.
func AnnotateOperations(doc *openapi3.T, eng *Engine, models map[string]any) Diagnostics {
	var diags Diagnostics
	if doc == nil || eng == nil || doc.Paths == nil {
		return diags
	}
	paths := doc.Paths.Map()
	for _, path := range sortedKeys(paths) {
		item := paths[path]
		if item == nil {
			continue
		}
		operations := item.Operations()
		for _, method := range sortedKeys(operations) {
			op := operations[method]
			if op == nil {
				continue
			}
			model, ok := models[op.OperationID]
			if !ok || model == nil {
				continue
			}
			for _, ref := range op.Parameters {
				if ref == nil || ref.Value == nil {
					continue
				}
				diags = append(diags, eng.ApplyToParameter(ref.Value, reflect.TypeOf(model), ref.Value.Name)...)
			}
		}
	}
	return diags
}

// AnnotateDocument combines AnnotateComponents and AnnotateOperations using
// a bindings store: components and operations are resolved to model names,
// which models maps to actual model values.
func AnnotateDocument(doc *openapi3.T, eng *Engine, store *bindings.Store, models map[string]any) Diagnostics {
	var diags Diagnostics
	if doc == nil || eng == nil || store.Empty() {
		return diags
	}

	components := make(map[string]any)
	for component, modelName := range store.Components() {
		if model, ok := models[modelName]; ok {
			components[component] = model
		}
	}
	diags = append(diags, AnnotateComponents(doc, eng, components)...)

	operations := make(map[string]any)
	for operation, modelName := range store.Operations() {
		if model, ok := models[modelName]; ok {
			operations[operation] = model
		}
	}
	diags = append(diags, AnnotateOperations(doc, eng, operations)...)
	return diags
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
