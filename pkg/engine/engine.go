package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-schemarules/pkg/rules"
	"github.com/goliatone/go-schemarules/pkg/validate"
)

// Option customises the engine configuration.
type Option func(*Engine)

// WithRegistry injects the validator registry consulted per model type.
func WithRegistry(registry *validate.Registry) Option {
	return func(e *Engine) {
		e.registry = registry
		e.registrySpecified = true
	}
}

// WithCatalog replaces the rule catalog wholesale.
func WithCatalog(catalog rules.Catalog) Option {
	return func(e *Engine) {
		e.catalog = catalog
	}
}

// WithRules overrides the default catalog by name: same-named rules replace
// built-ins, new names are appended in the given order.
func WithRules(extra ...rules.Rule) Option {
	return func(e *Engine) {
		e.overrides = append(e.overrides, extra...)
	}
}

// WithSchemaProvider injects the collaborator that materialises a schema
// for a model type on demand. Used by the parameter adapter.
func WithSchemaProvider(provider SchemaProvider) Option {
	return func(e *Engine) {
		e.schemas = provider
	}
}

// WithLogger injects a structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithNamer overrides the property naming convention used when reconciling
// Go field names with schema property keys.
func WithNamer(namer func(string) string) Option {
	return func(e *Engine) {
		e.options.Namer = namer
	}
}

// Engine applies a rule catalog to schema documents. It is safe to share
// across goroutines as long as concurrent calls mutate distinct schemas.
type Engine struct {
	registry          *validate.Registry
	registrySpecified bool
	catalog           rules.Catalog
	overrides         []rules.Rule
	schemas           SchemaProvider
	logger            *slog.Logger
	options           rules.Options
}

// New constructs an Engine, filling unset collaborators with built-ins: the
// default catalog, an empty registry, the reflection schema provider, and
// the process-wide slog logger.
func New(options ...Option) *Engine {
	e := &Engine{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	if e.registry == nil && !e.registrySpecified {
		e.registry = validate.NewRegistry()
	}
	if e.catalog == nil {
		e.catalog = rules.Default()
	}
	if len(e.overrides) > 0 {
		e.catalog = e.catalog.Override(e.overrides...)
	}
	if e.schemas == nil {
		e.schemas = NewReflector()
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Catalog returns the catalog in effect after overrides.
func (e *Engine) Catalog() rules.Catalog {
	return append(rules.Catalog(nil), e.catalog...)
}

// Registry returns the validator registry in use. May be nil when the
// caller explicitly configured no registry.
func (e *Engine) Registry() *validate.Registry {
	return e.registry
}

// Apply annotates the schema with every constraint registered for the model
// type, including constraints reachable through include composition. The
// returned diagnostics describe what was skipped or failed; the schema keeps
// every mutation that succeeded.
func (e *Engine) Apply(schema *openapi3.Schema, model reflect.Type) rules.Diagnostics {
	var diags rules.Diagnostics
	if schema == nil || model == nil {
		return diags
	}
	if e.registry == nil {
		e.logger.Warn("schemarules: no validator registry configured")
		return append(diags, rules.Diagnostic{
			Severity: rules.SeverityWarn,
			Model:    model.String(),
			Message:  "no validator registry configured",
		})
	}
	validator, ok := e.registry.Lookup(model)
	if !ok {
		e.logger.Warn("schemarules: no validator registered for model", "model", model.String())
		return append(diags, rules.Diagnostic{
			Severity: rules.SeverityWarn,
			Model:    model.String(),
			Message:  "no validator registered for model",
		})
	}

	logOnce := sync.OnceFunc(func() {
		e.logger.Debug("schemarules: applying validation rules", "model", model.String())
	})
	visited := make(map[validate.Validator]struct{})
	e.walk(schema, model, validator, "", visited, &diags, logOnce)
	return diags
}

// ApplyFor is a convenience wrapper around Apply using the model value's
// reflect type.
func (e *Engine) ApplyFor(schema *openapi3.Schema, model any) rules.Diagnostics {
	if model == nil {
		return nil
	}
	return e.Apply(schema, reflect.TypeOf(model))
}

// walk runs the match/apply cycle for every property of schema, then
// recurses into included validators against the same schema. When only is
// non-empty the pass is restricted to that single property key. The visited
// set guarantees termination for cyclic includes.
func (e *Engine) walk(schema *openapi3.Schema, model reflect.Type, validator validate.Validator, only string, visited map[validate.Validator]struct{}, diags *rules.Diagnostics, logOnce func()) {
	if validator == nil {
		return
	}
	if _, seen := visited[validator]; seen {
		return
	}
	visited[validator] = struct{}{}

	for _, property := range propertyNames(schema, only) {
		ref := schema.Properties[property]
		if ref == nil || ref.Value == nil {
			continue
		}
		for _, fieldRule := range validate.FieldRulesFor(validator, property, true) {
			e.applyCatalog(schema, ref.Value, model, property, fieldRule, diags, logOnce)
		}
	}

	included, unresolved := validate.IncludedValidators(validator)
	if unresolved > 0 {
		e.logger.Warn("schemarules: skipped unresolvable included validators",
			"model", model.String(), "count", unresolved)
		*diags = append(*diags, rules.Diagnostic{
			Severity: rules.SeverityWarn,
			Model:    model.String(),
			Message:  fmt.Sprintf("skipped %d unresolvable included validators", unresolved),
		})
	}
	for _, inc := range included {
		e.walk(schema, model, inc, only, visited, diags, logOnce)
	}
}

// applyCatalog applies every matching catalog rule to one field constraint.
// Rules fire in catalog order and failures are isolated per (rule, field).
func (e *Engine) applyCatalog(parent, field *openapi3.Schema, model reflect.Type, property string, fieldRule validate.FieldRule, diags *rules.Diagnostics, logOnce func()) {
	for _, rule := range e.catalog {
		if rule.Matches == nil || !rule.Matches(fieldRule) {
			continue
		}
		logOnce()
		ctx := &rules.Context{
			Schema:  field,
			Parent:  parent,
			Model:   model,
			Field:   property,
			Rule:    fieldRule,
			Options: e.options,
		}
		if err := applyRule(rule, ctx); err != nil {
			e.logger.Warn("schemarules: rule application failed",
				"rule", rule.Name, "field", property, "constraint", fieldRule.Constraint.Describe(),
				"model", model.String(), "error", err)
			*diags = append(*diags, rules.Diagnostic{
				Severity: rules.SeverityWarn,
				Rule:     rule.Name,
				Field:    property,
				Model:    model.String(),
				Message:  err.Error(),
			})
		}
	}
}

// applyRule invokes the rule's mutation, converting panics into errors so a
// misbehaving rule cannot abort the pass.
func applyRule(rule rules.Rule, ctx *rules.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rule %q panicked: %v", rule.Name, r)
		}
	}()
	if rule.Apply == nil {
		return errors.New("rule has no apply func")
	}
	return rule.Apply(ctx)
}

// propertyNames returns the schema's property keys in a stable order. When
// only is set, it returns just that key if present.
func propertyNames(schema *openapi3.Schema, only string) []string {
	if schema == nil || len(schema.Properties) == 0 {
		return nil
	}
	if only != "" {
		if _, ok := schema.Properties[only]; ok {
			return []string{only}
		}
		return nil
	}
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
