package engine

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-schemarules/pkg/rules"
	"github.com/goliatone/go-schemarules/pkg/validate"
)

// ApplyToParameter annotates a single operation parameter with the
// constraints registered for one model field. It materialises a schema for
// the model through the schema provider, runs the match/apply cycle for just
// that field, and projects the resulting attributes onto the parameter's own
// schema fragment. Nothing is written to the parameter until the whole pass
// succeeds, so a failure leaves it untouched.
func (e *Engine) ApplyToParameter(param *openapi3.Parameter, model reflect.Type, field string) (diags rules.Diagnostics) {
	defer func() {
		if r := recover(); r != nil {
			name := ""
			if param != nil {
				name = param.Name
			}
			e.logger.Warn("schemarules: parameter annotation failed",
				"parameter", name, "field", field, "error", fmt.Sprint(r))
			diags = append(diags, rules.Diagnostic{
				Severity: rules.SeverityWarn,
				Field:    field,
				Message:  fmt.Sprintf("parameter annotation failed: %v", r),
			})
		}
	}()

	if param == nil || model == nil || field == "" {
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

	schema, err := e.schemas.SchemaForType(model)
	if err != nil {
		e.logger.Warn("schemarules: schema provider failed",
			"model", model.String(), "error", err)
		return append(diags, rules.Diagnostic{
			Severity: rules.SeverityWarn,
			Model:    model.String(),
			Field:    field,
			Message:  err.Error(),
		})
	}

	property, ok := reconcileProperty(schema, field, e.options)
	if !ok {
		return append(diags, rules.Diagnostic{
			Severity: rules.SeverityInfo,
			Model:    model.String(),
			Field:    field,
			Message:  "model schema has no matching property",
		})
	}

	logOnce := sync.OnceFunc(func() {
		e.logger.Debug("schemarules: applying validation rules", "model", model.String(), "field", property)
	})
	visited := make(map[validate.Validator]struct{})
	e.walk(schema, model, validator, property, visited, &diags, logOnce)

	projectParameter(param, schema, property)
	return diags
}

// reconcileProperty locates the schema property key for a field name,
// trying the name as given, the configured naming convention, and finally a
// case-insensitive scan.
func reconcileProperty(schema *openapi3.Schema, field string, opts rules.Options) (string, bool) {
	if schema == nil || len(schema.Properties) == 0 {
		return "", false
	}
	if _, ok := schema.Properties[field]; ok {
		return field, true
	}
	if converted := opts.PropertyName(field); converted != field {
		if _, ok := schema.Properties[converted]; ok {
			return converted, true
		}
	}
	for name := range schema.Properties {
		if strings.EqualFold(name, field) {
			return name, true
		}
	}
	return "", false
}

// projectParameter copies the constraint subset from the annotated field
// schema onto the parameter, and derives required-ness from the field's
// membership in the owning schema's required set.
func projectParameter(param *openapi3.Parameter, schema *openapi3.Schema, property string) {
	ref := schema.Properties[property]
	if ref == nil || ref.Value == nil {
		return
	}
	source := ref.Value

	if param.Schema == nil || param.Schema.Value == nil {
		param.Schema = openapi3.NewSchemaRef("", openapi3.NewSchema())
	}
	target := param.Schema.Value

	if source.MinLength != 0 {
		target.MinLength = source.MinLength
	}
	if source.MaxLength != nil {
		value := *source.MaxLength
		target.MaxLength = &value
	}
	if source.Pattern != "" {
		target.Pattern = source.Pattern
	}
	if source.Min != nil {
		value := *source.Min
		target.Min = &value
		target.ExclusiveMin = source.ExclusiveMin
	}
	if source.Max != nil {
		value := *source.Max
		target.Max = &value
		target.ExclusiveMax = source.ExclusiveMax
	}
	target.Nullable = source.Nullable
	if len(source.Enum) > 0 {
		target.Enum = append([]any(nil), source.Enum...)
	}
	if source.Format != "" {
		target.Format = source.Format
	}
	if len(source.AllOf) > 0 {
		target.AllOf = append(openapi3.SchemaRefs(nil), source.AllOf...)
	}

	for _, name := range schema.Required {
		if name == property {
			param.Required = true
			break
		}
	}
}
