package rules

import (
	"reflect"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-schemarules/pkg/validate"
)

// Rule translates one kind of field constraint into schema attributes. The
// name is the rule's identity inside a catalog: overriding a catalog with a
// rule of the same name replaces it.
type Rule struct {
	// Name uniquely identifies the rule within a catalog.
	Name string

	// Matches reports whether the rule knows how to handle the constraint.
	Matches func(validate.FieldRule) bool

	// Apply mutates the schema described by the context. A returned error
	// is isolated per (rule, field) and never aborts the wider pass.
	Apply func(*Context) error
}

// Catalog is the ordered set of rules in effect for a generation pass.
// When several rules match the same constraint they all apply, in catalog
// order; later rules may overwrite attributes set by earlier ones.
type Catalog []Rule

// Override returns a new catalog where every rule in extra replaces a base
// rule sharing its name and is otherwise appended. Base order is preserved
// for unreplaced rules; appended rules keep extra's order.
func (c Catalog) Override(extra ...Rule) Catalog {
	if len(extra) == 0 {
		return append(Catalog(nil), c...)
	}

	replacements := make(map[string]Rule, len(extra))
	for _, rule := range extra {
		if rule.Name != "" {
			replacements[rule.Name] = rule
		}
	}

	merged := make(Catalog, 0, len(c)+len(extra))
	seen := make(map[string]bool, len(c)+len(extra))
	for _, rule := range c {
		if replacement, ok := replacements[rule.Name]; ok {
			rule = replacement
		}
		if rule.Name == "" || seen[rule.Name] {
			continue
		}
		seen[rule.Name] = true
		merged = append(merged, rule)
	}
	for _, rule := range extra {
		if rule.Name == "" || seen[rule.Name] {
			continue
		}
		seen[rule.Name] = true
		merged = append(merged, rule)
	}
	return merged
}

// Names returns the rule names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for _, rule := range c {
		names = append(names, rule.Name)
	}
	return names
}

// Context bundles everything a single rule application needs. A fresh
// context is built per (rule, constraint, field) and discarded afterwards.
type Context struct {
	// Schema is the field's own schema fragment.
	Schema *openapi3.Schema

	// Parent is the object schema owning the field; it carries the
	// required-set the field may be added to.
	Parent *openapi3.Schema

	// Model identifies the Go type the validator was registered for.
	Model reflect.Type

	// Field is the property name as stored in the parent schema.
	Field string

	// Rule is the matched field constraint.
	Rule validate.FieldRule

	// Options carries the generation conventions in effect.
	Options Options
}

// MarkRequired adds the context's field to the parent schema's required
// set, preserving existing entries and never duplicating.
func (ctx *Context) MarkRequired() {
	if ctx.Parent == nil || ctx.Field == "" {
		return
	}
	for _, name := range ctx.Parent.Required {
		if name == ctx.Field {
			return
		}
	}
	ctx.Parent.Required = append(ctx.Parent.Required, ctx.Field)
}
