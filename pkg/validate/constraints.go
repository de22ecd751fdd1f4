package validate

import (
	"fmt"
	"strings"
)

// Constraint is the typed payload of a FieldRule. Implementations carry
// enough metadata for a catalog rule to classify the constraint and derive
// schema attributes from it. Callers may introduce their own constraint
// types as long as a catalog rule knows how to match them.
type Constraint interface {
	// Describe returns a short human readable summary used in diagnostics.
	Describe() string
}

// FieldRule binds a single constraint to one named field of a model.
type FieldRule struct {
	Field      string
	Constraint Constraint
}

// NotEmpty requires a non-zero value: non-empty strings, non-nil pointers.
type NotEmpty struct{}

func (NotEmpty) Describe() string { return "not empty" }

// NotNil requires the value to be present without constraining its content.
type NotNil struct{}

func (NotNil) Describe() string { return "not nil" }

// Nil marks a field as explicitly optional and nullable.
type Nil struct{}

func (Nil) Describe() string { return "nullable" }

// Length bounds the character length of a string field. A zero Max means
// unbounded above; a zero Min means unbounded below.
type Length struct {
	Min int
	Max int
}

func (l Length) Describe() string {
	switch {
	case l.Min > 0 && l.Max > 0:
		return fmt.Sprintf("length between %d and %d", l.Min, l.Max)
	case l.Max > 0:
		return fmt.Sprintf("length at most %d", l.Max)
	default:
		return fmt.Sprintf("length at least %d", l.Min)
	}
}

// Range bounds a numeric field. Nil endpoints are unbounded. The exclusivity
// flags mirror the JSON Schema exclusiveMinimum/exclusiveMaximum semantics.
type Range struct {
	Min          *float64
	Max          *float64
	ExclusiveMin bool
	ExclusiveMax bool
}

func (r Range) Describe() string {
	parts := make([]string, 0, 2)
	if r.Min != nil {
		op := ">="
		if r.ExclusiveMin {
			op = ">"
		}
		parts = append(parts, fmt.Sprintf("%s %v", op, *r.Min))
	}
	if r.Max != nil {
		op := "<="
		if r.ExclusiveMax {
			op = "<"
		}
		parts = append(parts, fmt.Sprintf("%s %v", op, *r.Max))
	}
	if len(parts) == 0 {
		return "unbounded range"
	}
	return strings.Join(parts, " and ")
}

// Pattern requires a string field to match a regular expression.
type Pattern struct {
	Expr string
}

func (p Pattern) Describe() string { return "matches " + p.Expr }

// OneOf restricts a field to a fixed set of allowed values.
type OneOf struct {
	Values []any
}

func (o OneOf) Describe() string { return fmt.Sprintf("one of %d values", len(o.Values)) }

// Format tags a string field with a named format such as "email" or "uuid".
type Format struct {
	Name string
}

func (f Format) Describe() string { return "format " + f.Name }
