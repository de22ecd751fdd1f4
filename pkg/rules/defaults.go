package rules

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-schemarules/pkg/validate"
)

// Names of the built-in rules, usable as Override targets.
const (
	RuleRequired = "required"
	RuleNotNil   = "not-nil"
	RuleNullable = "nullable"
	RuleLength   = "length"
	RuleRange    = "range"
	RulePattern  = "pattern"
	RuleOneOf    = "one-of"
	RuleFormat   = "format"
)

var errMissingSchema = errors.New("rules: field schema fragment is missing")

// Default returns the built-in catalog. Order is part of the contract:
// required, not-nil, nullable, length, range, pattern, one-of, format.
func Default() Catalog {
	return Catalog{
		{
			Name:    RuleRequired,
			Matches: matchConstraint[validate.NotEmpty],
			Apply:   applyRequired,
		},
		{
			Name:    RuleNotNil,
			Matches: matchConstraint[validate.NotNil],
			Apply:   applyNotNil,
		},
		{
			Name:    RuleNullable,
			Matches: matchConstraint[validate.Nil],
			Apply:   applyNullable,
		},
		{
			Name:    RuleLength,
			Matches: matchConstraint[validate.Length],
			Apply:   applyLength,
		},
		{
			Name:    RuleRange,
			Matches: matchConstraint[validate.Range],
			Apply:   applyRange,
		},
		{
			Name:    RulePattern,
			Matches: matchConstraint[validate.Pattern],
			Apply:   applyPattern,
		},
		{
			Name:    RuleOneOf,
			Matches: matchConstraint[validate.OneOf],
			Apply:   applyOneOf,
		},
		{
			Name:    RuleFormat,
			Matches: matchConstraint[validate.Format],
			Apply:   applyFormat,
		},
	}
}

func matchConstraint[T validate.Constraint](fr validate.FieldRule) bool {
	_, ok := fr.Constraint.(T)
	return ok
}

func applyRequired(ctx *Context) error {
	if ctx.Schema == nil {
		return errMissingSchema
	}
	ctx.MarkRequired()
	ctx.Schema.Nullable = false
	if schemaHasType(ctx.Schema, openapi3.TypeString) && ctx.Schema.MinLength == 0 {
		ctx.Schema.MinLength = 1
	}
	return nil
}

func applyNotNil(ctx *Context) error {
	if ctx.Schema == nil {
		return errMissingSchema
	}
	ctx.MarkRequired()
	ctx.Schema.Nullable = false
	return nil
}

func applyNullable(ctx *Context) error {
	if ctx.Schema == nil {
		return errMissingSchema
	}
	ctx.Schema.Nullable = true
	return nil
}

func applyLength(ctx *Context) error {
	if ctx.Schema == nil {
		return errMissingSchema
	}
	length, ok := ctx.Rule.Constraint.(validate.Length)
	if !ok {
		return constraintMismatch(ctx, "length")
	}
	if length.Min < 0 || (length.Max > 0 && length.Max < length.Min) {
		return fmt.Errorf("rules: invalid length bounds [%d, %d]", length.Min, length.Max)
	}
	if length.Min > 0 {
		ctx.Schema.MinLength = uint64(length.Min)
	}
	if length.Max > 0 {
		max := uint64(length.Max)
		ctx.Schema.MaxLength = &max
	}
	return nil
}

func applyRange(ctx *Context) error {
	if ctx.Schema == nil {
		return errMissingSchema
	}
	bounds, ok := ctx.Rule.Constraint.(validate.Range)
	if !ok {
		return constraintMismatch(ctx, "range")
	}
	if bounds.Min != nil {
		value := *bounds.Min
		ctx.Schema.Min = &value
		ctx.Schema.ExclusiveMin = bounds.ExclusiveMin
	}
	if bounds.Max != nil {
		value := *bounds.Max
		ctx.Schema.Max = &value
		ctx.Schema.ExclusiveMax = bounds.ExclusiveMax
	}
	return nil
}

func applyPattern(ctx *Context) error {
	if ctx.Schema == nil {
		return errMissingSchema
	}
	pattern, ok := ctx.Rule.Constraint.(validate.Pattern)
	if !ok {
		return constraintMismatch(ctx, "pattern")
	}
	if _, err := regexp.Compile(pattern.Expr); err != nil {
		return fmt.Errorf("rules: invalid pattern %q: %w", pattern.Expr, err)
	}
	ctx.Schema.Pattern = pattern.Expr
	return nil
}

func applyOneOf(ctx *Context) error {
	if ctx.Schema == nil {
		return errMissingSchema
	}
	oneOf, ok := ctx.Rule.Constraint.(validate.OneOf)
	if !ok {
		return constraintMismatch(ctx, "one-of")
	}
	if len(oneOf.Values) == 0 {
		return errors.New("rules: one-of constraint carries no values")
	}
	ctx.Schema.Enum = append([]any(nil), oneOf.Values...)
	return nil
}

func applyFormat(ctx *Context) error {
	if ctx.Schema == nil {
		return errMissingSchema
	}
	format, ok := ctx.Rule.Constraint.(validate.Format)
	if !ok {
		return constraintMismatch(ctx, "format")
	}
	if format.Name == "" {
		return errors.New("rules: format constraint carries no name")
	}
	ctx.Schema.Format = format.Name
	return nil
}

func constraintMismatch(ctx *Context, rule string) error {
	return fmt.Errorf("rules: %s rule matched constraint %T", rule, ctx.Rule.Constraint)
}

func schemaHasType(schema *openapi3.Schema, typ string) bool {
	if schema == nil || schema.Type == nil {
		return false
	}
	for _, candidate := range schema.Type.Slice() {
		if candidate == typ {
			return true
		}
	}
	return false
}
