package validate

// Validator is the read-only handle to a model's validation metadata.
// Implementations are expected to be comparable (pointer shaped) so the
// engine can track visited validators while traversing includes.
type Validator interface {
	// FieldRules returns the field level constraints in declaration order.
	FieldRules() []FieldRule

	// Includes returns the compositions attached to this validator.
	Includes() []Include
}

// Resolver defers resolution of an included validator until the moment the
// include is traversed. It replaces reflective accessor lookups: adapters
// that cannot produce a validator simply report false.
type Resolver interface {
	ResolveValidator() (Validator, bool)
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func() (Validator, bool)

func (f ResolverFunc) ResolveValidator() (Validator, bool) { return f() }

// Include represents one "merge another validator's rules" composition.
// Conditional includes carry a runtime predicate that cannot be evaluated
// without instance data, so schema generation skips them entirely.
type Include struct {
	target      Validator
	resolver    Resolver
	conditional bool
}

// Conditional reports whether the include is guarded by a runtime condition.
func (i Include) Conditional() bool { return i.conditional }

// Validator resolves the include target. The second return is false when the
// target was registered through a resolver that cannot produce a validator.
func (i Include) Validator() (Validator, bool) {
	if i.target != nil {
		return i.target, true
	}
	if i.resolver == nil {
		return nil, false
	}
	v, ok := i.resolver.ResolveValidator()
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// RuleSet is the built-in Validator implementation. Field constraints are
// declared through the fluent For(...) builder and compositions through the
// Include helpers.
type RuleSet struct {
	rules    []FieldRule
	includes []Include
}

// NewRuleSet returns an empty rule set ready for declarations.
func NewRuleSet() *RuleSet {
	return &RuleSet{}
}

var _ Validator = (*RuleSet)(nil)

// FieldRules returns a copy of the declared field constraints.
func (rs *RuleSet) FieldRules() []FieldRule {
	if rs == nil || len(rs.rules) == 0 {
		return nil
	}
	return append([]FieldRule(nil), rs.rules...)
}

// Includes returns a copy of the declared compositions.
func (rs *RuleSet) Includes() []Include {
	if rs == nil || len(rs.includes) == 0 {
		return nil
	}
	return append([]Include(nil), rs.includes...)
}

// Add appends a raw field rule. Most callers use For instead.
func (rs *RuleSet) Add(field string, c Constraint) *RuleSet {
	if field == "" || c == nil {
		return rs
	}
	rs.rules = append(rs.rules, FieldRule{Field: field, Constraint: c})
	return rs
}

// Include merges another validator's rules into this one unconditionally.
// Included fields are treated as belonging to the same schema.
func (rs *RuleSet) Include(v Validator) *RuleSet {
	if v == nil {
		return rs
	}
	rs.includes = append(rs.includes, Include{target: v})
	return rs
}

// IncludeWhen merges another validator's rules only when the condition holds
// for a live instance. Schema generation has no instance, so conditional
// includes never contribute constraints to a schema.
func (rs *RuleSet) IncludeWhen(v Validator, condition func(instance any) bool) *RuleSet {
	if v == nil {
		return rs
	}
	rs.includes = append(rs.includes, Include{target: v, conditional: condition != nil})
	return rs
}

// IncludeResolver merges a validator that is only known at traversal time,
// for example one registered after this rule set was built.
func (rs *RuleSet) IncludeResolver(r Resolver) *RuleSet {
	if r == nil {
		return rs
	}
	rs.includes = append(rs.includes, Include{resolver: r})
	return rs
}

// For starts a builder scoped to a single field name.
func (rs *RuleSet) For(field string) *FieldBuilder {
	return &FieldBuilder{rs: rs, field: field}
}

// FieldBuilder accumulates constraints for one field. Every method returns
// the builder so declarations chain.
type FieldBuilder struct {
	rs    *RuleSet
	field string
}

// Done returns the owning rule set for further declarations.
func (b *FieldBuilder) Done() *RuleSet { return b.rs }

// Rule attaches an arbitrary constraint to the field.
func (b *FieldBuilder) Rule(c Constraint) *FieldBuilder {
	b.rs.Add(b.field, c)
	return b
}

// NotEmpty requires the field to carry a non-zero value.
func (b *FieldBuilder) NotEmpty() *FieldBuilder { return b.Rule(NotEmpty{}) }

// NotNil requires the field to be present.
func (b *FieldBuilder) NotNil() *FieldBuilder { return b.Rule(NotNil{}) }

// Nil marks the field as nullable.
func (b *FieldBuilder) Nil() *FieldBuilder { return b.Rule(Nil{}) }

// Length bounds the string length of the field.
func (b *FieldBuilder) Length(min, max int) *FieldBuilder {
	return b.Rule(Length{Min: min, Max: max})
}

// MinLength sets a lower string length bound.
func (b *FieldBuilder) MinLength(min int) *FieldBuilder { return b.Rule(Length{Min: min}) }

// MaxLength sets an upper string length bound.
func (b *FieldBuilder) MaxLength(max int) *FieldBuilder { return b.Rule(Length{Max: max}) }

// Between bounds a numeric field inclusively on both ends.
func (b *FieldBuilder) Between(min, max float64) *FieldBuilder {
	return b.Rule(Range{Min: &min, Max: &max})
}

// GreaterThan sets an exclusive lower numeric bound.
func (b *FieldBuilder) GreaterThan(min float64) *FieldBuilder {
	return b.Rule(Range{Min: &min, ExclusiveMin: true})
}

// AtLeast sets an inclusive lower numeric bound.
func (b *FieldBuilder) AtLeast(min float64) *FieldBuilder {
	return b.Rule(Range{Min: &min})
}

// LessThan sets an exclusive upper numeric bound.
func (b *FieldBuilder) LessThan(max float64) *FieldBuilder {
	return b.Rule(Range{Max: &max, ExclusiveMax: true})
}

// AtMost sets an inclusive upper numeric bound.
func (b *FieldBuilder) AtMost(max float64) *FieldBuilder {
	return b.Rule(Range{Max: &max})
}

// Matches requires the field to match the given regular expression.
func (b *FieldBuilder) Matches(expr string) *FieldBuilder { return b.Rule(Pattern{Expr: expr}) }

// OneOf restricts the field to the given values.
func (b *FieldBuilder) OneOf(values ...any) *FieldBuilder {
	return b.Rule(OneOf{Values: append([]any(nil), values...)})
}

// Format tags the field with a named string format.
func (b *FieldBuilder) Format(name string) *FieldBuilder { return b.Rule(Format{Name: name}) }

// For switches the builder to another field of the same rule set.
func (b *FieldBuilder) For(field string) *FieldBuilder { return b.rs.For(field) }
