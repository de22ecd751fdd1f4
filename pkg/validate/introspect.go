package validate

import "strings"

// FieldRulesFor returns the constraints attached directly to the named
// field. A field without constraints yields an empty result; a missing
// field is never an error. Matching is case-insensitive unless disabled,
// which lets schema property names like "userName" find rules declared
// against the Go field "UserName".
func FieldRulesFor(v Validator, field string, caseInsensitive bool) []FieldRule {
	if v == nil || field == "" {
		return nil
	}
	var matched []FieldRule
	for _, fr := range v.FieldRules() {
		if fr.Constraint == nil {
			continue
		}
		if fieldNameMatches(fr.Field, field, caseInsensitive) {
			matched = append(matched, fr)
		}
	}
	return matched
}

// IncludedValidators resolves the unconditional include compositions of v.
// Conditional includes are dropped: their predicates need a live instance
// that does not exist at schema generation time. The second return counts
// includes whose target could not be resolved; callers surface those as
// warnings rather than failures.
func IncludedValidators(v Validator) ([]Validator, int) {
	if v == nil {
		return nil, 0
	}
	var (
		resolved   []Validator
		unresolved int
	)
	for _, inc := range v.Includes() {
		if inc.Conditional() {
			continue
		}
		target, ok := inc.Validator()
		if !ok {
			unresolved++
			continue
		}
		resolved = append(resolved, target)
	}
	return resolved, unresolved
}

func fieldNameMatches(declared, requested string, caseInsensitive bool) bool {
	if caseInsensitive {
		return strings.EqualFold(declared, requested)
	}
	return declared == requested
}
