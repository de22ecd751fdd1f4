package rules

import (
	"strings"
	"unicode"
)

// Options control the generation conventions shared by the engine and the
// catalog rules.
type Options struct {
	// Namer converts a Go field name into the schema property name used by
	// the document producer. Defaults to lowerCamelCase.
	Namer func(string) string
}

// PropertyName applies the configured naming convention to a field name.
func (o Options) PropertyName(field string) string {
	if o.Namer != nil {
		return o.Namer(field)
	}
	return LowerCamel(field)
}

// LowerCamel converts an exported Go field name into the lowerCamelCase
// property convention most schema producers emit. Leading initialisms are
// lowered as a block, so "ID" becomes "id" and "URLPath" becomes "urlPath".
func LowerCamel(name string) string {
	if name == "" {
		return ""
	}
	runes := []rune(name)
	upper := 0
	for upper < len(runes) && unicode.IsUpper(runes[upper]) {
		upper++
	}
	switch {
	case upper == 0:
		return name
	case upper == len(runes):
		return strings.ToLower(name)
	case upper == 1:
		return string(unicode.ToLower(runes[0])) + string(runes[1:])
	default:
		// Keep the last upper rune as the start of the next word.
		return strings.ToLower(string(runes[:upper-1])) + string(runes[upper-1:])
	}
}
