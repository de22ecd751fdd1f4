package rules

import "fmt"

// Severity grades a diagnostic. The engine never fails a pass outright;
// everything that goes wrong degrades to a warning entry.
type Severity string

const (
	SeverityDebug Severity = "debug"
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
)

// Diagnostic records one noteworthy event from a generation pass: a failed
// rule application, an unresolvable include, or a model without a validator.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Rule     string   `json:"rule,omitempty"`
	Field    string   `json:"field,omitempty"`
	Model    string   `json:"model,omitempty"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	msg := fmt.Sprintf("[%s] %s", d.Severity, d.Message)
	if d.Model != "" {
		msg += " model=" + d.Model
	}
	if d.Field != "" {
		msg += " field=" + d.Field
	}
	if d.Rule != "" {
		msg += " rule=" + d.Rule
	}
	return msg
}

// Diagnostics accumulates the events of a single Apply call in occurrence
// order. Partial schema mutations made before a failure remain committed.
type Diagnostics []Diagnostic

// Warnings returns only the warn-level entries.
func (d Diagnostics) Warnings() Diagnostics {
	var out Diagnostics
	for _, diag := range d {
		if diag.Severity == SeverityWarn {
			out = append(out, diag)
		}
	}
	return out
}

// ForField returns the entries recorded against the named field.
func (d Diagnostics) ForField(field string) Diagnostics {
	var out Diagnostics
	for _, diag := range d {
		if diag.Field == field {
			out = append(out, diag)
		}
	}
	return out
}

// HasWarnings reports whether any warn-level entry was recorded.
func (d Diagnostics) HasWarnings() bool {
	for _, diag := range d {
		if diag.Severity == SeverityWarn {
			return true
		}
	}
	return false
}
