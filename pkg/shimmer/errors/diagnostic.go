package errors

import (
	"fmt"
	"strings"
)

// Severity distinguishes fatal diagnostics from advisory ones.
type Severity string

const (
	SeverityError   Severity = "error"   // Fatal to a message's ok status
	SeverityWarning Severity = "warning" // Informative only
)

// Code is a stable, machine-readable diagnostic identifier. Codes appear
// verbatim in reports and must not change.
type Code string

// Structural errors.
const (
	CodeMissingArrow    Code = "missing_arrow_separator"
	CodeBadRouting      Code = "bad_routing_prefix"
	CodeBadAction       Code = "bad_action_code"
	CodeBadTemporal     Code = "bad_temporal_number"
	CodeBracketsMissing Code = "vector_brackets_missing"
	CodeVectorParse     Code = "vector_parse_error"
	CodeVectorArity     Code = "vector_arity_not_4_or_5"
	CodeOutOfRange      Code = "vector_out_of_range"
)

// Quantization warnings.
const (
	CodeAxisPrecision       Code = "vector_axis_more_than_1dp"
	CodeConfidencePrecision Code = "confidence_more_than_2dp"
)

var warningCodes = map[Code]bool{
	CodeAxisPrecision:       true,
	CodeConfidencePrecision: true,
}

// Severity returns the severity implied by the code.
func (c Code) Severity() Severity {
	if warningCodes[c] {
		return SeverityWarning
	}
	return SeverityError
}

// String implements fmt.Stringer.
func (c Code) String() string {
	return string(c)
}

// Diagnostic is one problem found in a line.
type Diagnostic struct {
	Code       Code     `json:"code"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Fragment   string   `json:"fragment,omitempty"`   // Offending text, if any
	Suggestion string   `json:"suggestion,omitempty"` // Suggested fix (optional)
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s: %s", d.Severity, d.Code, d.Message))
	if d.Fragment != "" {
		sb.WriteString(fmt.Sprintf("\n  --> %q", d.Fragment))
	}
	if d.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("\n  = suggestion: %s", d.Suggestion))
	}

	return sb.String()
}

// List accumulates diagnostics so that one pass can report every problem
// with a line instead of stopping at the first.
type List struct {
	Diagnostics []*Diagnostic
}

// NewList creates an empty list.
func NewList() *List {
	return &List{
		Diagnostics: make([]*Diagnostic, 0),
	}
}

// Add appends a diagnostic.
func (l *List) Add(d *Diagnostic) {
	l.Diagnostics = append(l.Diagnostics, d)
}

// AddCode creates and adds a diagnostic whose severity follows its code.
func (l *List) AddCode(code Code, message, fragment string) {
	l.Add(&Diagnostic{
		Code:     code,
		Severity: code.Severity(),
		Message:  message,
		Fragment: fragment,
	})
}

// AddCodeWithSuggestion creates and adds a diagnostic with a suggestion.
func (l *List) AddCodeWithSuggestion(code Code, message, fragment, suggestion string) {
	l.Add(&Diagnostic{
		Code:       code,
		Severity:   code.Severity(),
		Message:    message,
		Fragment:   fragment,
		Suggestion: suggestion,
	})
}

// Merge appends all diagnostics of other.
func (l *List) Merge(other *List) {
	if other == nil {
		return
	}
	l.Diagnostics = append(l.Diagnostics, other.Diagnostics...)
}

// HasErrors reports whether any diagnostic has error severity.
func (l *List) HasErrors() bool {
	for _, d := range l.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics of every severity.
func (l *List) Count() int {
	return len(l.Diagnostics)
}

// Codes returns the codes of the given severity in insertion order.
// The result is never nil.
func (l *List) Codes(severity Severity) []string {
	out := make([]string, 0, len(l.Diagnostics))
	for _, d := range l.Diagnostics {
		if d.Severity == severity {
			out = append(out, string(d.Code))
		}
	}
	return out
}

// ErrorCodes is Codes(SeverityError).
func (l *List) ErrorCodes() []string {
	return l.Codes(SeverityError)
}

// WarningCodes is Codes(SeverityWarning).
func (l *List) WarningCodes() []string {
	return l.Codes(SeverityWarning)
}

// ByCode returns every diagnostic with the given code.
func (l *List) ByCode(code Code) []*Diagnostic {
	var result []*Diagnostic
	for _, d := range l.Diagnostics {
		if d.Code == code {
			result = append(result, d)
		}
	}
	return result
}

// HasCode reports whether the list contains the given code.
func (l *List) HasCode(code Code) bool {
	for _, d := range l.Diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}

// Error implements the error interface.
func (l *List) Error() string {
	if l.Count() == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("found %d diagnostic(s):\n", l.Count()))
	for _, d := range l.Diagnostics {
		sb.WriteString(d.Error())
		sb.WriteString("\n")
	}

	return sb.String()
}

// ToError returns nil when there are no error-severity diagnostics,
// otherwise the list itself.
func (l *List) ToError() error {
	if !l.HasErrors() {
		return nil
	}
	return l
}
