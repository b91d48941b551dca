package errors

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCodeSeverity(t *testing.T) {
	tests := []struct {
		code Code
		want Severity
	}{
		{CodeMissingArrow, SeverityError},
		{CodeBadRouting, SeverityError},
		{CodeBadAction, SeverityError},
		{CodeBadTemporal, SeverityError},
		{CodeBracketsMissing, SeverityError},
		{CodeVectorParse, SeverityError},
		{CodeVectorArity, SeverityError},
		{CodeOutOfRange, SeverityError},
		{CodeAxisPrecision, SeverityWarning},
		{CodeConfidencePrecision, SeverityWarning},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := tt.code.Severity(); got != tt.want {
				t.Errorf("Severity() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestListSeparatesSeverities(t *testing.T) {
	l := NewList()
	l.AddCode(CodeAxisPrecision, "axis 0 written with 2 decimals", "0.55")
	l.AddCode(CodeOutOfRange, "axis 0 is 1.5", "1.5")
	l.AddCode(CodeAxisPrecision, "axis 1 written with 2 decimals", "0.25")

	if !l.HasErrors() {
		t.Error("HasErrors() = false, want true")
	}
	if l.Count() != 3 {
		t.Errorf("Count() = %d, want 3", l.Count())
	}
	if diff := cmp.Diff([]string{"vector_out_of_range"}, l.ErrorCodes()); diff != "" {
		t.Errorf("ErrorCodes mismatch (-want +got):\n%s", diff)
	}
	want := []string{"vector_axis_more_than_1dp", "vector_axis_more_than_1dp"}
	if diff := cmp.Diff(want, l.WarningCodes()); diff != "" {
		t.Errorf("WarningCodes mismatch (-want +got):\n%s", diff)
	}
	if got := len(l.ByCode(CodeAxisPrecision)); got != 2 {
		t.Errorf("ByCode() returned %d, want 2", got)
	}
}

func TestListWarningsOnlyIsNotAnError(t *testing.T) {
	l := NewList()
	l.AddCode(CodeConfidencePrecision, "confidence written with 3 decimals", "0.955")

	if l.HasErrors() {
		t.Error("warnings must not count as errors")
	}
	if err := l.ToError(); err != nil {
		t.Errorf("ToError() = %v, want nil", err)
	}
}

func TestEmptyListCodesAreNonNil(t *testing.T) {
	l := NewList()
	if l.ErrorCodes() == nil || l.WarningCodes() == nil {
		t.Error("codes of an empty list must be empty slices, not nil")
	}
	if l.Error() != "" {
		t.Errorf("Error() = %q, want empty", l.Error())
	}
}

func TestMerge(t *testing.T) {
	a := NewList()
	a.AddCode(CodeBadRouting, "too short", "A")
	b := NewList()
	b.AddCode(CodeVectorParse, "bad number", "x")
	a.Merge(b)
	a.Merge(nil)

	if diff := cmp.Diff([]string{"bad_routing_prefix", "vector_parse_error"}, a.ErrorCodes()); diff != "" {
		t.Errorf("Merge mismatch (-want +got):\n%s", diff)
	}
}

func TestDiagnosticError(t *testing.T) {
	d := &Diagnostic{
		Code:       CodeBadAction,
		Severity:   SeverityError,
		Message:    "action is not valid",
		Fragment:   "ε",
		Suggestion: "Did you mean 'e'?",
	}

	msg := d.Error()
	for _, part := range []string{"[error]", "bad_action_code", "action is not valid", `"ε"`, "suggestion: Did you mean 'e'?"} {
		if !strings.Contains(msg, part) {
			t.Errorf("Error() = %q, missing %q", msg, part)
		}
	}
}

func TestSuggestName(t *testing.T) {
	tests := []struct {
		name    string
		unknown string
		valid   []string
		want    string
	}{
		{name: "close match", unknown: "1.2", valid: []string{"1.0", "1.1"}, want: "Did you mean '1.0'?"},
		{name: "far", unknown: "seventeen", valid: []string{"1.0", "1.1"}, want: "Valid values: 1.0, 1.1"},
		{name: "none", unknown: "x", valid: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuggestName(tt.unknown, tt.valid); got != tt.want {
				t.Errorf("SuggestName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSuggestAction(t *testing.T) {
	got := SuggestAction('ε', 'e', "cpaqPe")
	if !strings.HasPrefix(got, "Did you mean 'e'?") {
		t.Errorf("SuggestAction() = %q", got)
	}
	if !strings.Contains(got, "U+03B5") {
		t.Errorf("SuggestAction() = %q, want code point", got)
	}

	got = SuggestAction('x', 0, "cpaqPe")
	if got != "Action must be one of: c, p, a, q, P, e" {
		t.Errorf("SuggestAction() = %q", got)
	}
}

func TestLevenshteinDistanceCountsRunes(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"τ", "t", 1},
		{"kitten", "sitting", 3},
	}
	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
