package parser

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	shimmerErrors "shimmer-hq/shimmer/pkg/shimmer/errors"
	"shimmer-hq/shimmer/pkg/shimmer/grammar"
	"shimmer-hq/shimmer/pkg/shimmer/message"
)

func intPtr(n int) *int { return &n }

func TestParseContainer(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		want       message.Container
		wantErrors []string
	}{
		{
			name: "full message",
			line: "ABPrn01τ300f06→[0.5,0.9,0.1,0.9,0.96]",
			want: message.Container{
				Text:     "ABPrn01τ300f06",
				Routing:  "AB",
				Action:   "P",
				Deadline: intPtr(300),
				Tokens: message.Tokens{
					RN: []string{"rn01"}, Session: []string{}, Shard: []string{},
					CTag: []string{}, Deliverables: []string{"f06"},
				},
			},
			wantErrors: []string{},
		},
		{
			name: "acknowledge with deliverable",
			line: "XYaf07→[0.0,0.2,0.0,0.1,0.95]",
			want: message.Container{
				Text:    "XYaf07",
				Routing: "XY",
				Action:  "a",
				Tokens: message.Tokens{
					RN: []string{}, Session: []string{}, Shard: []string{},
					CTag: []string{}, Deliverables: []string{"f07"},
				},
			},
			wantErrors: []string{},
		},
		{
			name: "unicode routing",
			line: "⚡🔧c→[0,0,0,0]",
			want: message.Container{
				Text:    "⚡🔧c",
				Routing: "⚡🔧",
				Action:  "c",
				Tokens:  message.EmptyTokens(),
			},
			wantErrors: []string{},
		},
		{
			name: "surrounding whitespace is trimmed",
			line: "  ABq  →  [0,0,0,0]  ",
			want: message.Container{
				Text:    "ABq",
				Routing: "AB",
				Action:  "q",
				Tokens:  message.EmptyTokens(),
			},
			wantErrors: []string{},
		},
		{
			name: "bad action scans whole remainder",
			line: "ABxrn02→[0,0,0,0]",
			want: message.Container{
				Text:    "ABxrn02",
				Routing: "AB",
				Tokens: message.Tokens{
					RN: []string{"rn02"}, Session: []string{}, Shard: []string{},
					CTag: []string{}, Deliverables: []string{},
				},
			},
			wantErrors: []string{"bad_action_code"},
		},
		{
			name: "bad action keeps first metadata rune",
			line: "ABf06→[0,0,0,0]",
			want: message.Container{
				Text:    "ABf06",
				Routing: "AB",
				Tokens: message.Tokens{
					RN: []string{}, Session: []string{}, Shard: []string{},
					CTag: []string{}, Deliverables: []string{"f06"},
				},
			},
			wantErrors: []string{"bad_action_code"},
		},
		{
			name: "short container",
			line: "c→[0,0,0,0]",
			want: message.Container{
				Text:   "c",
				Action: "c",
				Tokens: message.EmptyTokens(),
			},
			wantErrors: []string{"bad_routing_prefix"},
		},
		{
			name: "empty container",
			line: "→[0,0,0,0]",
			want: message.Container{
				Tokens: message.EmptyTokens(),
			},
			wantErrors: []string{"bad_routing_prefix", "bad_action_code"},
		},
		{
			name: "first temporal wins",
			line: "ABpτ30τ60→[0,0,0,0]",
			want: message.Container{
				Text:     "ABpτ30τ60",
				Routing:  "AB",
				Action:   "p",
				Deadline: intPtr(30),
				Tokens:   message.EmptyTokens(),
			},
			wantErrors: []string{},
		},
		{
			name: "temporal overflow",
			line: "ABpτ99999999999999999999→[0,0,0,0]",
			want: message.Container{
				Text:    "ABpτ99999999999999999999",
				Routing: "AB",
				Action:  "p",
				Tokens:  message.EmptyTokens(),
			},
			wantErrors: []string{"bad_temporal_number"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := Parse(tt.line)
			if !msg.HasArrow {
				t.Fatal("HasArrow = false")
			}
			if diff := cmp.Diff(tt.want, msg.Container); diff != "" {
				t.Errorf("Container mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantErrors, msg.ErrorCodes()); diff != "" {
				t.Errorf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseMissingArrow(t *testing.T) {
	msg := Parse("just some text")

	if msg.HasArrow {
		t.Error("HasArrow = true")
	}
	if diff := cmp.Diff([]string{"missing_arrow_separator"}, msg.ErrorCodes()); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
	if msg.Container.Routing != "" || msg.Container.Action != "" || msg.Vector.Present() {
		t.Errorf("fields should be empty, got %+v", msg.Container)
	}
}

func TestParseMissingArrowSuggestsNormalization(t *testing.T) {
	msg := Parse("ABc->[0,0,0,0]")
	d := msg.Diagnostics.ByCode(shimmerErrors.CodeMissingArrow)
	if len(d) != 1 {
		t.Fatalf("got %d missing_arrow diagnostics", len(d))
	}
	if !strings.Contains(d[0].Suggestion, "->") {
		t.Errorf("Suggestion = %q", d[0].Suggestion)
	}
}

func TestParseSplitsOnFirstArrow(t *testing.T) {
	msg := Parse("ABc→[0,0,0,0]→x")
	if msg.Vector.Raw != "[0,0,0,0]→x" {
		t.Errorf("Raw = %q", msg.Vector.Raw)
	}
	if diff := cmp.Diff([]string{"vector_brackets_missing"}, msg.ErrorCodes()); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestParseReportsContainerAndVectorErrors(t *testing.T) {
	msg := Parse("ABx→[1,2]")
	want := []string{"bad_action_code", "vector_arity_not_4_or_5"}
	if diff := cmp.Diff(want, msg.ErrorCodes()); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConfusableActionSuggestion(t *testing.T) {
	msg := Parse("ABε→[0,0,0,0]")
	d := msg.Diagnostics.ByCode(shimmerErrors.CodeBadAction)
	if len(d) != 1 {
		t.Fatalf("got %d bad_action diagnostics", len(d))
	}
	if !strings.HasPrefix(d[0].Suggestion, "Did you mean 'e'?") {
		t.Errorf("Suggestion = %q", d[0].Suggestion)
	}
	if d[0].Fragment != "ε" {
		t.Errorf("Fragment = %q", d[0].Fragment)
	}
}

func TestParseNonExclusiveFamilies(t *testing.T) {
	msg := Parse("ABc@s12ctag.loop_f06→[0,0,0,0]")
	tok := msg.Container.Tokens

	if diff := cmp.Diff([]string{"@s12"}, tok.Shard); diff != "" {
		t.Errorf("shard mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"s12"}, tok.Session); diff != "" {
		t.Errorf("session mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ctag.loop_f06"}, tok.CTag); diff != "" {
		t.Errorf("ctag mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"f06"}, tok.Deliverables); diff != "" {
		t.Errorf("deliverables mismatch (-want +got):\n%s", diff)
	}
}

func TestParseGrammarVersion(t *testing.T) {
	line := "ABcs:Ab1→[0,0,0,0]"

	v10 := New(grammar.V1_0).Parse(line)
	if diff := cmp.Diff([]string{"s:Ab1"}, v10.Container.Tokens.Session); diff != "" {
		t.Errorf("1.0 session mismatch (-want +got):\n%s", diff)
	}
	if v10.Grammar != "1.0" {
		t.Errorf("Grammar = %q", v10.Grammar)
	}

	// 1.1 stops at the uppercase letter, leaving no s:<id> match at "s:A".
	v11 := New(grammar.V1_1).Parse(line)
	if diff := cmp.Diff([]string{}, v11.Container.Tokens.Session); diff != "" {
		t.Errorf("1.1 session mismatch (-want +got):\n%s", diff)
	}
}

func TestNewNilGrammarUsesDefault(t *testing.T) {
	if New(nil).Grammar() != grammar.Default {
		t.Error("New(nil) should use the default grammar")
	}
}

func TestDecodeVector(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantCode shimmerErrors.Code
		want     []message.Number
	}{
		{
			name: "four axes",
			text: "[0.5,0.5,0.5,0.5]",
			want: []message.Number{{Value: 0.5, Text: "0.5"}, {Value: 0.5, Text: "0.5"}, {Value: 0.5, Text: "0.5"}, {Value: 0.5, Text: "0.5"}},
		},
		{
			name: "five axes keep written text",
			text: "[ 1 , 0.0 ,-0.25, 3.00, 0.96 ]",
			want: []message.Number{{Value: 1, Text: "1"}, {Value: 0, Text: "0.0"}, {Value: -0.25, Text: "-0.25"}, {Value: 3, Text: "3.00"}, {Value: 0.96, Text: "0.96"}},
		},
		{
			name: "trailing comma tolerated",
			text: "[0,0,0,0,]",
			want: []message.Number{{Value: 0, Text: "0"}, {Value: 0, Text: "0"}, {Value: 0, Text: "0"}, {Value: 0, Text: "0"}},
		},
		{name: "no brackets", text: "0,0,0,0", wantCode: shimmerErrors.CodeBracketsMissing},
		{name: "open only", text: "[0,0,0,0", wantCode: shimmerErrors.CodeBracketsMissing},
		{name: "empty", text: "", wantCode: shimmerErrors.CodeBracketsMissing},
		{name: "lone bracket", text: "]", wantCode: shimmerErrors.CodeBracketsMissing},
		{name: "word", text: "[0,zero,0,0]", wantCode: shimmerErrors.CodeVectorParse},
		{name: "hex rejected", text: "[0x1p-1,0,0,0]", wantCode: shimmerErrors.CodeVectorParse},
		{name: "parse error wins over arity", text: "[a]", wantCode: shimmerErrors.CodeVectorParse},
		{name: "three", text: "[0,0,0]", wantCode: shimmerErrors.CodeVectorArity},
		{name: "six", text: "[0,0,0,0,0,0]", wantCode: shimmerErrors.CodeVectorArity},
		{name: "empty brackets", text: "[]", wantCode: shimmerErrors.CodeVectorArity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vec, diag := DecodeVector(tt.text)
			if vec.Raw != tt.text {
				t.Errorf("Raw = %q, want %q", vec.Raw, tt.text)
			}
			if tt.wantCode != "" {
				if diag == nil || diag.Code != tt.wantCode {
					t.Fatalf("diagnostic = %v, want code %s", diag, tt.wantCode)
				}
				if vec.Numbers != nil {
					t.Errorf("Numbers = %v, want nil on failure", vec.Numbers)
				}
				return
			}
			if diag != nil {
				t.Fatalf("unexpected diagnostic: %v", diag)
			}
			if diff := cmp.Diff(tt.want, vec.Numbers); diff != "" {
				t.Errorf("Numbers mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeVectorNonFinite(t *testing.T) {
	vec, diag := DecodeVector("[inf,-inf,nan,1e400]")
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %v", diag)
	}
	got := vec.Values()
	if !math.IsInf(got[0], 1) || !math.IsInf(got[1], -1) || !math.IsNaN(got[2]) || !math.IsInf(got[3], 1) {
		t.Errorf("Values() = %v", got)
	}
}

func TestParseIsDeterministic(t *testing.T) {
	line := "ABPrn01s:x9@s3ctag.ready_impl τ45 f06 d12→[0.5,-0.5,0.1,0.9,0.75]"
	first := Parse(line)
	for i := 0; i < 5; i++ {
		again := Parse(line)
		if diff := cmp.Diff(first, again, cmpopts.EquateNaNs()); diff != "" {
			t.Fatalf("parse %d differs (-first +again):\n%s", i, diff)
		}
	}
}
