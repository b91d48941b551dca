package gloss

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"shimmer-hq/shimmer/pkg/shimmer/parser"
)

func intPtr(n int) *int { return &n }

func TestBuild(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Gloss
	}{
		{
			name: "plan with deadline",
			line: "ABPrn01τ300f06→[0.5,0.9,0.1,0.9,0.96]",
			want: Gloss{
				Routing:         "AB",
				Action:          Action{Code: "P", Meaning: "plan"},
				Metadata:        []string{"rn01"},
				DeadlineSeconds: intPtr(300),
				Deliverables:    []string{"f06"},
				VectorGloss:     "Action=0.5, Subject=0.9, Context=0.1, Urgency=0.9, Confidence=0.96",
				Summary:         "Routing AB; action plan (P), deadline 300s; deliverables=f06; metadata=rn01. Action=0.5, Subject=0.9, Context=0.1, Urgency=0.9, Confidence=0.96",
			},
		},
		{
			name: "four axes and metadata order",
			line: "XYqctag.ask@s2s:ab→[-0.5,0,1,0.25]",
			want: Gloss{
				Routing:      "XY",
				Action:       Action{Code: "q", Meaning: "query"},
				Metadata:     []string{"s2", "s:ab", "@s2", "ctag.ask"},
				Deliverables: []string{},
				VectorGloss:  "Action=-0.5, Subject=0.0, Context=1.0, Urgency=0.2",
				Summary:      "Routing XY; action query (q); metadata=s2,s:ab,@s2,ctag.ask. Action=-0.5, Subject=0.0, Context=1.0, Urgency=0.2",
			},
		},
		{
			name: "zero deadline is omitted from summary",
			line: "ABcτ0→[0,0,0,0]",
			want: Gloss{
				Routing:         "AB",
				Action:          Action{Code: "c", Meaning: "complete"},
				Metadata:        []string{},
				DeadlineSeconds: intPtr(0),
				Deliverables:    []string{},
				VectorGloss:     "Action=0.0, Subject=0.0, Context=0.0, Urgency=0.0",
				Summary:         "Routing AB; action complete (c). Action=0.0, Subject=0.0, Context=0.0, Urgency=0.0",
			},
		},
		{
			name: "invalid action is glossed unknown",
			line: "ABx→[0,0,0]",
			want: Gloss{
				Routing:      "AB",
				Action:       Action{Code: "x", Meaning: "unknown"},
				Metadata:     []string{},
				Deliverables: []string{},
				Summary:      "Routing AB; action unknown (x).",
			},
		},
		{
			name: "short container",
			line: "c→[0,0,0,0]",
			want: Gloss{
				Routing:      "c",
				Action:       Action{Code: "c", Meaning: "complete"},
				Metadata:     []string{},
				Deliverables: []string{},
				VectorGloss:  "Action=0.0, Subject=0.0, Context=0.0, Urgency=0.0",
				Summary:      "Routing c; action complete (c). Action=0.0, Subject=0.0, Context=0.0, Urgency=0.0",
			},
		},
		{
			name: "missing arrow",
			line: "just some text",
			want: Gloss{
				Routing:      "ju",
				Action:       Action{Code: "", Meaning: "unknown"},
				Metadata:     []string{},
				Deliverables: []string{},
				Summary:      "Routing ju; action unknown ().",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(parser.Parse(tt.line))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Build() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	escaped := `\` + "u2192"
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "already strict", in: "ABc→[0,0,0,0]", want: "ABc→[0,0,0,0]"},
		{name: "ascii arrow", in: "ABc->[0,0,0,0]", want: "ABc→[0,0,0,0]"},
		{name: "escaped arrow", in: "ABc" + escaped + "[0,0,0,0]", want: "ABc→[0,0,0,0]"},
		{name: "bare code point", in: "ABcu2192[0,0,0,0]", want: "ABc→[0,0,0,0]"},
		{name: "spaces in container", in: "  AB c rn01 → [0.5, 0.5,0.5,0.5]  ", want: "ABcrn01→[0.5, 0.5,0.5,0.5]"},
		{name: "code fence", in: "```json\nABc→[0,0,0,0]\n```", want: "ABc→[0,0,0,0]"},
		{name: "bare fence", in: "```\nABc -> [0,0,0,0]\n```", want: "ABc→[0,0,0,0]"},
		{name: "no arrow", in: "  hello world  ", want: "hello world"},
		{name: "empty", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizedOutputParses(t *testing.T) {
	msg := parser.Parse(Normalize("```json\nAB P rn01 τ300 f06 -> [0.5,0.9,0.1,0.9,0.96]\n```"))
	if !msg.OK() {
		t.Fatalf("normalized line does not parse: %v", msg.ErrorCodes())
	}
	if msg.Container.Action != "P" {
		t.Errorf("Action = %q", msg.Container.Action)
	}
}

func TestExtractContainerLine(t *testing.T) {
	text := "Here you go:\nnot a message ]\n  ABc→[0,0,0,0]  \nthanks"
	if got := ExtractContainerLine(text); got != "ABc→[0,0,0,0]" {
		t.Errorf("ExtractContainerLine() = %q", got)
	}
	if got := ExtractContainerLine("  nothing here "); got != "nothing here" {
		t.Errorf("ExtractContainerLine() = %q", got)
	}
}

func TestRepairAction(t *testing.T) {
	tests := []struct {
		in        string
		want      string
		wantFixed bool
	}{
		{"ABε", "ABe", true},
		{"ABεrn01", "ABern01", true},
		{"XYаf07", "XYaf07", true},
		{"XYс", "XYc", true},
		{"XYρ", "XYp", true},
		{"XYΡ", "XYP", true},
		{"ABe", "ABe", false},
		{"ABx", "ABx", false},
		{"AB", "AB", false},
		{"⚡🔧ε", "⚡🔧e", true},
	}

	for _, tt := range tests {
		got, fixed := RepairAction(tt.in)
		if got != tt.want || fixed != tt.wantFixed {
			t.Errorf("RepairAction(%q) = %q, %v; want %q, %v", tt.in, got, fixed, tt.want, tt.wantFixed)
		}
	}
}

func TestRepair(t *testing.T) {
	got, changed := Repair("AB ε rn01 -> [0,0,0,0]")
	if got != "ABern01→[0,0,0,0]" || !changed {
		t.Errorf("Repair() = %q, %v", got, changed)
	}

	got, changed = Repair("ABc→[0,0,0,0]")
	if got != "ABc→[0,0,0,0]" || changed {
		t.Errorf("Repair() = %q, %v; want unchanged", got, changed)
	}

	got, changed = Repair("no arrow ")
	if got != "no arrow" || !changed {
		t.Errorf("Repair() = %q, %v", got, changed)
	}
}
