package symbolize

import (
	"testing"

	"shimmer-hq/shimmer/pkg/shimmer/grammar"
)

func TestTag(t *testing.T) {
	tests := []struct {
		name string
		run  string
		want string
	}{
		{name: "loop without status word", run: "ctag.status:chunked_wav_infinite_loops_all_engines", want: "ctag.σ:⟳"},
		{name: "failed beats urgent", run: "ctag.urgent_failed", want: "ctag.σ:✗"},
		{name: "urgent beats ready", run: "ctag.ready:urgent", want: "ctag.σ:‼"},
		{name: "ready", run: "ctag.ready", want: "ctag.σ:✓"},
		{name: "ack", run: "ctag.status:ack", want: "ctag.σ:✓"},
		{name: "status alone emits nothing", run: "ctag.status", want: "ctag.status"},
		{name: "pending is a loop", run: "ctag.pending", want: "ctag.σ:⟳"},
		{name: "impl", run: "ctag.implement_parser", want: "ctag.μ:impl"},
		{name: "fix", run: "ctag.impl_fix", want: "ctag.μ:rep_fix"},
		{name: "repetition", run: "ctag.repetition", want: "ctag.μ:rep_fix"},
		{name: "params", run: "ctag.ask_parameters", want: "ctag.κ:params"},
		{name: "arch", run: "ctag.archive", want: "ctag.κ:arch"},
		{name: "params and arch", run: "ctag.params:arch", want: "ctag.κ:params:arch"},
		{name: "ask alone emits nothing", run: "ctag.ask", want: "ctag.ask"},
		{name: "categories concatenate in order", run: "ctag.fix_loop_failed_params", want: "ctag.σ:✗ctag.σ:⟳ctag.μ:rep_fixctag.κ:params"},
		{name: "keywords are case-insensitive", run: "ctag.FAILED", want: "ctag.σ:✗"},
		{name: "empty parts dropped", run: "ctag.__loop::", want: "ctag.σ:⟳"},
		{name: "unknown words", run: "ctag.whisper_debug", want: "ctag.whisper_debug"},
		{name: "already symbolic", run: "ctag.σ:✗ctag.μ:rep_fix", want: "ctag.σ:✗ctag.μ:rep_fix"},
		{name: "symbolic with keyword", run: "ctag.μ:fix", want: "ctag.μ:fix"},
		{name: "not a tag", run: "tag.loop", want: "tag.loop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Tag(tt.run); got != tt.want {
				t.Errorf("Tag(%q) = %q, want %q", tt.run, got, tt.want)
			}
		})
	}
}

func TestLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{
			name: "stops at temporal marker",
			line: "ABpctag.status:failedτ30f06→[0.1,0,0,0.9]",
			want: "ABpctag.σ:✗τ30f06→[0.1,0,0,0.9]",
		},
		{
			name: "stops at arrow",
			line: "ABpctag.loop→[0,0,0,0]",
			want: "ABpctag.σ:⟳→[0,0,0,0]",
		},
		{
			name: "stops at bracket",
			line: "ctag.ready[x]",
			want: "ctag.σ:✓[x]",
		},
		{
			name: "no tags",
			line: "ABPrn01τ300f06→[0.5,0.9,0.1,0.9,0.96]",
			want: "ABPrn01τ300f06→[0.5,0.9,0.1,0.9,0.96]",
		},
		{
			name: "unmatched run unchanged",
			line: "ABcctag.whisper_debugτ5→[0,0,0,0]",
			want: "ABcctag.whisper_debugτ5→[0,0,0,0]",
		},
		{
			name: "bare ctag without dot",
			line: "ABcctag:loop→[0,0,0,0]",
			want: "ABcctag:loop→[0,0,0,0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Line(tt.line); got != tt.want {
				t.Errorf("Line(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestLineIsIdempotent(t *testing.T) {
	s := New(grammar.V1_1)
	lines := []string{
		"ctag.status:chunked_wav_infinite_loops_all_engines",
		"ABpctag.status:failed_loop_fix_params_archτ30→[0,0,0,0]",
		"ABcctag.implement ctag.ready→[0,0,0,0]",
		"ctag.ack[ctag.impl]→ctag.urgent",
		"ABcctag.σ:fix→[0,0,0,0]",
		"plain text",
		"",
	}

	for _, line := range lines {
		once := s.Line(line)
		twice := s.Line(once)
		if once != twice {
			t.Errorf("not idempotent for %q: once %q, twice %q", line, once, twice)
		}
	}
}

func TestRewriteCountsChangedRuns(t *testing.T) {
	s := New(nil)
	out, n := s.Rewrite("ctag.ready[ctag.nothing]→ctag.loop")
	if out != "ctag.σ:✓[ctag.nothing]→ctag.σ:⟳" {
		t.Errorf("Rewrite() = %q", out)
	}
	if n != 2 {
		t.Errorf("changed = %d, want 2", n)
	}
}

func TestSafeLine(t *testing.T) {
	s := New(nil)

	for _, blank := range []string{"", "   ", "\t"} {
		out, n, err := s.SafeLine(blank)
		if out != blank || n != 0 || err != nil {
			t.Errorf("SafeLine(%q) = %q, %d, %v", blank, out, n, err)
		}
	}

	out, n, err := s.SafeLine("ABcctag.fix→[0,0,0,0]")
	if err != nil {
		t.Fatalf("SafeLine() error = %v", err)
	}
	if out != "ABcctag.μ:rep_fix→[0,0,0,0]" || n != 1 {
		t.Errorf("SafeLine() = %q, %d", out, n)
	}
}

func TestSafeLineRecoversPanic(t *testing.T) {
	s := &Symbolizer{} // nil pattern panics on use
	line := "ABcctag.fix→[0,0,0,0]"

	out, n, err := s.SafeLine(line)
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}
	if out != line || n != 0 {
		t.Errorf("SafeLine() = %q, %d; want the input unchanged", out, n)
	}
}
