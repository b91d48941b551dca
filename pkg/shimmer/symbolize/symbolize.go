package symbolize

import (
	"fmt"
	"regexp"
	"strings"

	"shimmer-hq/shimmer/pkg/shimmer/grammar"
)

// TagPrefix starts every rewritable run.
const TagPrefix = "ctag."

// Symbolic codes emitted by the rules.
const (
	StatusFailed = "ctag.σ:✗"
	StatusUrgent = "ctag.σ:‼"
	StatusReady  = "ctag.σ:✓"
	StatusLoop   = "ctag.σ:⟳"
	ImplRepFix   = "ctag.μ:rep_fix"
	ImplPlain    = "ctag.μ:impl"
	KnowledgeTag = "ctag.κ:"
)

// symbolicBody matches a body that is already symbolic, so rewriting is
// idempotent.
var symbolicBody = regexp.MustCompile(`^[σμκ]:`)

var partSplit = regexp.MustCompile(`[:_]`)

type keywords map[string]bool

func set(words ...string) keywords {
	k := make(keywords, len(words))
	for _, w := range words {
		k[w] = true
	}
	return k
}

func (k keywords) any(parts keywords) bool {
	for p := range parts {
		if k[p] {
			return true
		}
	}
	return false
}

// rule is one category. It fires when any trigger word is present and may
// then emit a code; an empty emission adds nothing.
type rule struct {
	name     string
	triggers keywords
	emit     func(parts keywords) string
}

var rules = []rule{
	{
		name:     "status",
		triggers: set("status", "urgent", "failed", "ready", "ack"),
		emit: func(parts keywords) string {
			switch {
			case parts["failed"]:
				return StatusFailed
			case parts["urgent"]:
				return StatusUrgent
			case parts["ready"], parts["ack"]:
				return StatusReady
			}
			return ""
		},
	},
	{
		name:     "loop",
		triggers: set("loop", "loops", "looping", "pending"),
		emit:     func(keywords) string { return StatusLoop },
	},
	{
		name:     "implementation",
		triggers: set("impl", "implement", "fix", "rep", "repetition"),
		emit: func(parts keywords) string {
			if set("rep", "repetition", "fix").any(parts) {
				return ImplRepFix
			}
			return ImplPlain
		},
	},
	{
		name:     "knowledge",
		triggers: set("ask", "params", "parameters", "archive", "arch"),
		emit: func(parts keywords) string {
			var sub []string
			if set("params", "parameters").any(parts) {
				sub = append(sub, "params")
			}
			if set("archive", "arch").any(parts) {
				sub = append(sub, "arch")
			}
			if len(sub) == 0 {
				return ""
			}
			return KnowledgeTag + strings.Join(sub, ":")
		},
	},
}

// Tag rewrites one ctag run. A run no rule fires on is returned unchanged.
func Tag(run string) string {
	body, ok := strings.CutPrefix(run, TagPrefix)
	if !ok || symbolicBody.MatchString(body) {
		return run
	}

	parts := make(keywords)
	for _, p := range partSplit.Split(body, -1) {
		if p != "" {
			parts[strings.ToLower(p)] = true
		}
	}

	var out strings.Builder
	for _, r := range rules {
		if r.triggers.any(parts) {
			out.WriteString(r.emit(parts))
		}
	}

	if out.Len() == 0 {
		return run
	}
	return out.String()
}

// Symbolizer rewrites the ctag runs of whole lines. It is safe for
// concurrent use.
type Symbolizer struct {
	tagRun *regexp.Regexp
}

// New creates a symbolizer using g's tag-run pattern. A nil grammar selects
// grammar.Default.
func New(g *grammar.Grammar) *Symbolizer {
	if g == nil {
		g = grammar.Default
	}
	return &Symbolizer{tagRun: g.TagRun}
}

// Line rewrites every ctag run of a line with the default grammar.
func Line(line string) string {
	out, _ := New(nil).Rewrite(line)
	return out
}

// Line rewrites every ctag run in line. Bytes outside the runs are kept.
func (s *Symbolizer) Line(line string) string {
	out, _ := s.Rewrite(line)
	return out
}

// Rewrite is Line that also reports how many runs changed.
func (s *Symbolizer) Rewrite(line string) (string, int) {
	changed := 0
	out := s.tagRun.ReplaceAllStringFunc(line, func(run string) string {
		rewritten := Tag(run)
		if rewritten != run {
			changed++
		}
		return rewritten
	})
	return out, changed
}

// SafeLine is the stream form: blank lines pass through untouched and a
// failure on one line returns that line unchanged along with the error.
func (s *Symbolizer) SafeLine(line string) (out string, changed int, err error) {
	if strings.TrimSpace(line) == "" {
		return line, 0, nil
	}

	defer func() {
		if r := recover(); r != nil {
			out, changed, err = line, 0, fmt.Errorf("symbolize: %v", r)
		}
	}()

	out, changed = s.Rewrite(line)
	return out, changed, nil
}
