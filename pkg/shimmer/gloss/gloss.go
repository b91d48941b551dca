package gloss

import (
	"fmt"
	"strings"

	"shimmer-hq/shimmer/pkg/shimmer/grammar"
	"shimmer-hq/shimmer/pkg/shimmer/message"
)

// Action is an action code and its English meaning.
type Action struct {
	Code    string `json:"code"`
	Meaning string `json:"meaning"`
}

// Gloss is a deterministic English rendering of a message.
type Gloss struct {
	Routing         string   `json:"routing"`
	Action          Action   `json:"action"`
	Metadata        []string `json:"metadata"`
	DeadlineSeconds *int     `json:"deadline_seconds"`
	Deliverables    []string `json:"deliverables"`
	VectorGloss     string   `json:"vector_gloss"`
	Summary         string   `json:"one_paragraph_summary"`
}

// Build glosses a parsed message. It works on partial parses: the action is
// taken from the raw container so an invalid code still shows up, glossed
// as "unknown".
func Build(msg *message.ParsedMessage) Gloss {
	c := msg.Container

	routing := c.Routing
	if routing == "" {
		routing = firstRunes(beforeArrow(msg.Line), 2)
	}

	code := c.Action
	if runes := []rune(c.Text); len(runes) >= 3 {
		code = string(runes[2])
	}

	g := Gloss{
		Routing:         routing,
		Action:          Action{Code: code, Meaning: grammar.ActionMeaning(code)},
		Metadata:        c.Tokens.Metadata(),
		DeadlineSeconds: c.Deadline,
		Deliverables:    c.Tokens.Deliverables,
		VectorGloss:     VectorGloss(msg.Vector),
	}
	if g.Deliverables == nil {
		g.Deliverables = []string{}
	}
	g.Summary = summary(g)
	return g
}

// VectorGloss names each axis with its value, or returns "" when the vector
// is absent.
func VectorGloss(v message.Vector) string {
	if !v.Present() {
		return ""
	}
	x := v.Values()
	s := fmt.Sprintf("Action=%.1f, Subject=%.1f, Context=%.1f, Urgency=%.1f", x[0], x[1], x[2], x[3])
	if v.HasConfidence() {
		s += fmt.Sprintf(", Confidence=%.2f", x[message.ConfidenceAxis])
	}
	return s
}

func summary(g Gloss) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Routing %s; action %s (%s)", g.Routing, g.Action.Meaning, g.Action.Code)
	if g.DeadlineSeconds != nil && *g.DeadlineSeconds != 0 {
		fmt.Fprintf(&sb, ", deadline %ds", *g.DeadlineSeconds)
	}
	if len(g.Deliverables) > 0 {
		sb.WriteString("; deliverables=" + strings.Join(g.Deliverables, ","))
	}
	if len(g.Metadata) > 0 {
		sb.WriteString("; metadata=" + strings.Join(g.Metadata, ","))
	}
	sb.WriteString(". ")
	sb.WriteString(g.VectorGloss)
	return strings.TrimSpace(sb.String())
}

func beforeArrow(line string) string {
	left, _, _ := strings.Cut(line, grammar.ArrowString)
	return left
}

func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}
