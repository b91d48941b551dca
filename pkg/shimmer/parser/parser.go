package parser

import (
	"fmt"
	"strconv"
	"strings"

	shimmerErrors "shimmer-hq/shimmer/pkg/shimmer/errors"
	"shimmer-hq/shimmer/pkg/shimmer/grammar"
	"shimmer-hq/shimmer/pkg/shimmer/message"
)

// Parser splits Shimmer lines into typed messages using one grammar version.
// A Parser holds no mutable state and is safe for concurrent use.
type Parser struct {
	grammar *grammar.Grammar
}

// New creates a parser for the given grammar. A nil grammar selects
// grammar.Default.
func New(g *grammar.Grammar) *Parser {
	if g == nil {
		g = grammar.Default
	}
	return &Parser{grammar: g}
}

// Grammar returns the grammar the parser was built with.
func (p *Parser) Grammar() *grammar.Grammar {
	return p.grammar
}

// Parse parses one line with the default grammar.
func Parse(line string) *message.ParsedMessage {
	return New(nil).Parse(line)
}

// Parse never fails. Every structural problem is recorded in the result's
// diagnostics and the fields that could be recovered are still filled in.
func (p *Parser) Parse(line string) *message.ParsedMessage {
	msg := &message.ParsedMessage{
		Line:        line,
		Grammar:     p.grammar.Version,
		Container:   message.Container{Tokens: message.EmptyTokens()},
		Diagnostics: shimmerErrors.NewList(),
	}

	left, right, found := strings.Cut(line, grammar.ArrowString)
	if !found {
		msg.Diagnostics.AddCodeWithSuggestion(
			shimmerErrors.CodeMissingArrow,
			"no '→' separator between container and vector",
			"",
			arrowSuggestion(line),
		)
		return msg
	}
	msg.HasArrow = true

	left = strings.TrimSpace(left)
	right = strings.TrimSpace(right)

	p.parseContainer(left, &msg.Container, msg.Diagnostics)

	vec, diag := DecodeVector(right)
	msg.Vector = vec
	if diag != nil {
		msg.Diagnostics.Add(diag)
	}

	return msg
}

// parseContainer fills c from the trimmed container text.
func (p *Parser) parseContainer(left string, c *message.Container, diags *shimmerErrors.List) {
	c.Text = left

	rest := []rune(left)
	if len(rest) < 2 {
		diags.AddCode(shimmerErrors.CodeBadRouting,
			fmt.Sprintf("routing needs 2 characters, container has %d", len(rest)), left)
	} else {
		c.Routing = string(rest[:2])
		rest = rest[2:]
	}

	// On a bad action the metadata scan covers the whole remainder.
	tail := string(rest)
	if len(rest) > 0 && grammar.IsAction(rest[0]) {
		c.Action = string(rest[0])
		tail = string(rest[1:])
	} else {
		diags.Add(badAction(rest))
	}

	c.Tokens = message.NewTokens(p.grammar.Extract(tail))

	if m := p.grammar.Temporal.FindStringSubmatch(tail); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			diags.AddCode(shimmerErrors.CodeBadTemporal,
				fmt.Sprintf("deadline %s does not fit an integer", m[1]), m[0])
		} else {
			c.Deadline = &n
		}
	}
}

func badAction(rest []rune) *shimmerErrors.Diagnostic {
	codes := grammar.ActionCodes()
	if len(rest) == 0 {
		return &shimmerErrors.Diagnostic{
			Code:       shimmerErrors.CodeBadAction,
			Severity:   shimmerErrors.SeverityError,
			Message:    "container ends before the action code",
			Suggestion: shimmerErrors.SuggestAction(0, 0, codes),
		}
	}

	found := rest[0]
	repaired, _ := grammar.RepairRune(found)
	return &shimmerErrors.Diagnostic{
		Code:       shimmerErrors.CodeBadAction,
		Severity:   shimmerErrors.SeverityError,
		Message:    fmt.Sprintf("action %q is not one of %s", found, codes),
		Fragment:   string(found),
		Suggestion: shimmerErrors.SuggestAction(found, repaired, codes),
	}
}

func arrowSuggestion(line string) string {
	for _, alt := range []string{"->", "u2192"} {
		if strings.Contains(line, alt) {
			return fmt.Sprintf("found %q; normalize it to '→' (U+2192)", alt)
		}
	}
	return ""
}
