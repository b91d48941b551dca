package processing

import (
	"shimmer-hq/shimmer/pkg/shimmer/gloss"
	"shimmer-hq/shimmer/pkg/shimmer/lint"
)

// Normalized is the result of normalizing one line.
type Normalized struct {
	// Line is the normalized, action-repaired text.
	Line string `json:"line"`

	// Changed reports whether Line differs from the input.
	Changed bool `json:"changed"`

	// Accepted reports whether the normalized line passes the training
	// acceptance rule.
	Accepted bool `json:"accepted"`

	// Errors lists parse error codes of the normalized line.
	Errors []string `json:"errors"`
}

// Symbolized is the result of symbolizing one line.
type Symbolized struct {
	Line     string `json:"line"`
	Rewrites int    `json:"rewrites"`

	// Error is set when the line could not be rewritten; Line then holds
	// the input unchanged.
	Error string `json:"error,omitempty"`
}

// Glossed pairs an input line with its gloss.
type Glossed struct {
	Line  string      `json:"line"`
	Gloss gloss.Gloss `json:"gloss"`
}

// Linted is a scored line. Skipped lines are blank and carry no score.
type Linted struct {
	lint.Line
	Skipped bool `json:"skipped,omitempty"`
}
