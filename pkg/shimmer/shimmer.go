package shimmer

import (
	"shimmer-hq/shimmer/pkg/shimmer/gloss"
	"shimmer-hq/shimmer/pkg/shimmer/grammar"
	"shimmer-hq/shimmer/pkg/shimmer/lint"
	"shimmer-hq/shimmer/pkg/shimmer/message"
	"shimmer-hq/shimmer/pkg/shimmer/parser"
	"shimmer-hq/shimmer/pkg/shimmer/symbolize"
	"shimmer-hq/shimmer/pkg/shimmer/validator"
)

// Codec bundles the parser, validator, linter and symbolizer for one
// grammar version. It is stateless and safe for concurrent use.
type Codec struct {
	grammar    *grammar.Grammar
	parser     *parser.Parser
	validator  *validator.Validator
	linter     *lint.Linter
	symbolizer *symbolize.Symbolizer
}

// New creates a codec for a grammar version ("" selects the default).
func New(version string) (*Codec, error) {
	g, err := grammar.Lookup(version)
	if err != nil {
		return nil, err
	}
	return NewWithGrammar(g), nil
}

// NewWithGrammar creates a codec for g. A nil grammar selects the default.
func NewWithGrammar(g *grammar.Grammar) *Codec {
	if g == nil {
		g = grammar.Default
	}
	return &Codec{
		grammar:    g,
		parser:     parser.New(g),
		validator:  validator.NewValidator(g),
		linter:     lint.NewLinter(g),
		symbolizer: symbolize.New(g),
	}
}

// Grammar returns the codec's grammar.
func (c *Codec) Grammar() *grammar.Grammar {
	return c.grammar
}

// Parse splits a line into a typed message.
func (c *Codec) Parse(line string) *message.ParsedMessage {
	return c.parser.Parse(line)
}

// Check parses and validates a line.
func (c *Codec) Check(line string) *validator.Report {
	return c.validator.Check(line)
}

// Lint scores a line for compactness.
func (c *Codec) Lint(line string) lint.Result {
	return c.linter.Score(line)
}

// LintLine scores a stream line against minScore (<= 0 for none).
func (c *Codec) LintLine(line string, minScore int) lint.Line {
	return c.linter.Line(line, minScore)
}

// Symbolize rewrites the ctag runs of a line.
func (c *Codec) Symbolize(line string) string {
	return c.symbolizer.Line(line)
}

// Symbolizer returns the codec's symbolizer, for stream use.
func (c *Codec) Symbolizer() *symbolize.Symbolizer {
	return c.symbolizer
}

// Gloss parses a line and renders it in English.
func (c *Codec) Gloss(line string) gloss.Gloss {
	return gloss.Build(c.parser.Parse(line))
}

var defaultCodec = NewWithGrammar(nil)

// Check parses and validates a line with the default grammar.
func Check(line string) *validator.Report { return defaultCodec.Check(line) }

// Lint scores a line with the default grammar.
func Lint(line string) lint.Result { return defaultCodec.Lint(line) }

// Symbolize rewrites a line with the default grammar.
func Symbolize(line string) string { return defaultCodec.Symbolize(line) }

// Gloss glosses a line with the default grammar.
func Gloss(line string) gloss.Gloss { return defaultCodec.Gloss(line) }

// Accept is the training-data acceptance rule: the parse produced no errors
// and the vector has 4 or 5 values. It is narrower in what it reads than the
// validator's OK (range is not consulted) and is applied by callers that
// curate corpora.
func Accept(msg *message.ParsedMessage) (bool, []string) {
	codes := msg.ErrorCodes()
	n := msg.Vector.Len()
	return len(codes) == 0 && n >= parser.MinAxes && n <= parser.MaxAxes, codes
}
