package validator

import (
	shimmerErrors "shimmer-hq/shimmer/pkg/shimmer/errors"
	"shimmer-hq/shimmer/pkg/shimmer/grammar"
	"shimmer-hq/shimmer/pkg/shimmer/message"
	"shimmer-hq/shimmer/pkg/shimmer/parser"
)

// Report is the outcome of validating one message.
type Report struct {
	// OK is true when no error-severity diagnostic was found.
	OK       bool     `json:"ok"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Grammar  string   `json:"grammar"`

	// Container and Vector are nil when the line had no arrow.
	Container *message.Container `json:"container"`
	Vector    *message.Vector    `json:"vector"`
	Parity    message.ParityPair `json:"parity"`

	Diagnostics []*shimmerErrors.Diagnostic `json:"diagnostics,omitempty"`

	// Message is the parse the report was built from.
	Message *message.ParsedMessage `json:"-"`
}

// Validator runs the range and quantization passes over parsed messages and
// computes parity. It is safe for concurrent use.
type Validator struct {
	parser       *parser.Parser
	rng          *RangeChecker
	quantization *QuantizationChecker
}

// NewValidator creates a validator for the given grammar. A nil grammar
// selects grammar.Default.
func NewValidator(g *grammar.Grammar) *Validator {
	return &Validator{
		parser:       parser.New(g),
		rng:          NewRangeChecker(),
		quantization: NewQuantizationChecker(),
	}
}

// Grammar returns the grammar lines are parsed with.
func (v *Validator) Grammar() *grammar.Grammar {
	return v.parser.Grammar()
}

// Check parses and validates one line.
func (v *Validator) Check(line string) *Report {
	return v.Validate(v.parser.Parse(line))
}

// Validate validates a message parsed with the default grammar.
func Validate(msg *message.ParsedMessage) *Report {
	return NewValidator(nil).Validate(msg)
}

// Validate builds a report for msg. Range and quantization are only checked
// when parsing succeeded, to avoid cascading diagnostics. Parity is computed
// whenever a vector was decoded and never affects OK.
func (v *Validator) Validate(msg *message.ParsedMessage) *Report {
	diags := shimmerErrors.NewList()
	diags.Merge(msg.Diagnostics)

	if !diags.HasErrors() && msg.Vector.Present() {
		v.rng.Check(msg.Vector, diags)
		v.quantization.Check(msg.Vector, diags)
	}

	report := &Report{
		OK:          !diags.HasErrors(),
		Errors:      diags.ErrorCodes(),
		Warnings:    diags.WarningCodes(),
		Grammar:     msg.Grammar,
		Diagnostics: diags.Diagnostics,
		Message:     msg,
	}

	if msg.HasArrow {
		container := msg.Container
		vector := msg.Vector
		report.Container = &container
		report.Vector = &vector
		report.Parity = ComputeParity(msg.Container.Text, msg.Vector)
	}

	return report
}
