package recorder

import (
	"github.com/google/uuid"

	"shimmer-hq/shimmer/pkg/audit"
	"shimmer-hq/shimmer/pkg/shimmer/lint"
	"shimmer-hq/shimmer/pkg/shimmer/message"
	"shimmer-hq/shimmer/pkg/shimmer/validator"
)

// Run identifies one batch of lines: a CLI invocation or an HTTP request.
type Run struct {
	ID      string
	Source  string
	Grammar string
}

// NewRun starts a run with a fresh UUID.
func NewRun(source, grammar string) Run {
	return Run{
		ID:      uuid.New().String(),
		Source:  source,
		Grammar: grammar,
	}
}

func (run Run) record(op string, index int, line string) *audit.Record {
	return &audit.Record{
		RunID:     run.ID,
		LineIndex: index,
		Source:    run.Source,
		Op:        op,
		LineHash:  HashLine(line),
		Grammar:   run.Grammar,
		Errors:    []string{},
		Warnings:  []string{},
	}
}

// FromReport builds the audit record for a validated line.
func (run Run) FromReport(index int, line string, report *validator.Report) *audit.Record {
	r := run.record("validate", index, line)
	if report.Grammar != "" {
		r.Grammar = report.Grammar
	}
	r.OK = report.OK
	r.Errors = append(r.Errors, report.Errors...)
	r.Warnings = append(r.Warnings, report.Warnings...)
	if report.Container != nil {
		r.Routing = report.Container.Routing
		r.Action = report.Container.Action
	}
	r.ParityT9 = report.Parity.T9
	r.ParityP2B = report.Parity.P2B
	return r
}

// FromLint builds the audit record for a linted line. Routing, action and
// parse errors come from msg when it is non-nil.
func (run Run) FromLint(index int, l lint.Line, msg *message.ParsedMessage) *audit.Record {
	r := run.record("lint", index, l.Line)
	r.OK = l.OK
	score := l.Score
	r.Score = &score
	r.Issues = append([]string{}, l.Issues...)
	if msg != nil {
		r.Routing = msg.Container.Routing
		r.Action = msg.Container.Action
		r.Errors = append(r.Errors, msg.ErrorCodes()...)
	}
	return r
}
