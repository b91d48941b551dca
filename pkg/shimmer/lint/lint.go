package lint

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"shimmer-hq/shimmer/pkg/shimmer/grammar"
)

// Issue tags. Verbose tokens are reported as VerboseTokenPrefix + token.
const (
	IssueMissingArrow        = "missing_arrow"
	IssueSpacesInContainer   = "spaces_in_container"
	IssueInvalidAction       = "invalid_action_code"
	IssueUppercaseAction     = "uppercase_action"
	IssueAxisPrecision       = "axis>1dp"
	IssueConfidencePrecision = "conf>2dp"
	VerboseTokenPrefix       = "verbose_token:"
)

// Deductions from the starting score.
const (
	MaxScore = 100

	PenaltySpaces              = 20
	PenaltyAction              = 10
	PenaltyVerboseToken        = 10
	PenaltyAxisPrecision       = 5
	PenaltyConfidencePrecision = 3
)

// Result is the compactness score of one line.
type Result struct {
	Score  int      `json:"score"`
	Issues []string `json:"issues"`
}

// Line is a scored stream line.
type Line struct {
	Line   string   `json:"line"`
	OK     bool     `json:"ok"`
	Score  int      `json:"score"`
	Issues []string `json:"issues"`
}

// Linter scores lines for compactness. It never fails: a line without an
// arrow scores 0. A Linter is safe for concurrent use.
type Linter struct {
	grammar *grammar.Grammar
}

// NewLinter creates a linter. A nil grammar selects grammar.Default.
func NewLinter(g *grammar.Grammar) *Linter {
	if g == nil {
		g = grammar.Default
	}
	return &Linter{grammar: g}
}

// Score scores one line with the default grammar.
func Score(line string) Result {
	return NewLinter(nil).Score(line)
}

// Score inspects the raw line; it does not require a successful parse.
func (l *Linter) Score(line string) Result {
	left, right, found := strings.Cut(line, grammar.ArrowString)
	if !found {
		return Result{Score: 0, Issues: []string{IssueMissingArrow}}
	}

	score := MaxScore
	issues := make([]string, 0)
	deduct := func(points int, issue string) {
		score -= points
		issues = append(issues, issue)
	}

	// The container is inspected unstripped: padding is itself a defect.
	if strings.IndexFunc(left, unicode.IsSpace) >= 0 {
		deduct(PenaltySpaces, IssueSpacesInContainer)
	}

	runes := []rune(left)
	if len(runes) >= 3 {
		if issue := actionIssue(runes[2]); issue != "" {
			deduct(PenaltyAction, issue)
		}
	}

	var meta string
	if len(runes) > 3 {
		meta = string(runes[3:])
	}
	for _, tok := range l.grammar.LintRun.FindAllString(meta, -1) {
		if l.isVerbose(tok) {
			deduct(PenaltyVerboseToken, VerboseTokenPrefix+tok)
		}
	}

	v := strings.TrimSpace(right)
	if len(v) >= 2 && strings.HasPrefix(v, "[") && strings.HasSuffix(v, "]") {
		i := 0
		for _, part := range strings.Split(v[1:len(v)-1], ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, frac, ok := strings.Cut(part, "."); ok {
				dp := utf8.RuneCountInString(frac)
				if i < 4 && dp > 1 {
					deduct(PenaltyAxisPrecision, IssueAxisPrecision)
				}
				if i == 4 && dp > 2 {
					deduct(PenaltyConfidencePrecision, IssueConfidencePrecision)
				}
			}
			i++
		}
	}

	return Result{Score: max(score, 0), Issues: issues}
}

// Line scores a stream line. minScore <= 0 means no threshold, so every
// line is ok.
func (l *Linter) Line(line string, minScore int) Line {
	r := l.Score(line)
	return Line{
		Line:   line,
		OK:     minScore <= 0 || r.Score >= minScore,
		Score:  r.Score,
		Issues: r.Issues,
	}
}

// Skip reports whether a stream line is blank and must not be scored.
func Skip(line string) bool {
	return strings.TrimSpace(line) == ""
}

// actionIssue classifies the action rune. Any rune outside the code set is
// invalid, including uppercased forms such as C. uppercase_action only
// applies to an uppercase member other than P, which the current code set
// does not contain.
func actionIssue(r rune) string {
	if !grammar.IsAction(r) {
		return IssueInvalidAction
	}
	if unicode.IsUpper(r) && r != 'P' {
		return IssueUppercaseAction
	}
	return ""
}

// isVerbose reports whether tok is a spelled-out word rather than a
// compact code.
func (l *Linter) isVerbose(tok string) bool {
	if l.grammar.CompactToken.MatchString(tok) {
		return false
	}
	return l.grammar.VerboseToken.MatchString(tok) && len(tok) > l.grammar.VerboseMinLen
}

// Stats summarizes a scored stream.
type Stats struct {
	Lines    int
	BelowMin int
	Total    int
	Lowest   int
}

// Add records one scored line.
func (s *Stats) Add(l Line) {
	if s.Lines == 0 || l.Score < s.Lowest {
		s.Lowest = l.Score
	}
	s.Lines++
	s.Total += l.Score
	if !l.OK {
		s.BelowMin++
	}
}

// AllOK reports whether no line fell below the threshold.
func (s *Stats) AllOK() bool {
	return s.BelowMin == 0
}

// Mean returns the average score, or 0 for an empty stream.
func (s *Stats) Mean() float64 {
	if s.Lines == 0 {
		return 0
	}
	return float64(s.Total) / float64(s.Lines)
}
