package message

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	shimmerErrors "shimmer-hq/shimmer/pkg/shimmer/errors"
	"shimmer-hq/shimmer/pkg/shimmer/grammar"
)

// Axis names, by vector position.
var AxisNames = []string{"Action", "Subject", "Context", "Urgency", "Confidence"}

// ConfidenceAxis is the index of the optional fifth axis.
const ConfidenceAxis = 4

// Number is a decoded vector element. Text keeps the literal as written,
// because 3 and 3.00 are the same value but not the same transmission.
type Number struct {
	Value float64
	Text  string
}

// Decimals returns how many fractional digits the written literal carries.
// An exponent shifts the count: "5e-2" carries two, "1.5e1" none.
func (n Number) Decimals() int {
	s := strings.TrimLeft(strings.TrimSpace(n.Text), "+-")
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return 0
	}

	mantissa, exp := s, 0
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mantissa = s[:i]
		if e, err := strconv.Atoi(s[i+1:]); err == nil {
			exp = e
		}
	}

	frac := 0
	if _, after, ok := strings.Cut(mantissa, "."); ok {
		frac = len(after)
	}

	if d := frac - exp; d > 0 {
		return d
	}
	return 0
}

// Finite reports whether the value is neither infinite nor NaN.
func (n Number) Finite() bool {
	return !math.IsInf(n.Value, 0) && !math.IsNaN(n.Value)
}

// MarshalJSON encodes the value; non-finite values become null since JSON
// cannot carry them.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Finite() {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Vector is the bracketed numeric list right of the arrow.
// Numbers is nil unless the list decoded to exactly 4 or 5 elements.
type Vector struct {
	Raw     string   `json:"raw"`
	Numbers []Number `json:"values"`
}

// Present reports whether a valid 4- or 5-tuple was decoded.
func (v Vector) Present() bool {
	return len(v.Numbers) > 0
}

// Len returns the number of decoded axes.
func (v Vector) Len() int {
	return len(v.Numbers)
}

// HasConfidence reports whether the vector carries the fifth axis.
func (v Vector) HasConfidence() bool {
	return len(v.Numbers) > ConfidenceAxis
}

// Values returns the decoded values, or nil when absent.
func (v Vector) Values() []float64 {
	if v.Numbers == nil {
		return nil
	}
	out := make([]float64, len(v.Numbers))
	for i, n := range v.Numbers {
		out[i] = n.Value
	}
	return out
}

// Tokens holds the metadata token lists, one per family, in order of
// appearance. Lists are never nil once produced by the parser.
type Tokens struct {
	RN           []string `json:"rn"`
	Session      []string `json:"session"`
	Shard        []string `json:"shard"`
	CTag         []string `json:"ctag"`
	Deliverables []string `json:"deliverables"`
}

// NewTokens builds Tokens from a grammar extraction.
func NewTokens(families map[grammar.Family][]string) Tokens {
	get := func(f grammar.Family) []string {
		if l := families[f]; l != nil {
			return l
		}
		return []string{}
	}
	return Tokens{
		RN:           get(grammar.FamilyRN),
		Session:      get(grammar.FamilySession),
		Shard:        get(grammar.FamilyShard),
		CTag:         get(grammar.FamilyCTag),
		Deliverables: get(grammar.FamilyDeliverable),
	}
}

// EmptyTokens returns Tokens with every list empty.
func EmptyTokens() Tokens {
	return NewTokens(nil)
}

// Get returns the list for one family.
func (t Tokens) Get(f grammar.Family) []string {
	switch f {
	case grammar.FamilyRN:
		return t.RN
	case grammar.FamilySession:
		return t.Session
	case grammar.FamilyShard:
		return t.Shard
	case grammar.FamilyCTag:
		return t.CTag
	case grammar.FamilyDeliverable:
		return t.Deliverables
	}
	return nil
}

// Metadata returns rn, session, shard and ctag tokens concatenated in
// that order. Deliverables are reported separately.
func (t Tokens) Metadata() []string {
	out := make([]string, 0, len(t.RN)+len(t.Session)+len(t.Shard)+len(t.CTag))
	out = append(out, t.RN...)
	out = append(out, t.Session...)
	out = append(out, t.Shard...)
	out = append(out, t.CTag...)
	return out
}

// Container is the typed view of the text left of the arrow.
type Container struct {
	// Text is the trimmed container, the input to parity.
	Text    string `json:"container_text"`
	Routing string `json:"routing"`
	Action  string `json:"action"`

	// Deadline is nil when no temporal token is present or it is malformed.
	Deadline *int   `json:"deadline_seconds"`
	Tokens   Tokens `json:"tokens"`
}

// ParityPair holds the two informative mod-4 checksums. Both are nil when
// no vector was decoded.
type ParityPair struct {
	T9  *int `json:"t9"`
	P2B *int `json:"p2b"`
}

// ParsedMessage is the result of parsing one line. It is built once by the
// parser and not modified afterwards.
type ParsedMessage struct {
	// Line is the input as given.
	Line string

	// Grammar is the version the line was parsed with.
	Grammar string

	// HasArrow is false when the separator is missing; Container and
	// Vector are then zero.
	HasArrow bool

	Container Container
	Vector    Vector

	// Diagnostics lists every structural problem found.
	Diagnostics *shimmerErrors.List
}

// OK reports whether parsing produced no errors.
func (m *ParsedMessage) OK() bool {
	return m.Diagnostics == nil || !m.Diagnostics.HasErrors()
}

// ErrorCodes returns the error codes in the order they were found.
func (m *ParsedMessage) ErrorCodes() []string {
	if m.Diagnostics == nil {
		return []string{}
	}
	return m.Diagnostics.ErrorCodes()
}
