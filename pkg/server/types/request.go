package types

// LinesRequest is the body of every /v1 operation: exactly one of Line
// and Lines must be set.
type LinesRequest struct {
	Line  *string  `json:"line,omitempty"`
	Lines []string `json:"lines,omitempty"`
}

// Single reports whether the request carries one line rather than a list.
func (r *LinesRequest) Single() bool {
	return r.Line != nil
}

// All returns the request's lines.
func (r *LinesRequest) All() []string {
	if r.Line != nil {
		return []string{*r.Line}
	}
	return r.Lines
}

// LinesResponse answers a request that used "lines". Results are in input
// order.
type LinesResponse struct {
	RunID   string `json:"run_id,omitempty"`
	Results []any  `json:"results"`
}

// LineError replaces the result of a line that could not be processed,
// such as one that exceeded the per-line timeout.
type LineError struct {
	Index    int    `json:"index"`
	Error    string `json:"error"`
	TimedOut bool   `json:"timed_out,omitempty"`
}
