package audit

import (
	"context"
	"io"
	"time"
)

// Record is the persisted outcome of processing one line within a run.
type Record struct {
	// ID is a unique identifier (UUID v4) for this record.
	ID string `json:"id" cbor:"1,keyasint"`

	// RunID identifies the batch the line belonged to: one CLI invocation
	// or one HTTP request.
	RunID string `json:"run_id" cbor:"2,keyasint"`

	// LineIndex is the zero-based position of the line within its run.
	LineIndex int `json:"line_index" cbor:"3,keyasint"`

	// Source names where the line came from: a file path, "stdin" or "http".
	Source string `json:"source" cbor:"4,keyasint"`

	// Op is the operation that produced the record ("validate", "lint", ...).
	Op string `json:"op" cbor:"5,keyasint"`

	// LineHash is the SHA-256 hex digest of the line. The line itself is
	// not stored.
	LineHash string `json:"line_hash" cbor:"6,keyasint"`

	// Grammar is the grammar version the line was processed with.
	Grammar string `json:"grammar" cbor:"7,keyasint"`

	Routing string `json:"routing,omitempty" cbor:"8,keyasint,omitempty"`
	Action  string `json:"action,omitempty" cbor:"9,keyasint,omitempty"`

	// OK is the validation verdict, or for lint records whether the line
	// met the minimum score.
	OK       bool     `json:"ok" cbor:"10,keyasint"`
	Errors   []string `json:"errors" cbor:"11,keyasint"`
	Warnings []string `json:"warnings" cbor:"12,keyasint"`

	// Score and Issues are set by lint records only.
	Score  *int     `json:"score,omitempty" cbor:"13,keyasint,omitempty"`
	Issues []string `json:"issues,omitempty" cbor:"14,keyasint,omitempty"`

	// Parity is nil when the line had no decodable vector.
	ParityT9  *int `json:"parity_t9,omitempty" cbor:"15,keyasint,omitempty"`
	ParityP2B *int `json:"parity_p2b,omitempty" cbor:"16,keyasint,omitempty"`

	RecordedTime time.Time `json:"recorded_time" cbor:"17,keyasint"`
}

// HasError reports whether the record carries the given error code.
func (r *Record) HasError(code string) bool {
	for _, c := range r.Errors {
		if c == code {
			return true
		}
	}
	return false
}

// Query filters audit records. Zero values do not filter.
type Query struct {
	// Time range filters on RecordedTime.
	StartTime *time.Time
	EndTime   *time.Time

	RunID   string
	Source  string
	Op      string
	Grammar string
	Routing string
	Action  string

	// ErrorCode matches records whose Errors contain this code.
	ErrorCode string

	// OK filters on the verdict when set.
	OK *bool

	// Score filters match only records that have a score.
	MinScore *int
	MaxScore *int

	// Pagination. A zero Limit returns every match.
	Limit  int
	Offset int

	// Sorting
	SortBy    string // "recorded_time", "line_index", "score"
	SortOrder string // "asc" or "desc"
}

// Storage defines the interface for audit storage backends.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Store persists a single record.
	Store(ctx context.Context, record *Record) error

	// Query retrieves records matching the query.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// QueryStream streams matching records one at a time. Both channels are
	// closed when the stream ends; at most one error is sent.
	QueryStream(ctx context.Context, query *Query) (<-chan *Record, <-chan error, error)

	// Count returns the number of records matching the query.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes records matching the query and returns how many were
	// removed.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Ping checks that the backend is usable.
	Ping(ctx context.Context) error

	// Close releases resources held by the backend.
	Close() error
}

// Exporter writes audit records in a specific format.
type Exporter interface {
	// Export writes records to w.
	Export(ctx context.Context, records []*Record, w io.Writer) error

	// ExportStream writes records from a channel to w until it is closed.
	ExportStream(ctx context.Context, records <-chan *Record, w io.Writer) error
}
