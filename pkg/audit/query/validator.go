package query

import (
	"fmt"

	"shimmer-hq/shimmer/pkg/audit"
)

const (
	// DefaultLimit is the default number of records to return if not specified.
	DefaultLimit = 100

	// MaxLimit is the maximum number of records that can be returned in a single query.
	MaxLimit = 10000
)

// Sort fields.
const (
	SortRecordedTime = "recorded_time"
	SortLineIndex    = "line_index"
	SortScore        = "score"
)

// ValidSortFields contains the fields that can be used for sorting.
var ValidSortFields = map[string]bool{
	SortRecordedTime: true,
	SortLineIndex:    true,
	SortScore:        true,
}

// ValidSortOrders contains the valid sort orders.
var ValidSortOrders = map[string]bool{
	"asc":  true,
	"desc": true,
}

// Validate validates a query and returns an error if any parameters are invalid.
func Validate(q *audit.Query) error {
	if q.Limit < 0 {
		return audit.NewQueryError(q, fmt.Errorf("limit must be >= 0, got %d", q.Limit))
	}
	if q.Limit > MaxLimit {
		return audit.NewQueryError(q, fmt.Errorf("limit must be <= %d, got %d", MaxLimit, q.Limit))
	}

	if q.Offset < 0 {
		return audit.NewQueryError(q, fmt.Errorf("offset must be >= 0, got %d", q.Offset))
	}

	if q.SortBy != "" && !ValidSortFields[q.SortBy] {
		return audit.NewQueryError(q, fmt.Errorf("invalid sort field: %s", q.SortBy))
	}
	if q.SortOrder != "" && !ValidSortOrders[q.SortOrder] {
		return audit.NewQueryError(q, fmt.Errorf("invalid sort order: %s (must be 'asc' or 'desc')", q.SortOrder))
	}

	if q.StartTime != nil && q.EndTime != nil && q.StartTime.After(*q.EndTime) {
		return audit.NewQueryError(q, fmt.Errorf("start_time must be before end_time"))
	}

	if q.MinScore != nil && (*q.MinScore < 0 || *q.MinScore > 100) {
		return audit.NewQueryError(q, fmt.Errorf("min_score must be within 0..100, got %d", *q.MinScore))
	}
	if q.MaxScore != nil && (*q.MaxScore < 0 || *q.MaxScore > 100) {
		return audit.NewQueryError(q, fmt.Errorf("max_score must be within 0..100, got %d", *q.MaxScore))
	}
	if q.MinScore != nil && q.MaxScore != nil && *q.MinScore > *q.MaxScore {
		return audit.NewQueryError(q, fmt.Errorf("min_score must be <= max_score"))
	}

	return nil
}

// ApplyDefaults fills the limit and sort order used by interactive queries:
// the newest DefaultLimit records first.
func ApplyDefaults(q *audit.Query) {
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.SortBy == "" {
		q.SortBy = SortRecordedTime
	}
	if q.SortOrder == "" {
		q.SortOrder = "desc"
	}
}

// Matches reports whether a record satisfies the filters of q. Pagination
// and sorting are ignored.
func Matches(r *audit.Record, q *audit.Query) bool {
	if q == nil {
		return true
	}

	if q.StartTime != nil && r.RecordedTime.Before(*q.StartTime) {
		return false
	}
	if q.EndTime != nil && r.RecordedTime.After(*q.EndTime) {
		return false
	}

	if q.RunID != "" && r.RunID != q.RunID {
		return false
	}
	if q.Source != "" && r.Source != q.Source {
		return false
	}
	if q.Op != "" && r.Op != q.Op {
		return false
	}
	if q.Grammar != "" && r.Grammar != q.Grammar {
		return false
	}
	if q.Routing != "" && r.Routing != q.Routing {
		return false
	}
	if q.Action != "" && r.Action != q.Action {
		return false
	}
	if q.ErrorCode != "" && !r.HasError(q.ErrorCode) {
		return false
	}
	if q.OK != nil && r.OK != *q.OK {
		return false
	}

	if q.MinScore != nil && (r.Score == nil || *r.Score < *q.MinScore) {
		return false
	}
	if q.MaxScore != nil && (r.Score == nil || *r.Score > *q.MaxScore) {
		return false
	}

	return true
}

// Less orders two records by the given sort field, ascending. An empty
// field sorts by recorded time. Records without a score sort first.
func Less(a, b *audit.Record, sortBy string) bool {
	switch sortBy {
	case SortLineIndex:
		return a.LineIndex < b.LineIndex
	case SortScore:
		switch {
		case a.Score == nil:
			return b.Score != nil
		case b.Score == nil:
			return false
		}
		return *a.Score < *b.Score
	default:
		return a.RecordedTime.Before(b.RecordedTime)
	}
}
