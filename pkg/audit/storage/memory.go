package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"shimmer-hq/shimmer/pkg/audit"
	"shimmer-hq/shimmer/pkg/audit/query"
)

// ErrClosed is returned by a memory store after Close.
var ErrClosed = errors.New("storage closed")

// MemoryStorage implements audit.Storage in memory. Records are kept in
// insertion order, which breaks ties when sorting.
type MemoryStorage struct {
	records []*audit.Record
	closed  bool
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store persists a copy of record.
func (s *MemoryStorage) Store(ctx context.Context, record *audit.Record) error {
	if err := ctx.Err(); err != nil {
		return audit.NewStorageError("memory", "store", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return audit.NewStorageError("memory", "store", ErrClosed)
	}

	s.records = append(s.records, copyRecord(record))
	return nil
}

// Query retrieves records matching the query filters.
func (s *MemoryStorage) Query(ctx context.Context, q *audit.Query) ([]*audit.Record, error) {
	if q == nil {
		q = &audit.Query{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, audit.NewStorageError("memory", "query", ErrClosed)
	}

	return s.selectLocked(q), nil
}

// QueryStream streams matching records over a channel.
func (s *MemoryStorage) QueryStream(ctx context.Context, q *audit.Query) (<-chan *audit.Record, <-chan error, error) {
	records, err := s.Query(ctx, q)
	if err != nil {
		return nil, nil, err
	}

	recordsCh := make(chan *audit.Record, 100)
	errCh := make(chan error, 1)

	go func() {
		defer close(recordsCh)
		defer close(errCh)

		for _, record := range records {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case recordsCh <- record:
			}
		}
	}()

	return recordsCh, errCh, nil
}

// Count returns the number of records matching the query filters.
// Pagination is ignored.
func (s *MemoryStorage) Count(ctx context.Context, q *audit.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, audit.NewStorageError("memory", "count", ErrClosed)
	}

	var count int64
	for _, record := range s.records {
		if query.Matches(record, q) {
			count++
		}
	}
	return count, nil
}

// Delete removes records matching the query filters. Pagination is ignored.
func (s *MemoryStorage) Delete(ctx context.Context, q *audit.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, audit.NewStorageError("memory", "delete", ErrClosed)
	}

	kept := s.records[:0]
	var deleted int64
	for _, record := range s.records {
		if query.Matches(record, q) {
			deleted++
			continue
		}
		kept = append(kept, record)
	}
	clear(s.records[len(kept):])
	s.records = kept

	return deleted, nil
}

// Ping reports whether the store is still open.
func (s *MemoryStorage) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return audit.NewStorageError("memory", "ping", ErrClosed)
	}
	return nil
}

// Close drops every record. Later calls fail with ErrClosed.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.closed = true
	return nil
}

// Size returns the total number of stored records.
func (s *MemoryStorage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// GetByID returns a copy of the record with the given ID, or nil.
func (s *MemoryStorage) GetByID(id string) *audit.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, record := range s.records {
		if record.ID == id {
			return copyRecord(record)
		}
	}
	return nil
}

func (s *MemoryStorage) selectLocked(q *audit.Query) []*audit.Record {
	results := make([]*audit.Record, 0)
	for _, record := range s.records {
		if query.Matches(record, q) {
			results = append(results, copyRecord(record))
		}
	}

	if q.SortBy != "" || q.SortOrder != "" {
		desc := q.SortOrder == "desc"
		sort.SliceStable(results, func(i, j int) bool {
			if desc {
				return query.Less(results[j], results[i], q.SortBy)
			}
			return query.Less(results[i], results[j], q.SortBy)
		})
	}

	if q.Offset >= len(results) {
		return []*audit.Record{}
	}
	results = results[q.Offset:]
	if q.Limit > 0 && q.Limit < len(results) {
		results = results[:q.Limit]
	}
	return results
}

func copyRecord(r *audit.Record) *audit.Record {
	c := *r
	c.Errors = append([]string(nil), r.Errors...)
	c.Warnings = append([]string(nil), r.Warnings...)
	c.Issues = append([]string(nil), r.Issues...)
	if r.Score != nil {
		v := *r.Score
		c.Score = &v
	}
	if r.ParityT9 != nil {
		v := *r.ParityT9
		c.ParityT9 = &v
	}
	if r.ParityP2B != nil {
		v := *r.ParityP2B
		c.ParityP2B = &v
	}
	return &c
}
