package audit

import "fmt"

// StorageError wraps a failure of a storage backend.
type StorageError struct {
	Backend   string // "sqlite" or "memory"
	Operation string // "store", "query", "count", "delete", "ping"
	Cause     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("audit %s %s: %v", e.Backend, e.Operation, e.Cause)
}

func (e *StorageError) Unwrap() error { return e.Cause }

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}

// QueryError reports a query rejected before it reached storage.
type QueryError struct {
	Query *Query
	Cause error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid audit query: %v", e.Cause)
}

func (e *QueryError) Unwrap() error { return e.Cause }

// NewQueryError creates a new QueryError.
func NewQueryError(query *Query, cause error) *QueryError {
	return &QueryError{Query: query, Cause: cause}
}

// RecorderError reports a record the recorder dropped. It names the line so
// callers can tell which line of which run has no audit trail.
type RecorderError struct {
	RecordID  string
	RunID     string
	LineIndex int
	Cause     error
}

func (e *RecorderError) Error() string {
	if e.RunID == "" {
		return fmt.Sprintf("audit record %s dropped: %v", e.RecordID, e.Cause)
	}
	return fmt.Sprintf("audit record for run %s line %d dropped: %v", e.RunID, e.LineIndex, e.Cause)
}

func (e *RecorderError) Unwrap() error { return e.Cause }

// NewRecorderError creates a RecorderError for record.
func NewRecorderError(record *Record, cause error) *RecorderError {
	return &RecorderError{
		RecordID:  record.ID,
		RunID:     record.RunID,
		LineIndex: record.LineIndex,
		Cause:     cause,
	}
}

// RetentionError reports a failed age-based pruning pass.
type RetentionError struct {
	RetentionDays int
	Cause         error
}

func (e *RetentionError) Error() string {
	return fmt.Sprintf("pruning records older than %d days: %v", e.RetentionDays, e.Cause)
}

func (e *RetentionError) Unwrap() error { return e.Cause }

// NewRetentionError creates a new RetentionError.
func NewRetentionError(retentionDays int, cause error) *RetentionError {
	return &RetentionError{RetentionDays: retentionDays, Cause: cause}
}

// ExportError reports a failed export. RecordCount is the number of records
// written before the failure.
type ExportError struct {
	Format      string // "json", "csv" or "cbor"
	RecordCount int
	Cause       error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("%s export failed after %d records: %v", e.Format, e.RecordCount, e.Cause)
}

func (e *ExportError) Unwrap() error { return e.Cause }

// NewExportError creates a new ExportError.
func NewExportError(format string, recordCount int, cause error) *ExportError {
	return &ExportError{Format: format, RecordCount: recordCount, Cause: cause}
}
