package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"shimmer-hq/shimmer/pkg/audit"
	"shimmer-hq/shimmer/pkg/audit/query"
)

// Driver names registered with database/sql.
const (
	// DriverCGO is github.com/mattn/go-sqlite3.
	DriverCGO = "sqlite3"

	// DriverPureGo is modernc.org/sqlite.
	DriverPureGo = "sqlite"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Driver selects the database/sql driver: DriverCGO or DriverPureGo.
	// Default: DriverCGO
	Driver string

	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Driver:       DriverCGO,
		Path:         "data/audit.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements audit.Storage using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens (creating if needed) the database at config.Path
// and ensures the schema exists.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Driver == "" {
		config.Driver = DriverCGO
	}
	if config.MaxOpenConns <= 0 {
		config.MaxOpenConns = 10
	}

	logger := slog.Default().With("component", "audit.storage.sqlite")

	db, err := sql.Open(config.Driver, dsn(config))
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite storage initialized",
		"driver", config.Driver,
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// dsn builds a data source name carrying the journal mode and busy timeout
// so that every pooled connection gets them. The two drivers spell
// connection pragmas differently.
func dsn(config *SQLiteConfig) string {
	busy := config.BusyTimeout.Milliseconds()
	params := url.Values{}

	switch config.Driver {
	case DriverPureGo:
		params.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busy))
		if config.WALMode {
			params.Add("_pragma", "journal_mode(WAL)")
		}
	default:
		params.Set("_busy_timeout", fmt.Sprintf("%d", busy))
		if config.WALMode {
			params.Set("_journal_mode", "WAL")
		}
	}

	return "file:" + config.Path + "?" + params.Encode()
}

func (s *SQLiteStorage) initialize() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return audit.NewStorageError("sqlite", "create_schema", err)
	}
	s.logger.Debug("database schema created")

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return audit.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return audit.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return audit.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)
	return nil
}

// Store persists a record.
func (s *SQLiteStorage) Store(ctx context.Context, record *audit.Record) error {
	errorsJSON, err := marshalList(record.Errors)
	if err != nil {
		return audit.NewStorageError("sqlite", "store", err)
	}
	warningsJSON, err := marshalList(record.Warnings)
	if err != nil {
		return audit.NewStorageError("sqlite", "store", err)
	}
	issuesJSON, err := marshalList(record.Issues)
	if err != nil {
		return audit.NewStorageError("sqlite", "store", err)
	}

	_, err = s.db.ExecContext(ctx, insertRecord,
		record.ID, record.RunID, record.LineIndex, record.Source, record.Op, record.LineHash, record.Grammar,
		record.Routing, record.Action,
		record.OK, errorsJSON, warningsJSON,
		nullInt(record.Score), issuesJSON,
		nullInt(record.ParityT9), nullInt(record.ParityP2B),
		record.RecordedTime.UnixNano(),
	)
	if err != nil {
		return audit.NewStorageError("sqlite", "store", err)
	}

	return nil
}

// Query retrieves records matching the query filters.
func (s *SQLiteStorage) Query(ctx context.Context, q *audit.Query) ([]*audit.Record, error) {
	if q == nil {
		q = &audit.Query{}
	}
	sqlQuery, args := s.buildSelect(q)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	records := []*audit.Record{}
	for rows.Next() {
		record, err := scanRow(rows)
		if err != nil {
			return nil, audit.NewStorageError("sqlite", "scan", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, audit.NewStorageError("sqlite", "query", err)
	}

	return records, nil
}

// QueryStream streams matching records over a channel, reading rows as the
// consumer receives them.
func (s *SQLiteStorage) QueryStream(ctx context.Context, q *audit.Query) (<-chan *audit.Record, <-chan error, error) {
	if q == nil {
		q = &audit.Query{}
	}
	sqlQuery, args := s.buildSelect(q)

	recordsCh := make(chan *audit.Record, 100)
	errCh := make(chan error, 1)

	go func() {
		defer close(recordsCh)
		defer close(errCh)

		rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
		if err != nil {
			errCh <- audit.NewStorageError("sqlite", "query_stream", err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			record, err := scanRow(rows)
			if err != nil {
				errCh <- audit.NewStorageError("sqlite", "scan", err)
				return
			}

			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case recordsCh <- record:
			}
		}

		if err := rows.Err(); err != nil {
			errCh <- audit.NewStorageError("sqlite", "query_stream", err)
		}
	}()

	return recordsCh, errCh, nil
}

// Count returns the number of records matching the query filters.
func (s *SQLiteStorage) Count(ctx context.Context, q *audit.Query) (int64, error) {
	where, args := buildWhereClause(q)

	sqlQuery := "SELECT COUNT(*) FROM audit_records"
	if where != "" {
		sqlQuery += " WHERE " + where
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, audit.NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// Delete removes records matching the query filters.
func (s *SQLiteStorage) Delete(ctx context.Context, q *audit.Query) (int64, error) {
	where, args := buildWhereClause(q)

	sqlQuery := "DELETE FROM audit_records"
	if where != "" {
		sqlQuery += " WHERE " + where
	}

	result, err := s.db.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return 0, audit.NewStorageError("sqlite", "delete", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, audit.NewStorageError("sqlite", "delete", err)
	}
	return count, nil
}

// Ping verifies the database connection.
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return audit.NewStorageError("sqlite", "ping", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return audit.NewStorageError("sqlite", "close", err)
	}

	s.logger.Info("SQLite storage closed")
	return nil
}

// buildSelect builds the SELECT statement for a query including order and
// pagination. Ties fall back to insertion order.
func (s *SQLiteStorage) buildSelect(q *audit.Query) (string, []any) {
	where, args := buildWhereClause(q)

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(selectColumns)
	b.WriteString(" FROM audit_records")
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}

	if q.SortBy != "" || q.SortOrder != "" {
		column := "recorded_time"
		switch q.SortBy {
		case query.SortLineIndex:
			column = "line_index"
		case query.SortScore:
			column = "score"
		}
		order := "ASC"
		if q.SortOrder == "desc" {
			order = "DESC"
		}
		fmt.Fprintf(&b, " ORDER BY %s %s, rowid ASC", column, order)
	} else {
		b.WriteString(" ORDER BY rowid ASC")
	}

	switch {
	case q.Limit > 0:
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	case q.Offset > 0:
		b.WriteString(" LIMIT -1")
	}
	if q.Offset > 0 {
		fmt.Fprintf(&b, " OFFSET %d", q.Offset)
	}

	return b.String(), args
}

// buildWhereClause builds a SQL WHERE clause from query filters.
// Returns the clause (without "WHERE") and its arguments.
func buildWhereClause(q *audit.Query) (string, []any) {
	if q == nil {
		return "", nil
	}

	var conditions []string
	var args []any

	add := func(cond string, arg any) {
		conditions = append(conditions, cond)
		args = append(args, arg)
	}

	if q.StartTime != nil {
		add("recorded_time >= ?", q.StartTime.UnixNano())
	}
	if q.EndTime != nil {
		add("recorded_time <= ?", q.EndTime.UnixNano())
	}

	if q.RunID != "" {
		add("run_id = ?", q.RunID)
	}
	if q.Source != "" {
		add("source = ?", q.Source)
	}
	if q.Op != "" {
		add("op = ?", q.Op)
	}
	if q.Grammar != "" {
		add("grammar = ?", q.Grammar)
	}
	if q.Routing != "" {
		add("routing = ?", q.Routing)
	}
	if q.Action != "" {
		add("action = ?", q.Action)
	}
	if q.ErrorCode != "" {
		add("EXISTS (SELECT 1 FROM json_each(audit_records.errors) WHERE json_each.value = ?)", q.ErrorCode)
	}
	if q.OK != nil {
		add("ok = ?", *q.OK)
	}

	if q.MinScore != nil {
		add("score >= ?", *q.MinScore)
	}
	if q.MaxScore != nil {
		add("score <= ?", *q.MaxScore)
	}

	return strings.Join(conditions, " AND "), args
}

func scanRow(rows *sql.Rows) (*audit.Record, error) {
	var record audit.Record
	var errorsJSON, warningsJSON, issuesJSON string
	var score, parityT9, parityP2B sql.NullInt64
	var recorded int64

	err := rows.Scan(
		&record.ID, &record.RunID, &record.LineIndex, &record.Source, &record.Op, &record.LineHash, &record.Grammar,
		&record.Routing, &record.Action,
		&record.OK, &errorsJSON, &warningsJSON,
		&score, &issuesJSON,
		&parityT9, &parityP2B,
		&recorded,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(errorsJSON), &record.Errors); err != nil {
		return nil, fmt.Errorf("decode errors: %w", err)
	}
	if err := json.Unmarshal([]byte(warningsJSON), &record.Warnings); err != nil {
		return nil, fmt.Errorf("decode warnings: %w", err)
	}
	if err := json.Unmarshal([]byte(issuesJSON), &record.Issues); err != nil {
		return nil, fmt.Errorf("decode issues: %w", err)
	}

	record.Score = intFromNull(score)
	record.ParityT9 = intFromNull(parityT9)
	record.ParityP2B = intFromNull(parityP2B)
	record.RecordedTime = time.Unix(0, recorded)

	return &record, nil
}

func marshalList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	return string(data), err
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intFromNull(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
