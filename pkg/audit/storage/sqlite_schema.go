package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the audit tables. Times are stored as Unix nanoseconds so
// both drivers round-trip them identically; list columns hold JSON arrays.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_records (
    id TEXT PRIMARY KEY,
    run_id TEXT NOT NULL,
    line_index INTEGER NOT NULL,
    source TEXT NOT NULL,
    op TEXT NOT NULL,
    line_hash TEXT NOT NULL,
    grammar TEXT NOT NULL,

    -- Container
    routing TEXT NOT NULL DEFAULT '',
    action TEXT NOT NULL DEFAULT '',

    -- Verdict
    ok INTEGER NOT NULL,
    errors TEXT NOT NULL DEFAULT '[]',
    warnings TEXT NOT NULL DEFAULT '[]',

    -- Lint
    score INTEGER,
    issues TEXT NOT NULL DEFAULT '[]',

    -- Parity
    parity_t9 INTEGER,
    parity_p2b INTEGER,

    recorded_time INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_recorded_time ON audit_records(recorded_time);
CREATE INDEX IF NOT EXISTS idx_audit_run_id ON audit_records(run_id);
CREATE INDEX IF NOT EXISTS idx_audit_source ON audit_records(source);
CREATE INDEX IF NOT EXISTS idx_audit_ok ON audit_records(ok);
CREATE INDEX IF NOT EXISTS idx_audit_score ON audit_records(score);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const insertRecord = `
INSERT INTO audit_records (
    id, run_id, line_index, source, op, line_hash, grammar,
    routing, action,
    ok, errors, warnings,
    score, issues,
    parity_t9, parity_p2b,
    recorded_time
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const selectColumns = `id, run_id, line_index, source, op, line_hash, grammar,
    routing, action, ok, errors, warnings, score, issues,
    parity_t9, parity_p2b, recorded_time`
