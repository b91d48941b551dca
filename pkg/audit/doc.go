// Package audit keeps a trail of every line the codec processes.
//
// A Record holds the verdict for one line: its hash, grammar version,
// routing and action, error and warning codes, lint score and parity. The
// line text itself is never stored.
//
// Subpackages:
//
//   - storage: memory and SQLite backends implementing Storage
//   - recorder: asynchronous writer used by the CLI and HTTP server
//   - query: query validation and defaults
//   - export: JSON, CSV and CBOR exporters
//   - retention: age and count based pruning on a cron schedule
//
// Records are written asynchronously so that auditing never blocks line
// processing. When the recorder's buffer stays full for longer than the
// configured write timeout the record is dropped and counted in the
// audit_records_total{result="dropped"} metric.
package audit
