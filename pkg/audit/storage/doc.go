// Package storage provides audit.Storage backends.
//
// MemoryStorage keeps records in process and suits tests and short-lived
// servers. SQLiteStorage persists records in a single database file and can
// run on either database/sql driver:
//
//   - "sqlite3": github.com/mattn/go-sqlite3 (cgo)
//   - "sqlite": modernc.org/sqlite (pure Go)
//
// Both backends apply the same filters and ordering, so a query returns the
// same records whichever backend is configured.
package storage
