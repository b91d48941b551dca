// Package query validates audit queries and evaluates their filters.
//
// Validate rejects out-of-range pagination, unknown sort fields and inverted
// time or score ranges. Matches and Less give in-memory backends the same
// filter and sort semantics the SQLite backend expresses in SQL.
package query
