// Package retention removes old audit records.
//
// A Pruner deletes records older than RetentionDays and then the oldest
// records beyond MaxRecords, optionally archiving them as JSON first. A
// Scheduler runs the pruner on a cron schedule for long-lived servers;
// `shimmer audit prune` runs it once.
package retention
