package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"shimmer-hq/shimmer/pkg/audit"
	"shimmer-hq/shimmer/pkg/audit/export"
	"shimmer-hq/shimmer/pkg/audit/query"
	"shimmer-hq/shimmer/pkg/audit/retention"
	"shimmer-hq/shimmer/pkg/audit/storage"
	"shimmer-hq/shimmer/pkg/cli"
	"shimmer-hq/shimmer/pkg/config"
)

var auditFlags struct {
	timeRange string
	since     time.Duration
	run       string
	source    string
	op        string
	grammar   string
	routing   string
	action    string
	errorCode string
	ok        string
	minScore  int
	maxScore  int
	limit     int
	offset    int
	sortBy    string
	order     string
	output    string

	queryFormat  string
	exportFormat string

	archive    string
	days       int
	maxRecords int64
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Query, export and prune the audit trail",
	Long: `Query, export and prune the audit trail.

When audit.enabled is set, every line checked by validate, lint or the
HTTP API is recorded with its verdict, diagnostic codes, lint score and
parity. Records are read from the backend configured under audit.

Subcommands:
  query   - Query audit records with filters
  export  - Export matching records as JSON, CSV or CBOR
  report  - Summarize matching records
  prune   - Apply the retention policy once`,
}

var auditQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query audit records",
	Long: `Query audit records with filters.

Time Range Format:
  RFC3339 interval format: "start/end"
  Example: "2026-10-16T00:00:00Z/2026-10-17T00:00:00Z"

Examples:
  # Failed lines of the last day
  shimmer audit query --ok=false --since 24h

  # Lines of one run that hit a code
  shimmer audit query --run 6f1c... --error-code vector_out_of_range

  # Low lint scores as JSON
  shimmer audit query --max-score 70 --format json`,
	Args: cobra.NoArgs,
	RunE: queryAudit,
}

var auditExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export audit records",
	Long: `Export every matching record, oldest first.

Formats:
  json  - a JSON array
  csv   - one row per record, list fields joined with ";"
  cbor  - a CBOR sequence, zstd-compressed when audit.export.cbor_compress is set

Examples:
  shimmer audit export --format csv --output audit.csv
  shimmer audit export --format cbor --since 168h --output week.cbor`,
	Args: cobra.NoArgs,
	RunE: exportAudit,
}

var auditReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize audit records",
	Long:  `Summarize matching records: totals, failure rate, lint scores and the most frequent diagnostic codes.`,
	Args:  cobra.NoArgs,
	RunE:  reportAudit,
}

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Apply the retention policy once",
	Long: `Delete records older than audit.retention.days, then the oldest records
beyond audit.retention.max_records.

Examples:
  shimmer audit prune
  shimmer audit prune --days 7 --archive /var/lib/shimmer/archive`,
	Args: cobra.NoArgs,
	RunE: pruneAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditQueryCmd, auditExportCmd, auditReportCmd, auditPruneCmd)

	for _, c := range []*cobra.Command{auditQueryCmd, auditExportCmd, auditReportCmd} {
		c.Flags().StringVar(&auditFlags.timeRange, "time-range", "", "time range (RFC3339 interval: start/end)")
		c.Flags().DurationVar(&auditFlags.since, "since", 0, "only records newer than this (e.g. 24h)")
		c.Flags().StringVar(&auditFlags.run, "run", "", "filter by run ID")
		c.Flags().StringVar(&auditFlags.source, "source", "", "filter by source (cli, http)")
		c.Flags().StringVar(&auditFlags.op, "op", "", "filter by operation (validate, lint)")
		c.Flags().StringVar(&auditFlags.grammar, "grammar-version", "", "filter by grammar version")
		c.Flags().StringVar(&auditFlags.routing, "routing", "", "filter by routing prefix")
		c.Flags().StringVar(&auditFlags.action, "action", "", "filter by action code")
		c.Flags().StringVar(&auditFlags.errorCode, "error-code", "", "filter by error code")
		c.Flags().StringVar(&auditFlags.ok, "ok", "", "filter by verdict (true or false)")
		c.Flags().IntVar(&auditFlags.minScore, "min-score", -1, "minimum lint score")
		c.Flags().IntVar(&auditFlags.maxScore, "max-score", -1, "maximum lint score")
	}

	auditQueryCmd.Flags().IntVar(&auditFlags.limit, "limit", query.DefaultLimit, "max results")
	auditQueryCmd.Flags().IntVar(&auditFlags.offset, "offset", 0, "pagination offset")
	auditQueryCmd.Flags().StringVar(&auditFlags.sortBy, "sort-by", query.SortRecordedTime, "sort field: recorded_time, line_index, score")
	auditQueryCmd.Flags().StringVar(&auditFlags.order, "order", "desc", "sort order: asc or desc")
	auditQueryCmd.Flags().StringVar(&auditFlags.queryFormat, "format", "text", "output format: text or json")
	auditQueryCmd.Flags().StringVarP(&auditFlags.output, "output", "o", "", "output file (default: stdout)")

	auditExportCmd.Flags().StringVar(&auditFlags.exportFormat, "format", export.FormatJSON, "export format: json, csv or cbor")
	auditExportCmd.Flags().StringVarP(&auditFlags.output, "output", "o", "", "output file (default: stdout)")

	auditPruneCmd.Flags().StringVar(&auditFlags.archive, "archive", "", "directory to archive deleted records to")
	auditPruneCmd.Flags().IntVar(&auditFlags.days, "days", -1, "override audit.retention.days")
	auditPruneCmd.Flags().Int64Var(&auditFlags.maxRecords, "max-records", -1, "override audit.retention.max_records")
}

// openAuditStore opens the configured backend whether or not recording is
// enabled, so past records stay readable.
func openAuditStore(cmd *cobra.Command) (*config.Config, audit.Storage, error) {
	a, err := newApp(cmd, appOptions{})
	if err != nil {
		return nil, nil, err
	}
	cfg := a.config

	if cfg.Audit.Backend == "memory" {
		slog.Warn("audit backend is memory, no records persist between runs")
	}

	store, err := storage.New(cfg.Audit)
	if err != nil {
		return nil, nil, cli.NewCommandError("audit", fmt.Errorf("failed to open audit storage: %w", err))
	}
	return cfg, store, nil
}

// buildQuery turns the filter flags into a query.
func buildQuery() (*audit.Query, error) {
	q := &audit.Query{
		RunID:     auditFlags.run,
		Source:    auditFlags.source,
		Op:        auditFlags.op,
		Grammar:   auditFlags.grammar,
		Routing:   auditFlags.routing,
		Action:    auditFlags.action,
		ErrorCode: auditFlags.errorCode,
	}

	if auditFlags.timeRange != "" {
		start, end, err := parseTimeRange(auditFlags.timeRange)
		if err != nil {
			return nil, cli.NewConfigError("--time-range", err.Error())
		}
		q.StartTime, q.EndTime = &start, &end
	}
	if auditFlags.since > 0 {
		start := time.Now().Add(-auditFlags.since)
		if q.StartTime == nil || start.After(*q.StartTime) {
			q.StartTime = &start
		}
	}

	if auditFlags.ok != "" {
		ok, err := strconv.ParseBool(auditFlags.ok)
		if err != nil {
			return nil, cli.NewConfigError("--ok", fmt.Sprintf("must be true or false, got %q", auditFlags.ok))
		}
		q.OK = &ok
	}
	if auditFlags.minScore >= 0 {
		v := auditFlags.minScore
		q.MinScore = &v
	}
	if auditFlags.maxScore >= 0 {
		v := auditFlags.maxScore
		q.MaxScore = &v
	}

	return q, nil
}

func parseTimeRange(s string) (time.Time, time.Time, error) {
	startText, endText, found := strings.Cut(s, "/")
	if !found {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid time range format (expected: start/end)")
	}

	start, err := time.Parse(time.RFC3339, startText)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start time: %w", err)
	}
	end, err := time.Parse(time.RFC3339, endText)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end time: %w", err)
	}
	return start, end, nil
}

func queryAudit(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(auditFlags.queryFormat, cli.FormatText, cli.FormatJSON)
	if err != nil {
		return cli.NewConfigError("--format", err.Error())
	}

	q, err := buildQuery()
	if err != nil {
		return err
	}
	q.Limit = auditFlags.limit
	q.Offset = auditFlags.offset
	q.SortBy = auditFlags.sortBy
	q.SortOrder = auditFlags.order
	query.ApplyDefaults(q)
	if err := query.Validate(q); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	_, store, err := openAuditStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := commandContext(cmd)
	records, err := store.Query(ctx, q)
	if err != nil {
		return cli.NewCommandError("audit", fmt.Errorf("query failed: %w", err))
	}
	total, err := store.Count(ctx, q)
	if err != nil {
		return cli.NewCommandError("audit", fmt.Errorf("count failed: %w", err))
	}

	out, err := openOutput(cmd, auditFlags.output)
	if err != nil {
		return cli.NewCommandError("audit", err)
	}
	defer out.Close()

	if format == cli.FormatJSON {
		return outputAuditJSON(out, records, total)
	}
	return outputAuditText(out, records, total, q)
}

func outputAuditJSON(w io.Writer, records []*audit.Record, total int64) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if records == nil {
		records = []*audit.Record{}
	}
	return encoder.Encode(map[string]any{
		"total_records": total,
		"records":       records,
	})
}

func outputAuditText(w io.Writer, records []*audit.Record, total int64, q *audit.Query) error {
	if q.StartTime != nil && q.EndTime != nil {
		fmt.Fprintf(w, "Time range: %s to %s\n", q.StartTime.Format(time.RFC3339), q.EndTime.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "Matching records: %d (showing %d)\n", total, len(records))

	if len(records) == 0 {
		fmt.Fprintln(w, "No records found.")
		return nil
	}
	fmt.Fprintln(w)

	for _, r := range records {
		verdict := "ok"
		if !r.OK {
			verdict = "FAIL"
		}
		fmt.Fprintf(w, "%s  %s #%d  %-4s %-8s %-4s %s%s",
			r.RecordedTime.Format(time.RFC3339), shortID(r.RunID), r.LineIndex+1,
			r.Source, r.Op, verdict, r.Routing, r.Action)
		if r.Score != nil {
			fmt.Fprintf(w, "  score=%d", *r.Score)
		}
		if len(r.Errors) > 0 {
			fmt.Fprintf(w, "  errors=%s", strings.Join(r.Errors, ","))
		}
		if len(r.Warnings) > 0 {
			fmt.Fprintf(w, "  warnings=%s", strings.Join(r.Warnings, ","))
		}
		fmt.Fprintln(w)
	}

	if int64(q.Offset+len(records)) < total {
		fmt.Fprintf(w, "\n... %d more records. Use --limit and --offset for pagination.\n", total-int64(q.Offset+len(records)))
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func exportAudit(cmd *cobra.Command, args []string) error {
	q, err := buildQuery()
	if err != nil {
		return err
	}
	q.SortBy = query.SortRecordedTime
	q.SortOrder = "asc"
	if err := query.Validate(q); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	cfg, store, err := openAuditStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	exporter, err := export.New(auditFlags.exportFormat, cfg.Audit.Export)
	if err != nil {
		return cli.NewConfigError("--format", err.Error())
	}

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	recordsCh, errCh, err := store.QueryStream(ctx, q)
	if err != nil {
		return cli.NewCommandError("audit", fmt.Errorf("query failed: %w", err))
	}

	out, err := openOutput(cmd, auditFlags.output)
	if err != nil {
		return cli.NewCommandError("audit", err)
	}
	defer out.Close()

	if err := exporter.ExportStream(ctx, recordsCh, out); err != nil {
		cancel()
		return cli.NewCommandError("audit", err)
	}
	if err := <-errCh; err != nil {
		return cli.NewCommandError("audit", fmt.Errorf("query failed: %w", err))
	}
	return nil
}

// auditSummary aggregates a set of records.
type auditSummary struct {
	Total      int            `json:"total"`
	Failed     int            `json:"failed"`
	ByOp       map[string]int `json:"by_op"`
	BySource   map[string]int `json:"by_source"`
	ErrorCodes map[string]int `json:"error_codes"`
	Scored     int            `json:"scored"`
	MeanScore  float64        `json:"mean_score"`
	scoreTotal int
}

func summarize(records <-chan *audit.Record) *auditSummary {
	s := &auditSummary{
		ByOp:       make(map[string]int),
		BySource:   make(map[string]int),
		ErrorCodes: make(map[string]int),
	}
	for r := range records {
		s.Total++
		if !r.OK {
			s.Failed++
		}
		s.ByOp[r.Op]++
		s.BySource[r.Source]++
		for _, code := range r.Errors {
			s.ErrorCodes[code]++
		}
		if r.Score != nil {
			s.Scored++
			s.scoreTotal += *r.Score
		}
	}
	if s.Scored > 0 {
		s.MeanScore = float64(s.scoreTotal) / float64(s.Scored)
	}
	return s
}

func reportAudit(cmd *cobra.Command, args []string) error {
	q, err := buildQuery()
	if err != nil {
		return err
	}
	if err := query.Validate(q); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	_, store, err := openAuditStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	recordsCh, errCh, err := store.QueryStream(commandContext(cmd), q)
	if err != nil {
		return cli.NewCommandError("audit", fmt.Errorf("query failed: %w", err))
	}
	s := summarize(recordsCh)
	if err := <-errCh; err != nil {
		return cli.NewCommandError("audit", fmt.Errorf("query failed: %w", err))
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Shimmer Audit Report")
	fmt.Fprintln(w, "====================")
	if q.StartTime != nil {
		fmt.Fprintf(w, "Since: %s\n", q.StartTime.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "Generated: %s\n\n", time.Now().Format(time.RFC3339))

	fmt.Fprintf(w, "Lines: %d\n", s.Total)
	if s.Total > 0 {
		fmt.Fprintf(w, "Failed: %d (%.1f%%)\n", s.Failed, float64(s.Failed)/float64(s.Total)*100)
	}
	if s.Scored > 0 {
		fmt.Fprintf(w, "Mean lint score: %.1f over %d lines\n", s.MeanScore, s.Scored)
	}

	writeCounts(w, "By operation", s.ByOp)
	writeCounts(w, "By source", s.BySource)
	writeCounts(w, "Error codes", s.ErrorCodes)
	return nil
}

// writeCounts prints counts, most frequent first.
func writeCounts(w io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	fmt.Fprintf(w, "\n%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-28s %d\n", k, counts[k])
	}
}

func pruneAudit(cmd *cobra.Command, args []string) error {
	cfg, store, err := openAuditStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	retentionCfg := retention.FromConfig(cfg.Audit.Retention)
	retentionCfg.ArchiveDir = auditFlags.archive
	if auditFlags.days >= 0 {
		retentionCfg.RetentionDays = auditFlags.days
	}
	if auditFlags.maxRecords >= 0 {
		retentionCfg.MaxRecords = auditFlags.maxRecords
	}

	deleted, err := retention.NewPruner(store, retentionCfg, nil).Prune(commandContext(cmd))
	if err != nil {
		return cli.NewCommandError("audit", fmt.Errorf("prune failed: %w", err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Pruned %d records\n", deleted)
	return nil
}
