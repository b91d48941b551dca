package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"shimmer-hq/shimmer/pkg/audit"
)

// CSVExporter exports audit records as CSV. List columns join their codes
// with ";"; absent scores and parities are empty cells.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{
		IncludeHeader: includeHeader,
	}
}

// Header is the CSV column order.
var Header = []string{
	"id", "run_id", "line_index", "source", "op", "line_hash", "grammar",
	"routing", "action", "ok", "errors", "warnings",
	"score", "issues", "parity_t9", "parity_p2b", "recorded_time",
}

// Export writes records to w in CSV format.
func (e *CSVExporter) Export(ctx context.Context, records []*audit.Record, w io.Writer) error {
	writer := csv.NewWriter(w)

	if e.IncludeHeader {
		if err := writer.Write(Header); err != nil {
			return audit.NewExportError("csv", len(records), err)
		}
	}

	for _, record := range records {
		if err := writer.Write(recordToRow(record)); err != nil {
			return audit.NewExportError("csv", len(records), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return audit.NewExportError("csv", len(records), err)
	}
	return nil
}

// ExportStream writes records from a channel in CSV format, flushing every
// 100 rows.
func (e *CSVExporter) ExportStream(ctx context.Context, recordsCh <-chan *audit.Record, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		if err := writer.Write(Header); err != nil {
			return audit.NewExportError("csv", 0, err)
		}
	}

	recordCount := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case record, ok := <-recordsCh:
			if !ok {
				writer.Flush()
				if err := writer.Error(); err != nil {
					return audit.NewExportError("csv", recordCount, err)
				}
				return nil
			}

			if err := writer.Write(recordToRow(record)); err != nil {
				return audit.NewExportError("csv", recordCount, err)
			}

			recordCount++
			if recordCount%100 == 0 {
				writer.Flush()
				if err := writer.Error(); err != nil {
					return audit.NewExportError("csv", recordCount, err)
				}
			}
		}
	}
}

func recordToRow(r *audit.Record) []string {
	optInt := func(v *int) string {
		if v == nil {
			return ""
		}
		return strconv.Itoa(*v)
	}

	recorded := ""
	if !r.RecordedTime.IsZero() {
		recorded = r.RecordedTime.UTC().Format(time.RFC3339Nano)
	}

	return []string{
		r.ID,
		r.RunID,
		strconv.Itoa(r.LineIndex),
		r.Source,
		r.Op,
		r.LineHash,
		r.Grammar,
		r.Routing,
		r.Action,
		strconv.FormatBool(r.OK),
		strings.Join(r.Errors, ";"),
		strings.Join(r.Warnings, ";"),
		optInt(r.Score),
		strings.Join(r.Issues, ";"),
		optInt(r.ParityT9),
		optInt(r.ParityP2B),
		recorded,
	}
}
