package export

import (
	"context"
	"encoding/json"
	"io"

	"shimmer-hq/shimmer/pkg/audit"
)

// JSONExporter exports audit records as a JSON array.
type JSONExporter struct {
	// Pretty enables pretty-printing with indentation.
	Pretty bool
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{
		Pretty: pretty,
	}
}

// Export writes records as a JSON array. An empty slice writes "[]".
func (e *JSONExporter) Export(ctx context.Context, records []*audit.Record, w io.Writer) error {
	if records == nil {
		records = []*audit.Record{}
	}

	var data []byte
	var err error
	if e.Pretty {
		data, err = json.MarshalIndent(records, "", "  ")
	} else {
		data, err = json.Marshal(records)
	}
	if err != nil {
		return audit.NewExportError("json", len(records), err)
	}

	if _, err := w.Write(data); err != nil {
		return audit.NewExportError("json", len(records), err)
	}
	return nil
}

// ExportStream writes records from a channel as a JSON array, one record
// at a time.
func (e *JSONExporter) ExportStream(ctx context.Context, recordsCh <-chan *audit.Record, w io.Writer) error {
	if _, err := io.WriteString(w, "["); err != nil {
		return audit.NewExportError("json", 0, err)
	}

	recordCount := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case record, ok := <-recordsCh:
			if !ok {
				closing := "]"
				if e.Pretty && recordCount > 0 {
					closing = "\n]"
				}
				if _, err := io.WriteString(w, closing); err != nil {
					return audit.NewExportError("json", recordCount, err)
				}
				return nil
			}

			sep := ""
			switch {
			case recordCount > 0 && e.Pretty:
				sep = ",\n  "
			case recordCount > 0:
				sep = ","
			case e.Pretty:
				sep = "\n  "
			}
			if _, err := io.WriteString(w, sep); err != nil {
				return audit.NewExportError("json", recordCount, err)
			}

			data, err := e.serializeRecord(record)
			if err != nil {
				return audit.NewExportError("json", recordCount, err)
			}
			if _, err := w.Write(data); err != nil {
				return audit.NewExportError("json", recordCount, err)
			}

			recordCount++
		}
	}
}

func (e *JSONExporter) serializeRecord(record *audit.Record) ([]byte, error) {
	if e.Pretty {
		return json.MarshalIndent(record, "  ", "  ")
	}
	return json.Marshal(record)
}
