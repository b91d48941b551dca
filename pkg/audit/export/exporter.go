package export

import (
	"fmt"

	"shimmer-hq/shimmer/pkg/audit"
	"shimmer-hq/shimmer/pkg/config"
)

// Formats accepted by New.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatCBOR = "cbor"
)

// Formats lists the supported export formats.
func Formats() []string {
	return []string{FormatJSON, FormatCSV, FormatCBOR}
}

// New returns the exporter for format, configured from cfg.
func New(format string, cfg config.ExportConfig) (audit.Exporter, error) {
	switch format {
	case FormatJSON:
		return NewJSONExporter(cfg.JSONPretty), nil
	case FormatCSV:
		return NewCSVExporter(cfg.CSVIncludeHeader), nil
	case FormatCBOR:
		return NewCBORExporter(cfg.CBORCompress), nil
	default:
		return nil, fmt.Errorf("unknown export format %q (must be one of %v)", format, Formats())
	}
}
