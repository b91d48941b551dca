package export

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"

	"shimmer-hq/shimmer/pkg/audit"
)

// encMode uses Core Deterministic Encoding (RFC 8949 §4.2) so the same
// records always produce identical bytes. Times are tagged RFC 3339 text
// with nanoseconds.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	encOptions.Time = cbor.TimeRFC3339Nano
	encOptions.TimeTag = cbor.EncTagRequired
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("export: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("export: CBOR decoder initialization failed: " + err.Error())
	}
}

// CBORExporter writes records as a CBOR sequence (RFC 8742): one encoded
// record after another with no enclosing array. Records use integer keys.
// With Compress set the sequence is wrapped in a single zstd frame.
type CBORExporter struct {
	Compress bool
}

// NewCBORExporter creates a new CBOR exporter.
func NewCBORExporter(compress bool) *CBORExporter {
	return &CBORExporter{Compress: compress}
}

// Export writes records to w.
func (e *CBORExporter) Export(ctx context.Context, records []*audit.Record, w io.Writer) error {
	ch := make(chan *audit.Record, len(records))
	for _, r := range records {
		ch <- r
	}
	close(ch)
	return e.ExportStream(ctx, ch, w)
}

// ExportStream encodes records from a channel as they arrive.
func (e *CBORExporter) ExportStream(ctx context.Context, recordsCh <-chan *audit.Record, w io.Writer) (err error) {
	out := w
	if e.Compress {
		zw, zerr := zstd.NewWriter(w)
		if zerr != nil {
			return audit.NewExportError("cbor", 0, zerr)
		}
		defer func() {
			if cerr := zw.Close(); cerr != nil && err == nil {
				err = audit.NewExportError("cbor", 0, cerr)
			}
		}()
		out = zw
	}

	enc := encMode.NewEncoder(out)
	recordCount := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case record, ok := <-recordsCh:
			if !ok {
				return nil
			}
			if err := enc.Encode(record); err != nil {
				return audit.NewExportError("cbor", recordCount, err)
			}
			recordCount++
		}
	}
}

// ReadCBOR decodes a CBOR sequence written by CBORExporter.
func ReadCBOR(r io.Reader, compressed bool) ([]*audit.Record, error) {
	in := r
	if compressed {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("open zstd stream: %w", err)
		}
		defer zr.Close()
		in = zr
	}

	dec := decMode.NewDecoder(in)
	var records []*audit.Record
	for {
		var record audit.Record
		if err := dec.Decode(&record); err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return records, fmt.Errorf("decode record %d: %w", len(records), err)
		}
		records = append(records, &record)
	}
}
