package processing

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/goleak"

	"shimmer-hq/shimmer/pkg/audit"
	"shimmer-hq/shimmer/pkg/audit/recorder"
	"shimmer-hq/shimmer/pkg/audit/storage"
	"shimmer-hq/shimmer/pkg/batch"
	"shimmer-hq/shimmer/pkg/config"
	"shimmer-hq/shimmer/pkg/shimmer"
	"shimmer-hq/shimmer/pkg/shimmer/validator"
	"shimmer-hq/shimmer/pkg/telemetry/metrics"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	proc      *Processor
	store     *storage.MemoryStorage
	rec       *recorder.Recorder
	collector *metrics.Collector
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	cfg := config.NewDefault().Telemetry.Metrics
	collector := metrics.NewCollector(&cfg, nil)
	store := storage.NewMemoryStorage()
	rec := recorder.NewRecorder(store, recorder.DefaultConfig(), collector)

	opts = append([]Option{
		WithMetrics(collector),
		WithRecorder(rec),
		WithBatchConfig(batch.Config{Workers: 2}),
	}, opts...)

	f := &fixture{
		proc:      NewProcessor(shimmer.NewWithGrammar(nil), opts...),
		store:     store,
		rec:       rec,
		collector: collector,
	}
	t.Cleanup(func() {
		f.rec.Close()
		f.store.Close()
	})
	return f
}

// records flushes the recorder and returns everything stored.
func (f *fixture) records(t *testing.T) []*audit.Record {
	t.Helper()
	if err := f.rec.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	recs, err := f.store.Query(context.Background(), nil)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	return recs
}

func TestProcessor_ValidateBatch(t *testing.T) {
	f := newFixture(t)
	run := f.proc.NewRun("test")

	lines := []string{
		"ABPrn01τ300f06→[0.5,0.9,0.1,0.9,0.96]",
		"ABc→[1.5,0,0,0,0.9]",
		"just some text",
	}

	var got []bool
	err := f.proc.ValidateBatch(run).Run(context.Background(), lines, func(r batch.Result[*validator.Report]) error {
		got = append(got, r.Value.OK)
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if diff := cmp.Diff([]bool{true, false, false}, got); diff != "" {
		t.Errorf("ok mismatch (-want +got):\n%s", diff)
	}

	const expected = `
# HELP shimmer_codec_diagnostics_total Total number of diagnostics emitted
# TYPE shimmer_codec_diagnostics_total counter
shimmer_codec_diagnostics_total{code="missing_arrow_separator",severity="error"} 1
shimmer_codec_diagnostics_total{code="vector_out_of_range",severity="error"} 1
# HELP shimmer_codec_lines_total Total number of lines processed
# TYPE shimmer_codec_lines_total counter
shimmer_codec_lines_total{op="validate",result="failed"} 2
shimmer_codec_lines_total{op="validate",result="ok"} 1
`
	if err := testutil.GatherAndCompare(f.collector.Registry(), strings.NewReader(expected),
		"shimmer_codec_diagnostics_total", "shimmer_codec_lines_total"); err != nil {
		t.Error(err)
	}

	recs := f.records(t)
	if len(recs) != len(lines) {
		t.Fatalf("stored %d records, want %d", len(recs), len(lines))
	}
	for _, r := range recs {
		if r.RunID != run.ID || r.Op != "validate" || r.Source != "test" || r.Grammar != "1.0" {
			t.Errorf("record = %+v", r)
		}
		if r.LineHash != recorder.HashLine(lines[r.LineIndex]) {
			t.Errorf("record %d hash mismatch", r.LineIndex)
		}
	}
}

func TestProcessor_LintBatch(t *testing.T) {
	f := newFixture(t, WithMinScore(90))
	run := f.proc.NewRun("test")

	lines := []string{
		"ABPrn01τ300f06→[0.5,0.9,0.1,0.9,0.96]",
		"   ",
		"ABP rn02→[0.5,0.5,0.5,0.5]",
	}

	type row struct {
		Skipped bool
		OK      bool
		Score   int
	}
	var got []row
	err := f.proc.LintBatch(run).Run(context.Background(), lines, func(r batch.Result[Linted]) error {
		got = append(got, row{r.Value.Skipped, r.Value.OK, r.Value.Score})
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []row{
		{OK: true, Score: 100},
		{Skipped: true, OK: true},
		{OK: false, Score: 80},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("lint mismatch (-want +got):\n%s", diff)
	}

	recs := f.records(t)
	if len(recs) != 2 {
		t.Fatalf("stored %d records, want 2 (blank line skipped)", len(recs))
	}
	for _, r := range recs {
		if r.Op != "lint" || r.Score == nil {
			t.Errorf("record = %+v", r)
		}
	}
}

func TestProcessor_Symbolize(t *testing.T) {
	f := newFixture(t)

	got := f.proc.Symbolize(context.Background(), "ctag.status:chunked_wav_infinite_loops_all_engines")
	if !strings.Contains(got.Line, "ctag.σ:⟳") || got.Rewrites != 1 || got.Error != "" {
		t.Errorf("Symbolize() = %+v", got)
	}

	blank := f.proc.Symbolize(context.Background(), "")
	if diff := cmp.Diff(Symbolized{}, blank); diff != "" {
		t.Errorf("Symbolize(blank) mismatch (-want +got):\n%s", diff)
	}

	const expected = `
# HELP shimmer_codec_symbolize_rewrites_total Total number of ctag runs rewritten by the symbolizer
# TYPE shimmer_codec_symbolize_rewrites_total counter
shimmer_codec_symbolize_rewrites_total 1
`
	if err := testutil.GatherAndCompare(f.collector.Registry(), strings.NewReader(expected),
		"shimmer_codec_symbolize_rewrites_total"); err != nil {
		t.Error(err)
	}
}

func TestProcessor_Normalize(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Normalized
	}{
		{
			name: "already strict",
			line: "ABPrn01τ300f06→[0.5,0.9,0.1,0.9,0.96]",
			want: Normalized{Line: "ABPrn01τ300f06→[0.5,0.9,0.1,0.9,0.96]", Accepted: true, Errors: []string{}},
		},
		{
			name: "fenced with ascii arrow and cyrillic action",
			line: "```json\nABе rn01->[0.5,0.5,0.5,0.5]\n```",
			want: Normalized{Line: "ABern01→[0.5,0.5,0.5,0.5]", Changed: true, Accepted: true, Errors: []string{}},
		},
		{
			name: "no arrow",
			line: "  just some text ",
			want: Normalized{Line: "just some text", Changed: true, Errors: []string{"missing_arrow_separator"}},
		},
	}

	f := newFixture(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, f.proc.Normalize(tt.line)); diff != "" {
				t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProcessor_Gloss(t *testing.T) {
	f := newFixture(t)
	got := f.proc.Gloss("XYaf07→[0.0,0.2,0.0,0.1,0.95]")
	if got.Gloss.Routing != "XY" || got.Gloss.Action.Code != "a" {
		t.Errorf("Gloss() = %+v", got)
	}
	if diff := cmp.Diff([]string{"f07"}, got.Gloss.Deliverables); diff != "" {
		t.Errorf("deliverables mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessor_NoRecorder(t *testing.T) {
	p := NewProcessor(shimmer.NewWithGrammar(nil))
	run := p.NewRun("test")

	if r := p.Validate(context.Background(), run, 0, "XYaf07→[0.0,0.2,0.0,0.1,0.95]"); !r.OK {
		t.Errorf("Validate() errors = %v", r.Errors)
	}
	if l := p.Lint(context.Background(), run, 0, "XYaf07→[0.0,0.2,0.0,0.1,0.95]"); !l.OK {
		t.Errorf("Lint() = %+v", l)
	}
}
