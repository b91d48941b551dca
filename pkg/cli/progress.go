package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ProgressReporter reports progress through a run of lines whose total is
// known up front. Flagged lines (below the lint threshold, or failed) are
// counted separately.
type ProgressReporter interface {
	Start(total int)
	Line(flagged bool)
	Finish()
}

// LineProgress draws a single-line bar, redrawn in place with \r.
type LineProgress struct {
	mu      sync.Mutex
	total   int
	done    int
	flagged int
	started time.Time
	w       io.Writer
}

// NewProgressReporter creates a reporter writing to w, or to os.Stderr when
// w is nil so stdout stays machine-readable.
func NewProgressReporter(w io.Writer) ProgressReporter {
	if w == nil {
		w = os.Stderr
	}
	return &LineProgress{w: w}
}

// Start resets the reporter for total lines.
func (p *LineProgress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.done = 0
	p.flagged = 0
	p.started = time.Now()
	p.render()
}

// Line records one finished line. Lines past the total are ignored.
func (p *LineProgress) Line(flagged bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done >= p.total {
		return
	}
	p.done++
	if flagged {
		p.flagged++
	}
	p.render()
}

// Finish draws the final state and ends the line.
func (p *LineProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.total == 0 {
		return
	}
	p.render()
	fmt.Fprintln(p.w)
}

func (p *LineProgress) render() {
	if p.total == 0 {
		return
	}

	const width = 30
	filled := width * p.done / p.total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	rate := 0.0
	if elapsed := time.Since(p.started).Seconds(); elapsed > 0 {
		rate = float64(p.done) / elapsed
	}

	fmt.Fprintf(p.w, "\r[%s] %d/%d lines, %d flagged, %.0f lines/s",
		bar, p.done, p.total, p.flagged, rate)
}

// NopProgress discards progress.
type NopProgress struct{}

func (NopProgress) Start(int) {}
func (NopProgress) Line(bool) {}
func (NopProgress) Finish()   {}
