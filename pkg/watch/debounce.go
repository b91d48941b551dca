package watch

import (
	"sort"
	"sync"
	"time"
)

// Debouncer collects paths from rapid events and calls its callback once,
// with every collected path, after a quiet period.
type Debouncer struct {
	interval time.Duration
	callback func(paths []string)

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
	stopped bool
	running sync.WaitGroup
}

// NewDebouncer creates a debouncer that calls callback after interval
// without new events.
func NewDebouncer(interval time.Duration, callback func(paths []string)) *Debouncer {
	return &Debouncer{
		interval: interval,
		callback: callback,
		pending:  make(map[string]struct{}),
	}
}

// Trigger records path and restarts the quiet period.
func (d *Debouncer) Trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}
	d.pending = make(map[string]struct{})
	d.running.Add(1)
	d.mu.Unlock()

	defer d.running.Done()
	sort.Strings(paths)
	d.callback(paths)
}

// Stop cancels any pending callback and waits for a running one to
// return. It must not be called from the callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = make(map[string]struct{})
	d.mu.Unlock()

	d.running.Wait()
}
