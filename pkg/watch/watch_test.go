package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"shimmer-hq/shimmer/pkg/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type changes struct {
	mu    sync.Mutex
	calls [][]string
	ch    chan struct{}
}

func newChanges() *changes {
	return &changes{ch: make(chan struct{}, 16)}
}

func (c *changes) handle(paths []string) error {
	c.mu.Lock()
	c.calls = append(c.calls, paths)
	c.mu.Unlock()
	c.ch <- struct{}{}
	return nil
}

func (c *changes) wait(t *testing.T) {
	t.Helper()
	select {
	case <-c.ch:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change callback")
	}
}

func (c *changes) snapshot() [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]string(nil), c.calls...)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func startWatch(t *testing.T, cfg *Config, c *changes) func() {
	t.Helper()
	fw, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- fw.Watch(context.Background(), c.handle) }()

	// fsnotify registers synchronously in New; give Watch time to start its loop.
	time.Sleep(20 * time.Millisecond)

	return func() {
		fw.Stop()
		if err := <-done; err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	}
}

func TestDebouncer(t *testing.T) {
	var mu sync.Mutex
	var got [][]string
	fired := make(chan struct{}, 4)

	d := NewDebouncer(30*time.Millisecond, func(paths []string) {
		mu.Lock()
		got = append(got, paths)
		mu.Unlock()
		fired <- struct{}{}
	})
	defer d.Stop()

	d.Trigger("b.txt")
	d.Trigger("a.txt")
	d.Trigger("b.txt")

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer did not fire")
	}

	mu.Lock()
	defer mu.Unlock()
	if diff := cmp.Diff([][]string{{"a.txt", "b.txt"}}, got); diff != "" {
		t.Errorf("callbacks mismatch (-want +got):\n%s", diff)
	}
}

func TestDebouncer_Stop(t *testing.T) {
	called := make(chan struct{}, 1)
	d := NewDebouncer(20*time.Millisecond, func([]string) { called <- struct{}{} })

	d.Trigger("a.txt")
	d.Stop()
	d.Trigger("b.txt")

	select {
	case <-called:
		t.Error("callback ran after Stop")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestNew_MissingPath(t *testing.T) {
	_, err := New(&Config{Path: filepath.Join(t.TempDir(), "missing.txt")})
	if err == nil {
		t.Fatal("New() expected error for missing path")
	}
}

func TestFromConfig(t *testing.T) {
	cfg := FromConfig("lines.txt", config.LintConfig{WatchDebounce: time.Second})
	want := &Config{Path: "lines.txt", Debounce: time.Second, SkipHidden: true}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("FromConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestFileWatcher_SingleFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "lines.txt")
	other := filepath.Join(dir, "other.txt")
	writeFile(t, target, "ABPrn01τ300f06→[0.5,0.9]\n")

	c := newChanges()
	stop := startWatch(t, &Config{Path: target, Debounce: 30 * time.Millisecond}, c)
	defer stop()

	writeFile(t, other, "ignored\n")
	writeFile(t, target, "ABPrn01τ300f06→[0.6,0.9]\n")
	c.wait(t)

	for _, call := range c.snapshot() {
		if diff := cmp.Diff([]string{target}, call); diff != "" {
			t.Errorf("changed paths mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestFileWatcher_Directory(t *testing.T) {
	dir := t.TempDir()
	c := newChanges()
	stop := startWatch(t, &Config{
		Path:       dir,
		Debounce:   50 * time.Millisecond,
		Extensions: []string{".shm"},
		SkipHidden: true,
	}, c)
	defer stop()

	writeFile(t, filepath.Join(dir, "notes.md"), "ignored\n")
	writeFile(t, filepath.Join(dir, ".hidden.shm"), "ignored\n")
	writeFile(t, filepath.Join(dir, "a.shm"), "line\n")
	writeFile(t, filepath.Join(dir, "b.shm"), "line\n")
	c.wait(t)

	// Give a split burst time to deliver its second callback.
	time.Sleep(100 * time.Millisecond)

	seen := map[string]bool{}
	for _, call := range c.snapshot() {
		for _, p := range call {
			seen[filepath.Base(p)] = true
		}
	}
	want := map[string]bool{"a.shm": true, "b.shm": true}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Errorf("changed files mismatch (-want +got):\n%s", diff)
	}
}

func TestFileWatcher_ContextCancel(t *testing.T) {
	dir := t.TempDir()
	fw, err := New(&Config{Path: dir})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fw.Watch(ctx, func([]string) error { return nil }) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}

	if err := fw.Watch(context.Background(), nil); err != ErrAlreadyRunning {
		t.Errorf("second Watch() error = %v, want %v", err, ErrAlreadyRunning)
	}
}

func TestFileWatcher_CloseWithoutWatch(t *testing.T) {
	fw, err := New(&Config{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
