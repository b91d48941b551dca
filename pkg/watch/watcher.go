package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"shimmer-hq/shimmer/pkg/config"
)

// ErrAlreadyRunning is returned by Watch when the watcher is in use.
var ErrAlreadyRunning = errors.New("watcher already running")

// Config contains configuration for the file watcher.
type Config struct {
	// Path is the file or directory to watch.
	Path string

	// Debounce is the quiet period after the last change before the
	// callback runs.
	// Default: 200ms
	Debounce time.Duration

	// Extensions limits a watched directory to these file extensions.
	// Empty means every file. Ignored when Path is a file.
	Extensions []string

	// SkipHidden ignores files and directories starting with ".".
	SkipHidden bool
}

// FromConfig builds a watcher configuration for path using the lint
// section of the configuration.
func FromConfig(path string, cfg config.LintConfig) *Config {
	return &Config{
		Path:       path,
		Debounce:   cfg.WatchDebounce,
		SkipHidden: true,
	}
}

// FileWatcher calls back when watched files change. A single file is
// watched through its directory so that editors which replace the file on
// save are still seen.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	config  *Config
	logger  *slog.Logger

	// target is the cleaned file path when watching a single file.
	target string

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	stopOnce sync.Once
}

// New creates a watcher for cfg.Path, which must exist.
func New(cfg *Config) (*FileWatcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = config.DefaultLintWatchDebounce
	}

	info, err := os.Stat(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat watch path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher: watcher,
		config:  cfg,
		logger:  slog.Default().With("component", "watch"),
		stopCh:  make(chan struct{}),
	}

	if info.IsDir() {
		err = fw.addDirectory(cfg.Path)
	} else {
		fw.target = filepath.Clean(cfg.Path)
		err = watcher.Add(filepath.Dir(fw.target))
	}
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch path: %w", err)
	}

	return fw, nil
}

// Watch blocks until ctx is done or Stop is called, calling onChange with
// the changed paths after each debounced burst of events. An error from
// onChange is logged and watching continues. The watcher cannot be reused
// after Watch returns.
func (fw *FileWatcher) Watch(ctx context.Context, onChange func(paths []string) error) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return ErrAlreadyRunning
	}
	fw.running = true
	fw.mu.Unlock()

	debounce := NewDebouncer(fw.config.Debounce, func(paths []string) {
		fw.logger.Debug("files changed", "paths", paths)
		if err := onChange(paths); err != nil {
			fw.logger.Error("change handler failed", "error", err)
		}
	})

	defer func() {
		debounce.Stop()
		fw.watcher.Close()
	}()

	fw.logger.Info("file watcher started",
		"path", fw.config.Path,
		"debounce_ms", fw.config.Debounce.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			fw.logger.Debug("file watcher stopped (context cancelled)")
			return nil

		case <-fw.stopCh:
			fw.logger.Debug("file watcher stopped")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if fw.target == "" && event.Has(fsnotify.Create) {
				fw.watchNewDirectory(event.Name)
			}
			if !fw.shouldProcessEvent(event) {
				continue
			}
			debounce.Trigger(filepath.Clean(event.Name))

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

// Stop ends a running Watch. It is safe to call more than once.
func (fw *FileWatcher) Stop() {
	fw.stopOnce.Do(func() {
		close(fw.stopCh)
	})
}

// Close releases the watcher when Watch was never called.
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.running {
		fw.Stop()
		return nil
	}
	return fw.watcher.Close()
}

func (fw *FileWatcher) addDirectory(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if fw.hidden(path) && path != dir {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		fw.logger.Debug("watching directory", "path", path)
		return nil
	})
}

func (fw *FileWatcher) watchNewDirectory(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || fw.hidden(path) {
		return
	}
	if err := fw.addDirectory(path); err != nil {
		fw.logger.Warn("failed to watch new directory", "path", path, "error", err)
	}
}

// shouldProcessEvent reports whether an event is a content change of a
// watched file.
func (fw *FileWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}

	if fw.target != "" {
		return filepath.Clean(event.Name) == fw.target
	}

	if fw.hidden(event.Name) {
		return false
	}
	if len(fw.config.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	for _, valid := range fw.config.Extensions {
		if ext == strings.ToLower(valid) {
			return true
		}
	}
	return false
}

func (fw *FileWatcher) hidden(path string) bool {
	return fw.config.SkipHidden && strings.HasPrefix(filepath.Base(path), ".")
}
