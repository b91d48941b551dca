// Package watch re-runs work when files change, for `shimmer lint --watch`.
//
// A FileWatcher wraps fsnotify. Bursts of events, such as an editor
// writing a file in several steps, are collapsed by a Debouncer into one
// callback carrying every changed path:
//
//	fw, err := watch.New(watch.FromConfig("messages.txt", cfg.Lint))
//	if err != nil {
//		return err
//	}
//	return fw.Watch(ctx, func(paths []string) error {
//		return lintFiles(paths)
//	})
package watch
