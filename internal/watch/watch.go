// Package watch re-runs a callback when registry source files change.
// It backs the CLI's watch command, which revalidates the registry on
// every edit so authors see breakage immediately.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ErrWatcherFailed indicates the filesystem watcher could not be created.
var ErrWatcherFailed = errors.New("failed to initialize filesystem watcher")

// defaultDebounce coalesces editor save bursts into one reload.
const defaultDebounce = 250 * time.Millisecond

// Watcher invokes a callback when YAML files under a directory change.
type Watcher struct {
	dir      string
	fn       func()
	log      *zap.Logger
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// New creates a watcher over dir. fn runs after each (debounced) change
// to a .yaml or .yml file.
func New(dir string, fn func(), log *zap.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}

	// Watch the directory and any subdirectories present at start.
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	return &Watcher{
		dir:      dir,
		fn:       fn,
		log:      log,
		watcher:  w,
		debounce: defaultDebounce,
	}, nil
}

// Run processes events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-fire:
			w.fn()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !isSourceEvent(event) {
				continue
			}
			w.log.Debug("registry source changed",
				zap.String("path", event.Name),
				zap.String("op", event.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}

// isSourceEvent reports whether the event concerns a registry source file.
func isSourceEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	return ext == ".yaml" || ext == ".yml"
}
