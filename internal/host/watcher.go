package host

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitepack/internal/logfields"
)

// sourceWatcher rebuilds the site after a burst of changes in the source
// directories settles. fsnotify is not recursive, so every subdirectory is
// added explicitly, including ones created while watching.
type sourceWatcher struct {
	watcher  *fsnotify.Watcher
	ignore   []string
	debounce time.Duration
	rebuild  func(context.Context)
	logger   *slog.Logger

	trigger chan struct{}
	wg      sync.WaitGroup
}

func newSourceWatcher(dirs, ignore []string, debounce time.Duration, rebuild func(context.Context), logger *slog.Logger) (*sourceWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	sw := &sourceWatcher{
		watcher:  w,
		ignore:   ignore,
		debounce: debounce,
		rebuild:  rebuild,
		logger:   logger,
		trigger:  make(chan struct{}, 1),
	}
	for _, dir := range dirs {
		if err := sw.addTree(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}
	return sw, nil
}

func (sw *sourceWatcher) addTree(root string) error {
	if _, err := os.Stat(root); err != nil {
		sw.logger.Debug("Not watching missing directory", logfields.Path(root))
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if sw.ignored(path) {
			return filepath.SkipDir
		}
		if err := sw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (sw *sourceWatcher) ignored(path string) bool {
	for _, dir := range sw.ignore {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) ||
			strings.HasPrefix(path, dir+".staging") {
			return true
		}
	}
	return false
}

// Start runs the event and rebuild loops until ctx is done.
func (sw *sourceWatcher) Start(ctx context.Context) {
	sw.wg.Add(2)
	go func() {
		defer sw.wg.Done()
		sw.watchLoop(ctx)
	}()
	go func() {
		defer sw.wg.Done()
		sw.rebuildLoop(ctx)
	}()
}

// Wait blocks until both loops have returned and closes the watcher.
func (sw *sourceWatcher) Wait() {
	sw.wg.Wait()
	if err := sw.watcher.Close(); err != nil {
		sw.logger.Debug("Error closing file watcher", logfields.Error(err))
	}
}

func (sw *sourceWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if sw.ignored(event.Name) || event.Op == fsnotify.Chmod {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := sw.addTree(event.Name); err != nil {
						sw.logger.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
					}
				}
			}
			sw.logger.Debug("Source change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			sw.triggerRebuild()
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.logger.Error("Source watcher error", logfields.Error(err))
		}
	}
}

func (sw *sourceWatcher) triggerRebuild() {
	select {
	case sw.trigger <- struct{}{}:
	default:
		// already pending
	}
}

// rebuildLoop runs rebuild once no change has arrived for the debounce
// window. Rebuilds run on this goroutine so they never overlap.
func (sw *sourceWatcher) rebuildLoop(ctx context.Context) {
	timer := time.NewTimer(sw.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sw.trigger:
			timer.Reset(sw.debounce)
		case <-timer.C:
			sw.logger.Info("Rebuilding site after source change")
			sw.rebuild(ctx)
		}
	}
}
