package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/lintrun/lintrun/internal/config"
)

// Watcher re-runs the configured checkers whenever a watched source file
// changes under the project tree.
type Watcher struct {
	runner   *Runner
	cfg      config.Config
	watcher  *fsnotify.Watcher
	onResult func([]Result)
}

// NewWatcher builds a watcher over the runner's project tree. onResult is
// called after every triggered run with the results; it may be nil.
func NewWatcher(r *Runner, cfg config.Config, onResult func([]Result)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		runner:   r,
		cfg:      cfg,
		watcher:  fsWatcher,
		onResult: onResult,
	}

	if err := w.addTree(r.ectx.WorkDir); err != nil {
		fsWatcher.Close()
		return nil, err
	}
	return w, nil
}

// Watch blocks, running the checkers on every relevant write event until
// the context is canceled.
func (w *Watcher) Watch(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.runner.logger.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if event.Op&fsnotify.Write != fsnotify.Write && event.Op&fsnotify.Create != fsnotify.Create {
		return
	}
	if !w.wantsFile(event.Name) {
		return
	}

	// Editors tend to fire several writes per save; wait a beat and treat
	// them as one change.
	time.Sleep(w.cfg.Watch.Debounce.Std())
	w.drainPending()

	w.runner.logger.Info("change detected, re-running checkers",
		zap.String("file", event.Name),
	)

	results, err := w.runner.Run(ctx, w.cfg.Checkers)
	if err != nil {
		w.runner.logger.Warn("checker run failed", zap.Error(err))
	}
	if w.onResult != nil {
		w.onResult(results)
	}
}

// drainPending discards events that arrived during the debounce window.
func (w *Watcher) drainPending() {
	for {
		select {
		case <-w.watcher.Events:
		default:
			return
		}
	}
}

func (w *Watcher) wantsFile(path string) bool {
	for _, ext := range w.cfg.Watch.Extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// addTree registers every directory under root, skipping hidden
// directories, the environment itself, and the usual dependency trees.
func (w *Watcher) addTree(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		name := info.Name()
		if path != root && (strings.HasPrefix(name, ".") || name == "vendor" || name == "node_modules" || name == "__pycache__") {
			return filepath.SkipDir
		}
		envRoot := filepath.Dir(w.runner.ectx.BinDir)
		if path == envRoot || strings.HasPrefix(path, envRoot+string(os.PathSeparator)) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}
