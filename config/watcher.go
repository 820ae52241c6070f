package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is the quiet period a Watcher waits for after the last
// write before reloading.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a configuration file whenever it changes on disk.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *logrus.Entry
	onReload func(*Config)
	watcher  *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher watches the directory holding path, since editors commonly
// replace files instead of writing them in place. onReload receives every
// configuration that loads and validates; invalid edits are logged and skipped.
func NewWatcher(path string, debounce time.Duration, logger *logrus.Entry, onReload func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Watcher{
		path:     abs,
		debounce: debounce,
		logger:   logger.WithField("path", abs),
		onReload: onReload,
		watcher:  fw,
	}, nil
}

// Start processes file events until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	defer w.Close()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			w.logger.Debugf("fsnotify event: op=%v", event.Op)
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.schedule()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			return
		}
	}
}

// schedule restarts the debounce timer so a burst of writes yields one reload.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.WithError(err).Warn("Ignoring invalid configuration change")
		return
	}
	w.logger.Infof("Config changed: %s", filepath.Base(w.path))
	if w.onReload != nil {
		w.onReload(cfg)
	}
}

// Close stops the watcher and any pending reload.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}
