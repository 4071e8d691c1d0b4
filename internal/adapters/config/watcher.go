package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const (
	defaultDebounce = 250 * time.Millisecond
	pollInterval    = 50 * time.Millisecond
)

// Watcher reloads a Store whenever settings.toml or messages.yml change on
// disk. Bursts of writes are collapsed into a single reload.
type Watcher struct {
	mu       sync.Mutex
	store    *Store
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onReload func(error)

	dirty   bool
	lastHit time.Time
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

type WatcherOption func(*Watcher)

func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// OnReload registers a callback invoked after every reload attempt.
func OnReload(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

func NewWatcher(store *Store, logger *zap.Logger, opts ...WatcherOption) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create config watcher: %w", err)
	}

	w := &Watcher{
		store:    store,
		logger:   logger.Named("config"),
		watcher:  fsw,
		debounce: defaultDebounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Start begins watching the config directory. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watch(); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	w.logger.Debug("watching config directory", zap.String("dir", w.store.Dir()))

	go w.run(ctx)
	return nil
}

func (w *Watcher) watch() error {
	if err := os.MkdirAll(w.store.Dir(), configDirMode); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := w.watcher.Add(w.store.Dir()); err != nil {
		return fmt.Errorf("watch config directory: %w", err)
	}
	return nil
}

// Stop halts the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}

	if err := w.watcher.Close(); err != nil {
		w.logger.Warn("close config watcher", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", zap.Error(err))
		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	switch filepath.Base(event.Name) {
	case SettingsFile, MessagesFile:
	default:
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return
	}

	w.mu.Lock()
	w.dirty = true
	w.lastHit = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if !w.dirty || time.Since(w.lastHit) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.dirty = false
	onReload := w.onReload
	w.mu.Unlock()

	err := w.store.Reload()
	if err != nil {
		w.logger.Warn("config reload failed, keeping previous settings", zap.Error(err))
	} else {
		w.logger.Info("config reloaded", zap.String("dir", w.store.Dir()))
	}

	if onReload != nil {
		onReload(err)
	}
}
