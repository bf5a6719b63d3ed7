package todotree

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher listens for filesystem changes under the search roots,
// invalidates affected cache entries, and triggers debounced refreshes of
// the service's grouped snapshot.
type Watcher struct {
	svc      *Service
	fsw      *fsnotify.Watcher
	debounce time.Duration
	log      zerolog.Logger

	// Overridable in tests to count refreshes.
	refreshFn func(context.Context)

	mu             sync.Mutex
	timer          *time.Timer
	refreshCtx     context.Context
	isRefreshing   bool
	pendingRefresh bool
}

// NewWatcher creates a watcher for the service's search roots.
func NewWatcher(svc *Service, log zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		svc:      svc,
		fsw:      fsw,
		debounce: svc.cfg.Debounce(),
		log:      log.With().Str("component", "todo-watcher").Logger(),
	}
	w.refreshFn = func(ctx context.Context) { svc.Refresh(ctx) }
	return w, nil
}

// Run watches the search roots until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	for _, root := range w.svc.searchRoots() {
		if err := w.addRecursive(root.dir); err != nil {
			w.log.Debug().Err(err).Str("dir", root.dir).Msg("skipping unwatchable root")
		}
	}

	w.mu.Lock()
	w.refreshCtx = ctx
	w.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return w.fsw.Close()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Error().Err(err).Msg("watcher error")
		}
	}
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Newly created directories join the watch set.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(event.Name)
			return
		}
	}

	if !w.matches(event.Name) {
		return
	}

	w.log.Debug().
		Str("path", event.Name).
		Str("op", event.Op.String()).
		Msg("file system event")

	// Stale immediately; the debounced refresh re-reads. Deleted files
	// simply stop being discovered on the next refresh.
	w.svc.Invalidate(event.Name)
	w.scheduleRefresh()
}

// matches reports whether path is a non-excluded todo file under one of
// the search roots.
func (w *Watcher) matches(path string) bool {
	if filepath.Ext(path) != w.svc.cfg.Extension {
		return false
	}

	for _, root := range w.svc.searchRoots() {
		rel, err := filepath.Rel(root.dir, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		if !w.svc.excluded(rel) {
			return true
		}
	}
	return false
}

// scheduleRefresh starts or restarts the debounce timer, coalescing a
// burst of events into a single refresh.
func (w *Watcher) scheduleRefresh() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.refresh)
}

// refresh runs the refresh state machine. A fire while a refresh is in
// flight marks it pending; the completing refresh replays it in an
// explicit loop rather than recursing, so bursts cannot grow the stack.
// At most one refresh executes at a time.
func (w *Watcher) refresh() {
	w.mu.Lock()
	if w.isRefreshing {
		w.pendingRefresh = true
		w.mu.Unlock()
		return
	}
	w.isRefreshing = true
	w.pendingRefresh = false
	ctx := w.refreshCtx
	w.mu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}

	for {
		w.refreshFn(ctx)

		w.mu.Lock()
		if !w.pendingRefresh {
			w.isRefreshing = false
			w.mu.Unlock()
			return
		}
		w.pendingRefresh = false
		w.mu.Unlock()
	}
}

// addRecursive adds dir and every non-hidden subdirectory to the watch set.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			w.log.Debug().Err(err).Str("path", path).Msg("skipping path during walk")
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}
