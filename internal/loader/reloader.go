package loader

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/GanizaniSitara/monikerd/internal/catalog"
	"github.com/GanizaniSitara/monikerd/internal/logging"
)

// Reloader owns the background process that re-reads catalog files and
// swaps them into a registry: a timer fallback plus an fsnotify watch on
// the containing directory (whose events are debounced), both funnelled
// through the same Reload call an on-demand HTTP trigger uses.
type Reloader struct {
	mu       sync.Mutex
	path     string
	registry *catalog.Registry
	interval time.Duration
	watch    bool

	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool

	lastErr  error
	lastLoad time.Time
}

// NewReloader builds a Reloader for path, to be swapped into registry.
func NewReloader(path string, registry *catalog.Registry, interval time.Duration, watch bool) *Reloader {
	return &Reloader{
		path:     path,
		registry: registry,
		interval: interval,
		watch:    watch,
	}
}

// Reload performs one synchronous load-and-swap. On parse failure the
// registry's previous snapshot is left untouched and the error is returned
// (and remembered for LastError).
func (r *Reloader) Reload(ctx context.Context) error {
	nodes, err := Load(r.path)
	if err != nil {
		r.mu.Lock()
		r.lastErr = err
		r.mu.Unlock()
		logging.Get(logging.CategoryReload).Errorw("catalog reload failed", "path", r.path, "error", err)
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if err := r.registry.AtomicReplace(nodes); err != nil {
		r.mu.Lock()
		r.lastErr = err
		r.mu.Unlock()
		logging.Get(logging.CategoryReload).Errorw("catalog snapshot rejected", "path", r.path, "error", err)
		return err
	}

	r.mu.Lock()
	r.lastErr = nil
	r.lastLoad = time.Now()
	r.mu.Unlock()
	logging.Get(logging.CategoryReload).Infow("catalog reloaded", "path", r.path, "nodes", len(nodes))
	return nil
}

// LastError returns the error from the most recent reload attempt, if any.
func (r *Reloader) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// LastLoadTime returns when the registry was last successfully replaced.
func (r *Reloader) LastLoadTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastLoad
}

// Start launches the background ticker and, if enabled, the fsnotify watch
// on the catalog file's directory. Non-blocking; call Stop to shut down.
func (r *Reloader) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	r.mu.Unlock()

	var watcher *fsnotify.Watcher
	if r.watch {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			logging.Get(logging.CategoryReload).Warnw("fsnotify unavailable, falling back to ticker only", "error", err)
		} else {
			dir := filepath.Dir(r.path)
			if err := w.Add(dir); err != nil {
				logging.Get(logging.CategoryReload).Warnw("watch failed, falling back to ticker only", "dir", dir, "error", err)
				_ = w.Close()
			} else {
				watcher = w
			}
		}
	}
	r.mu.Lock()
	r.watcher = watcher
	r.mu.Unlock()

	go r.run(ctx)
	return nil
}

// Stop halts the background loop and releases the fsnotify watch.
func (r *Reloader) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	stopCh := r.stopCh
	watcher := r.watcher
	r.mu.Unlock()

	close(stopCh)
	<-r.doneCh
	if watcher != nil {
		_ = watcher.Close()
	}
}

func (r *Reloader) run(ctx context.Context) {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		var events <-chan fsnotify.Event
		var errs <-chan error
		if r.watcher != nil {
			events = r.watcher.Events
			errs = r.watcher.Errors
		}

		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-ticker.C:
			_ = r.Reload(ctx)
		case _, ok := <-events:
			if !ok {
				continue
			}
			debounce.Reset(200 * time.Millisecond)
		case err, ok := <-errs:
			if !ok {
				continue
			}
			logging.Get(logging.CategoryReload).Warnw("fsnotify error", "error", err)
		case <-debounce.C:
			_ = r.Reload(ctx)
		}
	}
}
