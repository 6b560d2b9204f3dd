package attrs

import (
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/tagstorm/internal/logging"
)

// Watcher reloads a File whenever it changes on disk. Observers of the
// file's directive sets are notified from the watcher goroutine.
type Watcher struct {
	mu sync.Mutex

	file    *File
	fsw     *fsnotify.Watcher
	target  string
	logger  *logging.Logger
	onError func(error)

	debounce time.Duration
	timer    *time.Timer

	reloads atomic.Int64
	errors  atomic.Int64

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets how long the watcher waits for writes to settle before
// reloading.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger used for reload failures.
func WithLogger(l *logging.Logger) WatchOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithErrorHandler sets a callback for reload and watch errors.
func WithErrorHandler(fn func(error)) WatchOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// Watch starts watching f. The containing directory is watched rather than
// the file itself so that editors which save by rename are picked up.
func Watch(f *File, opts ...WatchOption) (*Watcher, error) {
	if f.Path() == "" {
		return nil, ErrNoPath
	}

	target, err := filepath.Abs(f.Path())
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(target)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		file:     f,
		fsw:      fsw,
		target:   target,
		logger:   logging.Nop(),
		debounce: 50 * time.Millisecond,
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithComponent("attrs").WithField("path", target)

	w.wg.Add(1)
	go w.processLoop()
	return w, nil
}

// Reloads returns the number of successful reloads.
func (w *Watcher) Reloads() int64 {
	return w.reloads.Load()
}

// Errors returns the number of reload or watch errors.
func (w *Watcher) Errors() int64 {
	return w.errors.Load()
}

// Close stops the watcher. It is safe to call Close multiple times.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	close(w.closeCh)
	w.mu.Unlock()

	w.wg.Wait()
	return w.fsw.Close()
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.relevant(ev) {
				w.schedule()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.fail(err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return name == w.target
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.timer = nil
	w.mu.Unlock()

	changes, err := w.file.Reload()
	if err != nil {
		w.fail(err)
		return
	}
	w.reloads.Add(1)
	w.logger.Debug("reloaded, %d attribute(s) changed", len(changes))
}

func (w *Watcher) fail(err error) {
	w.errors.Add(1)
	w.logger.Warn("reload failed: %v", err)
	if w.onError != nil {
		w.onError(err)
	}
}
