package theme

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher keeps the current theme of a long-lived process in sync with the
// theme file. A document that fails to parse keeps the previous theme.
type Watcher struct {
	path    string
	current atomic.Pointer[Theme]
	log     zerolog.Logger
	fsw     *fsnotify.Watcher

	debounce time.Duration

	mu       sync.Mutex
	onReload func(*Theme)

	stopOnce sync.Once
	done     chan struct{}
}

// NewWatcher loads path and starts watching its directory. Editors replace
// files by rename, so the directory is watched rather than the file.
func NewWatcher(ctx context.Context, path string, log zerolog.Logger) (*Watcher, error) {
	t, err := LoadFrom(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create theme watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch theme dir: %w", err)
	}

	w := &Watcher{
		path:     path,
		log:      log,
		fsw:      fsw,
		debounce: 100 * time.Millisecond,
		done:     make(chan struct{}),
	}
	w.current.Store(t)
	go w.run(ctx)
	return w, nil
}

// Current returns the latest successfully loaded theme.
func (w *Watcher) Current() *Theme {
	return w.current.Load()
}

// OnReload registers fn to run after every successful reload.
func (w *Watcher) OnReload(fn func(*Theme)) {
	w.mu.Lock()
	w.onReload = fn
	w.mu.Unlock()
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		err = w.fsw.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			w.fsw.Close()
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("theme watcher error")
		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	t, err := LoadFrom(w.path)
	if err != nil {
		w.log.Warn().Err(err).Str("path", w.path).Msg("theme reload failed, keeping previous theme")
		return
	}
	w.current.Store(t)
	w.log.Debug().Str("path", w.path).Msg("theme reloaded")
	w.mu.Lock()
	fn := w.onReload
	w.mu.Unlock()
	if fn != nil {
		fn(t)
	}
}
