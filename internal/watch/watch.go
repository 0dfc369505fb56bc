// Package watch calls back when a file changes, coalescing bursts of
// events such as an editor's write-then-rename save.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when a non-positive debounce is given.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches one file. Callbacks run on the watcher goroutine, one
// at a time.
type Watcher struct {
	fsw      *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func() error
	onError  func(error)

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// New creates a watcher for path. onChange runs once per burst of
// changes, debounce after the last event; its errors and watch errors go
// to onError, which may be nil.
func New(path string, debounce time.Duration, onChange func() error, onError func(error)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// The directory is watched so that saves replacing the file by rename
	// keep being seen.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		fsw:      fsw,
		path:     filepath.Clean(path),
		debounce: debounce,
		onChange: onChange,
		onError:  onError,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching in a new goroutine. Calling Start again has no
// effect.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	go w.loop()
}

// Stop ends watching and waits for a running callback to return. The
// watcher cannot be restarted.
func (w *Watcher) Stop() {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()
	if !running {
		w.fsw.Close()
		return
	}
	close(w.stop)
	<-w.done
}

func (w *Watcher) matches(name string) bool {
	name = filepath.Clean(name)
	if name == w.path {
		return true
	}
	a, err1 := filepath.Abs(name)
	b, err2 := filepath.Abs(w.path)
	return err1 == nil && err2 == nil && a == b
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer w.fsw.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-w.stop:
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.matches(ev.Name) || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case <-fire:
			timer, fire = nil, nil
			if err := w.onChange(); err != nil {
				w.report(err)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

func (w *Watcher) report(err error) {
	if w.onError != nil {
		w.onError(err)
	}
}
