package tui

import (
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"geochart/internal/logging"
)

// watchDebounce collapses the burst of events an editor save produces.
const watchDebounce = 200 * time.Millisecond

// fileChangedMsg reports that the watched file was written.
type fileChangedMsg struct{ path string }

// Watcher reports writes to the open geo file. The directory is watched so
// editors that replace the file atomically are seen too.
type Watcher struct {
	fw      *fsnotify.Watcher
	changed chan string
	stopCh  chan struct{}
	doneCh  chan struct{}
	once    sync.Once

	mu   sync.Mutex
	path string
	dir  string
}

// NewWatcher starts the watch loop. Close stops it.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fw:      fw,
		changed: make(chan string, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Watch switches the watched file to path.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	if dir != w.dir {
		if w.dir != "" {
			_ = w.fw.Remove(w.dir)
		}
		if err := w.fw.Add(dir); err != nil {
			return err
		}
		w.dir = dir
	}
	w.path = abs
	return nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

func (w *Watcher) loop() {
	defer close(w.doneCh)

	var debounce *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-w.stopCh:
			if debounce != nil {
				debounce.Stop()
			}
			return

		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			abs, _ := filepath.Abs(ev.Name)
			if abs != w.Path() {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.NewTimer(watchDebounce)
			fire = debounce.C

		case <-fire:
			debounce, fire = nil, nil
			select {
			case w.changed <- w.Path():
			default:
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			logging.L().Warn("file watcher error", zap.Error(err))
		}
	}
}

// Next waits for the next change. It yields nil once the watcher is closed.
func (w *Watcher) Next() tea.Cmd {
	return func() tea.Msg {
		select {
		case p := <-w.changed:
			return fileChangedMsg{path: p}
		case <-w.doneCh:
			return nil
		}
	}
}

// Close stops the loop and releases the OS watch.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stopCh)
		<-w.doneCh
		err = w.fw.Close()
	})
	return err
}
