// Package watch raises reload requests when game sources change on disk.
package watch

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/vovakirdan/tui-cabinet/internal/core"
)

// DefaultDebounce is how long a file must stay quiet before it counts as changed.
const DefaultDebounce = 200 * time.Millisecond

// ErrStopped is returned by Start after Stop.
var ErrStopped = errors.New("watch: stopped")

// Options configures a Watcher.
type Options struct {
	Dir       string
	Extension string // Only files with this extension count, e.g. ".lua"
	Debounce  time.Duration
}

// Watcher pushes core.ReloadRequested into the engine queue once a burst of
// writes to source files has settled. Editors tend to save in several steps,
// so every burst yields a single request.
type Watcher struct {
	opts    Options
	queue   *core.Queue
	logger  *log.Logger
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]time.Time

	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// New creates a watcher over opts.Dir. Call Start to begin watching.
func New(opts Options, queue *core.Queue, logger *log.Logger) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		opts:    opts,
		queue:   queue,
		logger:  logger,
		watcher: fw,
		pending: make(map[string]time.Time),
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching in the background.
func (w *Watcher) Start() error {
	select {
	case <-w.done:
		return ErrStopped
	default:
	}
	if err := w.watcher.Add(w.opts.Dir); err != nil {
		return err
	}

	w.wg.Add(2)
	go w.eventLoop()
	go w.debounceLoop()

	w.logger.Info("watching for changes", "dir", w.opts.Dir, "ext", w.opts.Extension)
	return nil
}

// Stop stops watching and waits for the background goroutines. Safe to call twice.
func (w *Watcher) Stop() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	w.wg.Wait()
	return err
}

func (w *Watcher) eventLoop() {
	defer w.wg.Done()
	defer w.recover("event loop")

	for {
		select {
		case <-w.done:
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
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if w.opts.Extension != "" && !strings.HasSuffix(event.Name, w.opts.Extension) {
		return
	}
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
		return
	}
	w.logger.Debug("source event", "op", event.Op.String(), "file", event.Name)

	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) debounceLoop() {
	defer w.wg.Done()
	defer w.recover("debounce loop")

	ticker := time.NewTicker(max(w.opts.Debounce/4, 10*time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case now := <-ticker.C:
			w.flush(now)
		}
	}
}

// flush emits one request once every pending file has been quiet for the
// debounce delay.
func (w *Watcher) flush(now time.Time) {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	for _, at := range w.pending {
		if now.Sub(at) < w.opts.Debounce {
			w.mu.Unlock()
			return
		}
	}
	files := make([]string, 0, len(w.pending))
	for name := range w.pending {
		files = append(files, name)
	}
	clear(w.pending)
	w.mu.Unlock()

	sort.Strings(files)
	rel, err := filepath.Rel(w.opts.Dir, files[0])
	if err != nil {
		rel = files[0]
	}
	if !w.queue.TryPush(core.ReloadRequested{Path: rel}) {
		w.logger.Warn("reload request dropped, queue full", "file", rel)
		return
	}
	w.logger.Info("sources changed, reload requested", "file", rel, "files", len(files))
}

func (w *Watcher) recover(where string) {
	if r := recover(); r != nil {
		w.logger.Error("watcher panic", "in", where, "panic", r)
	}
}
