package config

import (
	"os"
	"time"
)

// Event is emitted by Watcher when the watched project file changes.
type Event struct {
	Reloaded *Project // set on a successful reload
	Err      error    // set if the file changed but failed to parse
}

// Watcher polls a project file's modification time and re-loads it on
// change. The original implementation drives this off OS filesystem
// notifications (the `notify` crate, backed by inotify/FSEvents); no such
// library appears anywhere in this pack, so this is a stdlib `os.Stat`
// poll loop instead (see DESIGN.md) — adequate for a config file that
// changes on human timescales, not a hot data path.
type Watcher struct {
	path     string
	interval time.Duration
	events   chan Event
	stop     chan struct{}
}

// NewWatcher returns a Watcher for path, polling every interval (a
// sensible default is 500ms, matching the original's debounce window).
func NewWatcher(path string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Watcher{
		path:     path,
		interval: interval,
		events:   make(chan Event, 8),
		stop:     make(chan struct{}),
	}
}

// Events returns the channel Watcher publishes reload events on.
func (w *Watcher) Events() <-chan Event { return w.events }

// Start begins polling in a background goroutine. Call Stop to end it.
func (w *Watcher) Start() {
	go w.run()
}

// Stop ends the polling goroutine.
func (w *Watcher) Stop() {
	close(w.stop)
}

func (w *Watcher) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var lastModTime time.Time
	if info, err := os.Stat(w.path); err == nil {
		lastModTime = info.ModTime()
	}

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				continue // file temporarily missing (e.g. mid-write); try again next tick
			}
			if !info.ModTime().After(lastModTime) {
				continue
			}
			lastModTime = info.ModTime()

			project, loadErr := Load(w.path)
			if loadErr != nil {
				w.events <- Event{Err: loadErr}
				continue
			}
			w.events <- Event{Reloaded: project}
		}
	}
}
