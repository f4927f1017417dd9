// Package watch calls a function when watched files change.
//
// On Linux changes are reported by inotify on the file's directory, which
// also sees editors that replace a file by renaming over it. Elsewhere the
// files are polled.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"
)

// DefaultDelay is the quiet period before a change is reported. Bursts of
// events for the same file within the delay are reported once.
const DefaultDelay = 200 * time.Millisecond

// Watcher reports changes of the files added to it.
type Watcher interface {
	// Add starts watching path. The file need not exist yet.
	Add(path string) error

	// Run delivers changes until ctx is done.
	Run(ctx context.Context) error

	Close() error
}

// debouncer delays callbacks per path. Callbacks run one at a time, so a
// change that arrives during a rebuild waits for it to finish.
type debouncer struct {
	delay    time.Duration
	onChange func(path string)

	mu     sync.Mutex
	timers map[string]*time.Timer

	running sync.Mutex // held while onChange runs
}

func newDebouncer(delay time.Duration, onChange func(string)) *debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &debouncer{
		delay:    delay,
		onChange: onChange,
		timers:   make(map[string]*time.Timer),
	}
}

func (d *debouncer) fire(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[path]; ok {
		t.Stop()
	}
	d.timers[path] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, path)
		d.mu.Unlock()

		d.running.Lock()
		defer d.running.Unlock()
		d.onChange(path)
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for path, t := range d.timers {
		t.Stop()
		delete(d.timers, path)
	}
}

// abs cleans path for use as a map key.
func abs(path string) (string, error) {
	p, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(p), nil
}
