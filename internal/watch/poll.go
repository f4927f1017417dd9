package watch

import (
	"context"
	"os"
	"sync"
	"time"
)

// Poller watches files by comparing their modification times.
type Poller struct {
	interval time.Duration
	deb      *debouncer

	mu    sync.Mutex
	files map[string]time.Time
}

// NewPoller returns a Poller that checks its files every interval and
// calls onChange after delay.
func NewPoller(interval, delay time.Duration, onChange func(path string)) *Poller {
	return &Poller{
		interval: interval,
		deb:      newDebouncer(delay, onChange),
		files:    make(map[string]time.Time),
	}
}

// Add starts watching path.
func (p *Poller) Add(path string) error {
	path, err := abs(path)
	if err != nil {
		return err
	}
	var mod time.Time
	if info, err := os.Stat(path); err == nil {
		mod = info.ModTime()
	}
	p.mu.Lock()
	p.files[path] = mod
	p.mu.Unlock()
	return nil
}

// Run polls until ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	defer p.deb.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.check()
		}
	}
}

func (p *Poller) check() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for path, last := range p.files {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if !info.ModTime().Equal(last) {
			p.files[path] = info.ModTime()
			p.deb.fire(path)
		}
	}
}

// Close implements Watcher.
func (p *Poller) Close() error {
	p.deb.stop()
	return nil
}
