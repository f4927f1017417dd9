package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// expectChange runs w until onChange has been called for path.
func expectChange(t *testing.T, w Watcher, changes <-chan string, path string, touch func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run: %v", err)
		}
	}()

	touch()

	want, err := abs(path)
	if err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-changes:
		if got != want {
			t.Errorf("changed path = %q, want %q", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no change reported for %s", path)
	}
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPoller(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.sug")
	writeFile(t, path, "declare main = !;\n")

	changes := make(chan string, 4)
	p := NewPoller(10*time.Millisecond, 10*time.Millisecond, func(p string) { changes <- p })
	defer p.Close()
	if err := p.Add(path); err != nil {
		t.Fatal(err)
	}

	expectChange(t, p, changes, path, func() {
		writeFile(t, path, "declare main = byte;\n")
		future := time.Now().Add(time.Hour)
		if err := os.Chtimes(path, future, future); err != nil {
			t.Fatal(err)
		}
	})
}

func TestPollerMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "later.sug")
	changes := make(chan string, 4)
	p := NewPoller(10*time.Millisecond, 10*time.Millisecond, func(p string) { changes <- p })
	defer p.Close()
	if err := p.Add(path); err != nil {
		t.Fatal(err)
	}

	expectChange(t, p, changes, path, func() {
		writeFile(t, path, "declare main = !;\n")
	})
}

func TestDebounce(t *testing.T) {
	var calls atomic.Int32
	d := newDebouncer(50*time.Millisecond, func(string) { calls.Add(1) })
	for i := 0; i < 5; i++ {
		d.fire("a")
	}
	d.fire("b")
	time.Sleep(300 * time.Millisecond)
	if got := calls.Load(); got != 2 {
		t.Errorf("callbacks = %d, want 2", got)
	}
}

func TestDebounceStop(t *testing.T) {
	var calls atomic.Int32
	d := newDebouncer(50*time.Millisecond, func(string) { calls.Add(1) })
	d.fire("a")
	d.stop()
	time.Sleep(150 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("callbacks after stop = %d, want 0", got)
	}
}

func TestDebounceSerializes(t *testing.T) {
	var active, peak, calls atomic.Int32
	d := newDebouncer(10*time.Millisecond, func(string) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(100 * time.Millisecond)
		active.Add(-1)
		calls.Add(1)
	})

	d.fire("a")
	time.Sleep(30 * time.Millisecond)
	d.fire("a")
	d.fire("b")
	time.Sleep(500 * time.Millisecond)

	if got := calls.Load(); got != 3 {
		t.Errorf("callbacks = %d, want 3", got)
	}
	if got := peak.Load(); got != 1 {
		t.Errorf("concurrent callbacks = %d, want 1", got)
	}
}
