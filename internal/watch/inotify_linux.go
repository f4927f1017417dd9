//go:build linux

package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	inotifyMask = unix.IN_CLOSE_WRITE | unix.IN_MODIFY | unix.IN_MOVED_TO | unix.IN_CREATE
	nameMax     = 255
)

// Inotify watches files through inotify watches on their directories.
type Inotify struct {
	fd  int
	deb *debouncer

	mu    sync.Mutex
	dirs  map[int]string // watch descriptor -> directory
	wds   map[string]int // directory -> watch descriptor
	files map[string]bool
}

// New returns the platform's preferred Watcher.
func New(onChange func(path string)) (Watcher, error) {
	return NewInotify(DefaultDelay, onChange)
}

// NewInotify returns an inotify watcher that calls onChange after delay.
func NewInotify(delay time.Duration, onChange func(path string)) (*Inotify, error) {
	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("inotify_init failed: %w", err)
	}
	return &Inotify{
		fd:    fd,
		deb:   newDebouncer(delay, onChange),
		dirs:  make(map[int]string),
		wds:   make(map[string]int),
		files: make(map[string]bool),
	}, nil
}

// Add implements Watcher.
func (w *Inotify) Add(path string) error {
	path, err := abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.wds[dir]; !ok {
		wd, err := unix.InotifyAddWatch(w.fd, dir, inotifyMask)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.dirs[wd] = dir
		w.wds[dir] = wd
	}
	w.files[path] = true
	return nil
}

// Run implements Watcher.
func (w *Inotify) Run(ctx context.Context) error {
	defer w.deb.stop()

	buf := make([]byte, 16*(unix.SizeofInotifyEvent+nameMax+1))
	fds := []unix.PollFd{{Fd: int32(w.fd), Events: unix.POLLIN}}

	for {
		if ctx.Err() != nil {
			return nil
		}
		n, err := unix.Poll(fds, 100)
		if err == unix.EINTR || n == 0 {
			continue
		}
		if err != nil {
			return fmt.Errorf("poll inotify: %w", err)
		}

		n, err = unix.Read(w.fd, buf)
		if err == unix.EAGAIN || err == unix.EINTR {
			continue
		}
		if err != nil {
			return fmt.Errorf("read inotify: %w", err)
		}
		w.dispatch(buf[:n])
	}
}

// dispatch reports the watched files named by the events in buf.
func (w *Inotify) dispatch(buf []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for off := 0; off+unix.SizeofInotifyEvent <= len(buf); {
		ev := (*unix.InotifyEvent)(unsafe.Pointer(&buf[off]))
		nameBytes := buf[off+unix.SizeofInotifyEvent : off+unix.SizeofInotifyEvent+int(ev.Len)]
		off += unix.SizeofInotifyEvent + int(ev.Len)

		if ev.Mask&inotifyMask == 0 || ev.Len == 0 {
			continue
		}
		dir, ok := w.dirs[int(ev.Wd)]
		if !ok {
			continue
		}
		path := filepath.Join(dir, unix.ByteSliceToString(nameBytes))
		if w.files[path] {
			w.deb.fire(path)
		}
	}
}

// Close implements Watcher.
func (w *Inotify) Close() error {
	w.deb.stop()
	return unix.Close(w.fd)
}
