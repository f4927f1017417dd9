//go:build linux

package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestInotify(t *testing.T, path string) (*Inotify, chan string) {
	t.Helper()
	changes := make(chan string, 4)
	w, err := NewInotify(10*time.Millisecond, func(p string) { changes <- p })
	if err != nil {
		t.Skipf("inotify unavailable: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	if err := w.Add(path); err != nil {
		t.Fatal(err)
	}
	return w, changes
}

func TestInotifyWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.sug")
	writeFile(t, path, "declare main = !;\n")
	w, changes := newTestInotify(t, path)

	expectChange(t, w, changes, path, func() {
		writeFile(t, path, "declare main = byte;\n")
	})
}

func TestInotifyRenameOver(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.sug")
	writeFile(t, path, "declare main = !;\n")
	w, changes := newTestInotify(t, path)

	expectChange(t, w, changes, path, func() {
		tmp := filepath.Join(dir, ".main.sug.swp")
		writeFile(t, tmp, "declare main = byte;\n")
		if err := os.Rename(tmp, path); err != nil {
			t.Fatal(err)
		}
	})
}

func TestInotifyIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.sug")
	writeFile(t, path, "")
	w, changes := newTestInotify(t, path)

	expectChange(t, w, changes, path, func() {
		writeFile(t, filepath.Join(dir, "other.sug"), "x")
		time.Sleep(50 * time.Millisecond)
		writeFile(t, path, "declare main = !;\n")
	})
}
