//go:build !linux

package watch

// New returns the platform's preferred Watcher.
func New(onChange func(path string)) (Watcher, error) {
	return NewPoller(DefaultDelay, DefaultDelay, onChange), nil
}
