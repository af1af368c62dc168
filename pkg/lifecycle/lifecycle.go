// Package lifecycle provides helpers for owning long-lived plugin instances:
// a once-guarded process-wide singleton and scoped release.
package lifecycle

import (
	"errors"
	"io"
	"sync"
)

// LifecycleManager is implemented by plugins that own background work.
type LifecycleManager interface {
	// Shutdown stops the plugin. It is idempotent.
	Shutdown()
	io.Closer
}

// Singleton constructs a value on first use and hands the same value (and
// construction error) to every later caller. Construction runs at most once.
type Singleton[T any] struct {
	once  sync.Once
	value T
	err   error
	done  bool
	mu    sync.RWMutex
}

// Get returns the instance, calling build only on the first call.
func (s *Singleton[T]) Get(build func() (T, error)) (T, error) {
	s.once.Do(func() {
		v, err := build()
		s.mu.Lock()
		s.value, s.err, s.done = v, err, true
		s.mu.Unlock()
	})
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.err
}

// Loaded returns the instance if it has been built.
func (s *Singleton[T]) Loaded() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.done && s.err == nil
}

// CloseAll closes every closer and joins their errors. It is meant for
// `defer` at the point the owning scope ends.
func CloseAll(closers ...io.Closer) error {
	var errs []error
	for _, c := range closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
