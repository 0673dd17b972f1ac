package utils

import (
	"sync"
	"sync/atomic"
)

type OptionalMutex struct {
	Mutex    sync.Mutex
	UseMutex bool
}

func (m *OptionalMutex) Lock() {
	if m.UseMutex {
		m.Mutex.Lock()
	}
}

func (m *OptionalMutex) Unlock() {
	if m.UseMutex {
		m.Mutex.Unlock()
	}
}

const (
	cellEmpty uint32 = iota
	cellInitializing
	cellReady
)

// OnceCell holds a value that is set at most once. Setting is an atomic set-if-unset: exactly one
// caller of TrySet wins the right to construct the value, and every other caller observes the cell
// as taken, even while construction is still running.
type OnceCell[T any] struct {
	state atomic.Uint32
	value atomic.Pointer[T]
}

// TrySet runs construct and stores its result if the cell is empty. The boolean return is false if
// the cell was already taken, in which case construct is never called. If construct fails or
// panics, the cell returns to empty so that a later call may try again.
func (c *OnceCell[T]) TrySet(construct func() (*T, error)) (won bool, err error) {
	if !c.state.CompareAndSwap(cellEmpty, cellInitializing) {
		return false, nil
	}

	stored := false
	defer func() {
		if !stored {
			c.state.Store(cellEmpty)
		}
	}()

	value, err := construct()
	if err != nil {
		return true, err
	}

	c.value.Store(value)
	c.state.Store(cellReady)
	stored = true
	return true, nil
}

// Get returns the stored value, or false if the cell has not been successfully set
func (c *OnceCell[T]) Get() (*T, bool) {
	if c.state.Load() != cellReady {
		return nil, false
	}

	value := c.value.Load()
	return value, value != nil
}

// IsSet reports whether a value is stored in the cell
func (c *OnceCell[T]) IsSet() bool {
	return c.state.Load() == cellReady
}
