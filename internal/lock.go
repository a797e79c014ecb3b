package internal

import (
	"sync"
	"sync/atomic"
)

// reentrantMutex serializes every operation of a runtime across goroutines,
// while letting the goroutine holding it re-enter: a wire body writing a
// signal, or a post-run task mutating a store, runs nested on the same lock.
type reentrantMutex struct {
	mu    sync.Mutex
	owner atomic.Int64
	depth int
}

func (m *reentrantMutex) Lock() {
	gid := currentGID()
	if m.owner.Load() == gid {
		m.depth++
		return
	}

	m.mu.Lock()
	m.owner.Store(gid)
	m.depth = 1
}

func (m *reentrantMutex) Unlock() {
	m.depth--
	if m.depth == 0 {
		m.owner.Store(0)
		m.mu.Unlock()
	}
}
