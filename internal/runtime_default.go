//go:build !wasm

package internal

import (
	"sync"

	"github.com/petermattis/goid"
)

var runtimes sync.Map

// GetRuntime returns the runtime bound to the calling goroutine,
// creating one on first use.
func GetRuntime() *Runtime {
	gid := currentGID()

	if r, ok := runtimes.Load(gid); ok {
		return r.(*Runtime)
	}

	r := NewRuntime()
	runtimes.Store(gid, r)
	return r
}

// WithRuntime binds r to the calling goroutine while fn runs.
func WithRuntime(r *Runtime, fn func()) {
	gid := currentGID()

	prev, had := runtimes.Load(gid)
	runtimes.Store(gid, r)
	defer func() {
		if had {
			runtimes.Store(gid, prev)
		} else {
			runtimes.Delete(gid)
		}
	}()

	fn()
}

func currentGID() int64 {
	return goid.Get()
}
