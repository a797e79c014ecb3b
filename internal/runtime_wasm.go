//go:build wasm

package internal

import "sync"

var once sync.Once
var globalRuntime *Runtime

func GetRuntime() *Runtime {
	once.Do(func() {
		globalRuntime = NewRuntime()
	})

	return globalRuntime
}

func WithRuntime(r *Runtime, fn func()) {
	prev := GetRuntime()
	globalRuntime = r
	defer func() { globalRuntime = prev }()

	fn()
}

// wasm runs a single thread.
func currentGID() int64 {
	return 1
}
