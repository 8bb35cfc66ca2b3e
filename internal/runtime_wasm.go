//go:build wasm

package internal

import "sync"

// wasm programs run on a single goroutine, so every caller shares one runtime.
var (
	mu            sync.Mutex
	globalRuntime *Runtime
)

// GetRuntime returns the program-wide runtime, creating it on first use.
func GetRuntime() *Runtime {
	mu.Lock()
	defer mu.Unlock()

	if globalRuntime == nil {
		globalRuntime = NewRuntime()
	}
	return globalRuntime
}

// ReleaseRuntime disposes and forgets the program-wide runtime. The next
// GetRuntime starts a fresh one.
func ReleaseRuntime() {
	mu.Lock()
	r := globalRuntime
	globalRuntime = nil
	mu.Unlock()

	if r != nil {
		r.Dispose()
	}
}
