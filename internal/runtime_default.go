//go:build !wasm

package internal

import (
	"sync"

	"github.com/petermattis/goid"
)

var runtimes sync.Map

// GetRuntime returns the runtime of the calling goroutine, creating it on first use.
func GetRuntime() *Runtime {
	gid := getGID()

	if r, ok := runtimes.Load(gid); ok {
		return r.(*Runtime)
	}

	r := NewRuntime()
	runtimes.Store(gid, r)
	return r
}

// ReleaseRuntime disposes and forgets the runtime of the calling goroutine.
func ReleaseRuntime() {
	if r, ok := runtimes.LoadAndDelete(getGID()); ok {
		r.(*Runtime).Dispose()
	}
}

func getGID() int64 {
	return goid.Get()
}
