//go:build linux

// Package affinity pins the calling goroutine's OS thread to a single
// CPU, the way scatter_v1.cpp/gather_v1.cpp pin each worker thread
// with pthread_setaffinity_np so the three pipeline stages don't
// contend for cache with each other.
package affinity

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// Pin locks the calling goroutine to its current OS thread with
// runtime.LockOSThread, then restricts that thread to cpu. Callers run
// it as the first line of a worker goroutine and must not call
// runtime.UnlockOSThread afterwards: the goroutine is meant to keep
// exclusive use of its pinned thread for the rest of its life, and
// when it eventually returns, the Go runtime destroys a still-locked
// thread instead of returning it to the scheduler's pool, so the pin
// never leaks onto an unrelated goroutine.
func Pin(cpu int) error {
	runtime.LockOSThread()

	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("pin to cpu %d: %w", cpu, err)
	}
	return nil
}
