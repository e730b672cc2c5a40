//go:build linux
// +build linux

// File: affinity/affinity_linux.go
//
// Linux-specific implementation for setting thread CPU affinity. Built on
// golang.org/x/sys/unix's sched_setaffinity wrapper rather than a cgo call
// into pthread_setaffinity_np: this module's other syscall-adjacent code
// (pshared's futex wrapper, shm's mmap wrapper) is pure Go without cgo, and
// pinning one OS thread is a plain syscall with no libc-side state worth
// paying a cgo call's overhead for.

package affinity

import (
	"golang.org/x/sys/unix"
)

// setAffinityPlatform sets the calling goroutine's OS thread affinity to a
// single CPU. Callers must have already pinned the goroutine to its OS
// thread with runtime.LockOSThread — sched_setaffinity applies to the
// calling thread, and the Go scheduler is free to migrate an unlocked
// goroutine to a different thread right after this call returns.
func setAffinityPlatform(cpuID int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	return unix.SchedSetaffinity(0, &set)
}
