//go:build linux

// Package pshared implements process-shared synchronization primitives —
// a mutex and a condition variable — usable by unrelated processes that
// share a single mapped memory region. Linux provides no pthread_mutex_t
// equivalent reachable without cgo, so both primitives are built directly
// on the futex syscall, deliberately without FUTEX_PRIVATE_FLAG: a private
// futex is allowed to assume all waiters live in the same address space,
// which does not hold here.
package pshared

import (
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	futexWaitOp = 0 // FUTEX_WAIT
	futexWakeOp = 1 // FUTEX_WAKE
)

// futexWait blocks while *addr == expected, per futex(2) atomic-compare
// semantics: the kernel re-checks *addr against expected after registering
// the wait, so a wake delivered between the caller's read of *addr and the
// syscall is never missed. A nil timeout blocks indefinitely. timeout, when
// given, is relative — this wrapper does not use FUTEX_WAIT's absolute-time
// variants. timedOut reports whether the call returned because the
// deadline passed rather than because of a wake or a changed *addr.
func futexWait(addr *atomic.Uint32, expected uint32, timeout *time.Duration) (timedOut bool, err error) {
	var ts *unix.Timespec
	if timeout != nil {
		spec := unix.NsecToTimespec(timeout.Nanoseconds())
		ts = &spec
	}

	_, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		futexWaitOp,
		uintptr(expected),
		uintptr(unsafe.Pointer(ts)),
		0, 0,
	)
	switch errno {
	case 0, unix.EAGAIN, unix.EINTR:
		return false, nil
	case unix.ETIMEDOUT:
		return true, nil
	default:
		return false, NewFutexError("futex_wait", errno)
	}
}

// futexWake wakes up to n waiters blocked on addr.
func futexWake(addr *atomic.Uint32, n int32) error {
	_, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		futexWakeOp,
		uintptr(n),
		0, 0, 0,
	)
	if errno != 0 {
		return NewFutexError("futex_wake", errno)
	}
	return nil
}
