// File: shm/errors.go
//
// Typed error taxonomy for the shared-region, process-shared sync, and
// queue packages. Mirrors the code+message convention the rest of this
// module uses instead of bare fmt.Errorf strings, so callers can
// errors.Is against a stable identity regardless of which package raised
// the error.
package shm

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across shm, pshared, and queue.
var (
	// ErrResourceExhausted is returned when the OS has no shared memory,
	// mapping space, or file descriptors left to satisfy the request.
	ErrResourceExhausted = errors.New("shm: resource exhausted")

	// ErrAlreadyExists is returned when a shared-memory name collided with
	// an existing object. Shm.New retries a bounded number of times before
	// surfacing this.
	ErrAlreadyExists = errors.New("shm: name already exists")

	// ErrPermissionDenied is returned when opening or mapping the segment
	// was denied by the kernel.
	ErrPermissionDenied = errors.New("shm: permission denied")

	// ErrNotSupported is returned on platforms that lack the OS contracts
	// this package depends on (named POSIX shared memory under /dev/shm
	// plus a process-shared futex).
	ErrNotSupported = errors.New("shm: not supported on this platform")

	// ErrClosed is returned by Close when called on a handle that has
	// already been closed.
	ErrClosed = errors.New("shm: handle is closed")
)

// SyncError wraps a failure reported by an underlying process-shared
// synchronization primitive (futex wait/wake, mmap, munmap). Callers are
// expected to treat it as fatal: it indicates kernel-level resource
// exhaustion or a corrupted shared segment, not a recoverable condition.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("shm: %s: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// NewSyncError wraps err, which is typically a unix.Errno, with the
// operation name that produced it.
func NewSyncError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &SyncError{Op: op, Err: err}
}
