package pshared

import "github.com/mersinvald/shm-ipc/shm"

// NewFutexError wraps a raw futex syscall failure with the operation name
// that produced it, reusing the shm package's SyncError so callers can
// errors.Is/As against one taxonomy regardless of which package raised it.
func NewFutexError(op string, err error) error {
	return shm.NewSyncError(op, err)
}
