//go:build !linux

package pshared

import (
	"sync/atomic"
	"time"

	"github.com/mersinvald/shm-ipc/shm"
)

func futexWait(addr *atomic.Uint32, expected uint32, timeout *time.Duration) (bool, error) {
	return false, shm.ErrNotSupported
}

func futexWake(addr *atomic.Uint32, n int32) error {
	return shm.ErrNotSupported
}
