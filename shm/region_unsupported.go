//go:build !linux

package shm

// Named POSIX shared memory plus a process-shared futex is a Linux-specific
// contract; this module does not attempt to emulate it on other platforms.

func createRegion(size uintptr) ([]byte, int, error) {
	return nil, -1, ErrNotSupported
}

func openRegion(fd int, size uintptr) ([]byte, error) {
	return nil, ErrNotSupported
}

func closeRegion(mapping []byte, fd int) error {
	return ErrNotSupported
}

func dupFD(fd int) (int, error) {
	return -1, ErrNotSupported
}
