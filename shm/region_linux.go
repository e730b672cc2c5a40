//go:build linux

package shm

import (
	"errors"

	"golang.org/x/sys/unix"
)

const shmDir = "/dev/shm/"

// createRegion creates a freshly named POSIX shared-memory object under
// /dev/shm, truncates it to size, maps it MAP_SHARED, then closes and
// unlinks the original descriptor — the returned fd is a duplicate kept
// open purely so the mapping can be handed to a child process later. The
// mapping itself stays valid after the unlink; Linux shared memory objects
// are reference-counted by open fds and mappings, not by directory entries.
func createRegion(size uintptr) (mapping []byte, fd int, err error) {
	for attempt := 0; attempt < maxNameRetries; attempt++ {
		name, nerr := randomName()
		if nerr != nil {
			return nil, -1, nerr
		}
		path := shmDir + name

		f, oerr := unix.Open(path, unix.O_RDWR|unix.O_CREAT|unix.O_EXCL, 0o600)
		if oerr != nil {
			if oerr == unix.EEXIST {
				continue
			}
			return nil, -1, translateErrno(oerr)
		}

		if terr := unix.Ftruncate(f, int64(size)); terr != nil {
			unix.Close(f)
			unix.Unlink(path)
			return nil, -1, translateErrno(terr)
		}

		data, merr := unix.Mmap(f, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
		if merr != nil {
			unix.Close(f)
			unix.Unlink(path)
			return nil, -1, translateErrno(merr)
		}

		dup, derr := unix.Dup(f)
		if derr != nil {
			unix.Munmap(data)
			unix.Close(f)
			unix.Unlink(path)
			return nil, -1, translateErrno(derr)
		}

		unix.Close(f)
		unix.Unlink(path)
		return data, dup, nil
	}
	return nil, -1, ErrAlreadyExists
}

// openRegion maps size bytes from an already-open descriptor — one handed
// down across a process boundary rather than created locally.
func openRegion(fd int, size uintptr) ([]byte, error) {
	data, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, translateErrno(err)
	}
	return data, nil
}

// closeRegion unmaps mapping and closes fd. Called only by the handle
// whose Close drove the region's refcount to zero.
func closeRegion(mapping []byte, fd int) error {
	if err := unix.Munmap(mapping); err != nil {
		return NewSyncError("munmap", err)
	}
	if err := unix.Close(fd); err != nil {
		return NewSyncError("close", err)
	}
	return nil
}

// dupFD duplicates fd so the copy's lifetime can be handed to a caller
// (typically os.NewFile, then exec.Cmd.ExtraFiles) independent of the
// originating Shm handle.
func dupFD(fd int) (int, error) {
	dup, err := unix.Dup(fd)
	if err != nil {
		return -1, NewSyncError("dup", err)
	}
	return dup, nil
}

// translateErrno maps a raw unix.Errno to this package's error taxonomy,
// falling back to a wrapped SyncError for anything unrecognized.
func translateErrno(err error) error {
	var errno unix.Errno
	if errors.As(err, &errno) {
		switch errno {
		case unix.EEXIST:
			return ErrAlreadyExists
		case unix.EACCES, unix.EPERM:
			return ErrPermissionDenied
		case unix.ENOMEM, unix.ENOSPC, unix.EMFILE, unix.ENFILE:
			return ErrResourceExhausted
		}
	}
	return NewSyncError("region", err)
}
