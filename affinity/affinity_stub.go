//go:build !linux
// +build !linux

// File: affinity/affinity_stub.go
//
// Stub implementation for unsupported platforms. Returns an error to
// indicate unavailability, rather than silently no-op pinning.

package affinity

import "errors"

// setAffinityPlatform is a stub for platforms where CPU affinity pinning
// is not implemented by this module.
func setAffinityPlatform(cpuID int) error {
	return errors.New("affinity: not supported on this platform")
}
