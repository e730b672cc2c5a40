// File: shm/name.go
//
// Random shared-memory object naming. Names are generated, used once to
// create the backing object, and unlinked immediately after mapping — the
// name never needs to be rediscovered, so ten random printable characters
// are enough to make collisions vanishingly unlikely without adding any
// structure a reader would need to parse.
package shm

import (
	"crypto/rand"
)

const nameLength = 10

// alphabet matches what glibc's shm_open callers conventionally use:
// letters and digits only, safe as a single path component under /dev/shm.
const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomName returns a fresh 10-character name with no relation to any
// prior call. It is not guaranteed unique — callers must handle a
// collision (EEXIST) by generating another and retrying.
func randomName() (string, error) {
	buf := make([]byte, nameLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, nameLength)
	for i, b := range buf {
		out[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(out), nil
}
