package queue

// MaxCapacity bounds the capacity parameter accepted by New and
// NewLinked. Go has no const generics, so a ring buffer's backing storage
// cannot be sized to an arbitrary compile-time capacity the way the
// original's array-typed buffer is; instead every ringBuffer[T] carries a
// fixed-size array sized to the largest capacity this module supports, and
// capacity is a runtime-checked upper bound on how much of that array is
// actually used.
const MaxCapacity = 256

// slot is one cell of the ring: present/empty plus the stored value. T is
// expected to be trivially copyable — no pointers into a specific
// process's private memory, no resource handles whose validity depends on
// the process that created them — since the slot array lives inside a
// shared-memory mapping that other processes read and write directly.
type slot[T any] struct {
	present bool
	value   T
}

// ringBuffer is a fixed-capacity circular array of slots, always accessed
// under the pshared.Mutex embedded in the enclosing Queue. It exposes only
// write and tryRead, the sole two slot-state transitions, plus the full/
// empty predicates Queue's wait loops check.
type ringBuffer[T any] struct {
	capacity int
	writeIdx int
	readIdx  int
	slots    [MaxCapacity]slot[T]
}

func newRingBuffer[T any](capacity int) ringBuffer[T] {
	return ringBuffer[T]{capacity: capacity}
}

// full reports whether the slot at writeIdx is present — the buffer has
// no room for another write until a read advances past it.
func (r *ringBuffer[T]) full() bool {
	return r.slots[r.writeIdx].present
}

// empty reports whether the slot at readIdx is absent.
func (r *ringBuffer[T]) empty() bool {
	return !r.slots[r.readIdx].present
}

// write stores v at writeIdx and advances it, or returns false if the
// buffer is full. Callers never see false through Queue's public API —
// the blocking queue converts it into a wait instead.
func (r *ringBuffer[T]) write(v T) bool {
	s := &r.slots[r.writeIdx]
	if s.present {
		return false
	}
	s.present = true
	s.value = v
	r.writeIdx = (r.writeIdx + 1) % r.capacity
	return true
}

// tryRead takes the value at readIdx, leaving the slot empty, and advances
// readIdx if a value was present. ok is false (with the zero value) if the
// buffer was empty.
func (r *ringBuffer[T]) tryRead() (v T, ok bool) {
	s := &r.slots[r.readIdx]
	if !s.present {
		return v, false
	}
	v = s.value
	var zero T
	s.value = zero
	s.present = false
	r.readIdx = (r.readIdx + 1) % r.capacity
	return v, true
}
