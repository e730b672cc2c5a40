package pshared

import (
	"math"
	"sync/atomic"
	"time"
)

// Cond is a process-shared condition variable associated with a specific
// Mutex[T]: a sequence counter bumped on every Signal. It holds no
// pointers, so it is safe to embed directly inside a shm.Shm payload
// alongside the Mutex it guards.
//
// Cond is parameterized on T, the same T as the Mutex it is used with, so
// that Wait and TimedWait can take the Guard itself rather than a bare
// unlock/lock pair — a waiter can only ever be woken while holding the
// lock it released to wait, which the type system now enforces.
type Cond[T any] struct {
	seq atomic.Uint32
}

// Wait captures the current sequence, releases g, blocks until a Signal
// changes the sequence, then reacquires the mutex and returns the new
// Guard. Spurious wakeups are permitted — callers must re-check their
// predicate in a loop. Capturing seq before releasing closes the
// missed-wakeup race: the futex syscall re-checks the sequence atomically
// against the captured value, so a Signal delivered between release and
// the syscall is never lost.
func (c *Cond[T]) Wait(g *Guard[T]) (*Guard[T], error) {
	seq := c.seq.Load()
	m := g.m
	if err := g.Unlock(); err != nil {
		return nil, err
	}
	if _, err := futexWait(&c.seq, seq, nil); err != nil {
		return nil, err
	}
	return m.Lock(), nil
}

// TimedWait behaves like Wait but gives up after d. The returned bool is
// false when d elapsed before a wakeup was observed — a distinguishable
// timeout outcome — and true otherwise. d is converted to a FUTEX_WAIT
// relative timeout at the syscall boundary (Linux's futex timeout is
// relative for FUTEX_WAIT, unlike pthread_cond_timedwait's absolute
// deadline); this is an intentional divergence that preserves the same
// observable contract, "returns no earlier than d, barring scheduling
// slack".
func (c *Cond[T]) TimedWait(g *Guard[T], d time.Duration) (*Guard[T], bool, error) {
	seq := c.seq.Load()
	m := g.m
	if err := g.Unlock(); err != nil {
		return nil, false, err
	}
	timedOut, err := futexWait(&c.seq, seq, &d)
	if err != nil {
		return nil, false, err
	}
	return m.Lock(), !timedOut, nil
}

// Signal wakes at least one waiter, if any. Callable while the associated
// mutex is held or immediately after releasing it — both are correct.
func (c *Cond[T]) Signal() error {
	c.seq.Add(1)
	return futexWake(&c.seq, 1)
}

// Broadcast wakes every waiter blocked on c.
func (c *Cond[T]) Broadcast() error {
	c.seq.Add(1)
	return futexWake(&c.seq, math.MaxInt32)
}
