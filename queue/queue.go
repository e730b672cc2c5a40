// Package queue implements a bounded, blocking, multi-producer
// multi-consumer queue over a fixed-capacity ring buffer, usable from
// multiple unrelated processes mapping the same shm.Shm region. It
// composes one pshared.Mutex guarding the ring with two pshared.Cond
// variables: inCond (signalled when a slot becomes present, waited on by
// an empty-queue Pop) and outCond (signalled when a slot becomes absent,
// waited on by a full-queue Push).
package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/mersinvald/shm-ipc/pshared"
	"github.com/mersinvald/shm-ipc/shm"
)

// popContextPollInterval bounds how promptly PopContext notices ctx
// cancellation while otherwise blocked waiting for a value.
const popContextPollInterval = 50 * time.Millisecond

// Queue is the payload placed inside a shm.Shm region by New. Every field
// is either plain data or a pshared primitive, so the whole struct is
// valid to place directly inside a memory-mapped region and operated on
// concurrently by unrelated processes.
type Queue[T any] struct {
	buffer  pshared.Mutex[ringBuffer[T]]
	inCond  pshared.Cond[ringBuffer[T]]
	outCond pshared.Cond[ringBuffer[T]]
	stats   counters
}

// New creates a fresh bounded queue of the given capacity inside a new
// shared-memory region and returns a handle to it. capacity is clamped to
// at least 1 and must not exceed MaxCapacity.
func New[T any](capacity int) (*shm.Shm[Queue[T]], error) {
	if capacity < 1 {
		capacity = 1
	}
	if capacity > MaxCapacity {
		return nil, fmt.Errorf("queue: capacity %d exceeds MaxCapacity %d", capacity, MaxCapacity)
	}
	q := Queue[T]{
		buffer: pshared.NewMutex(newRingBuffer[T](capacity)),
	}
	return shm.New(q)
}

// NewLinked creates a fresh queue and returns two handles to it — a Clone
// pair — for the common case of handing one end to a producer and keeping
// the other, without the caller having to call Clone itself.
func NewLinked[T any](capacity int) (*shm.Shm[Queue[T]], *shm.Shm[Queue[T]], error) {
	h1, err := New[T](capacity)
	if err != nil {
		return nil, nil, err
	}
	h2 := h1.Clone()
	return h1, h2, nil
}

// Push blocks until there is room for v, then adds it to the queue.
func (q *Queue[T]) Push(v T) error {
	g := q.buffer.Lock()
	var err error
	waiting := false
	for g.Value().full() {
		if !waiting {
			q.stats.enterPushWait()
			waiting = true
		}
		g, err = q.outCond.Wait(g)
		if err != nil {
			if waiting {
				q.stats.exitPushWait()
			}
			return err
		}
	}
	if waiting {
		q.stats.exitPushWait()
	}

	g.Value().write(v)
	q.stats.recordPush()
	if err := g.Unlock(); err != nil {
		return err
	}
	return q.inCond.Signal()
}

// Pop blocks until a value is available and returns it. It never returns
// early: it is a thin call to PopContext with context.Background(), so a
// cancelled or deadlined context is never in play and the zero-argument
// blocking contract is unchanged from the original spec.
func (q *Queue[T]) Pop() (T, error) {
	return q.PopContext(context.Background())
}

// PopContext behaves like Pop but returns ctx.Err() within about
// popContextPollInterval of ctx being cancelled, instead of blocking
// indefinitely. It is implemented by
// polling TimedPop on popContextPollInterval rather than a single
// cancellable futex wait, since a raw FUTEX_WAIT has no notion of an
// external cancellation signal.
func (q *Queue[T]) PopContext(ctx context.Context) (T, error) {
	for {
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		default:
		}
		v, ok, err := q.TimedPop(popContextPollInterval)
		if err != nil {
			var zero T
			return zero, err
		}
		if ok {
			return v, nil
		}
	}
}

// TryPop takes a value if one is immediately available, without blocking.
func (q *Queue[T]) TryPop() (T, bool, error) {
	g := q.buffer.Lock()
	if g.Value().empty() {
		if err := g.Unlock(); err != nil {
			var zero T
			return zero, false, err
		}
		var zero T
		return zero, false, nil
	}

	v, _ := g.Value().tryRead()
	q.stats.recordPop()
	if err := g.Unlock(); err != nil {
		return v, true, err
	}
	return v, true, q.outCond.Signal()
}

// TimedPop takes a value if one is available within d. If the queue is
// already non-empty it returns immediately; otherwise it waits on inCond
// once, for up to d. A timeout returns (zero, false, nil) without
// signalling outCond, since nothing was consumed — only a call that
// actually took a value ever signals. A woken wait that loses a race
// against another consumer (or a spurious wakeup) also returns (zero,
// false, nil); callers must not infer "queue will stay empty" from one
// miss.
func (q *Queue[T]) TimedPop(d time.Duration) (T, bool, error) {
	g := q.buffer.Lock()

	if !g.Value().empty() {
		v, _ := g.Value().tryRead()
		q.stats.recordPop()
		if err := g.Unlock(); err != nil {
			return v, true, err
		}
		return v, true, q.outCond.Signal()
	}

	q.stats.enterPopWait()
	var woke bool
	var err error
	g, woke, err = q.inCond.TimedWait(g, d)
	q.stats.exitPopWait()
	if err != nil {
		var zero T
		return zero, false, err
	}

	if woke && !g.Value().empty() {
		v, _ := g.Value().tryRead()
		q.stats.recordPop()
		if err := g.Unlock(); err != nil {
			return v, true, err
		}
		return v, true, q.outCond.Signal()
	}

	if err := g.Unlock(); err != nil {
		var zero T
		return zero, false, err
	}
	var zero T
	return zero, false, nil
}

// Stats returns a best-effort snapshot of this queue's cumulative
// activity, read without acquiring the buffer mutex.
func (q *Queue[T]) Stats() Stats {
	return q.stats.snapshot()
}
