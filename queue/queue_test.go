package queue

import (
	"context"
	"sync"
	"testing"
	"time"
)

func newTestQueue[T any](t *testing.T, capacity int) *Queue[T] {
	t.Helper()
	h, err := New[T](capacity)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		if err := h.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return h.Value()
}

func TestSingleThreadedRoundTrip(t *testing.T) {
	q := newTestQueue[int](t, 8)

	if _, ok, err := q.TryPop(); err != nil || ok {
		t.Fatalf("TryPop on empty = (ok=%v, err=%v), want (false, nil)", ok, err)
	}

	if err := q.Push(1); err != nil {
		t.Fatalf("Push: %v", err)
	}

	v, ok, err := q.TryPop()
	if err != nil || !ok || v != 1 {
		t.Fatalf("TryPop = (%d, %v, %v), want (1, true, nil)", v, ok, err)
	}

	if _, ok, err := q.TryPop(); err != nil || ok {
		t.Fatalf("TryPop after drain = (ok=%v, err=%v), want (false, nil)", ok, err)
	}
}

func TestFillOverflowBlockDrain(t *testing.T) {
	q := newTestQueue[int](t, 8)

	for i := 0; i < 8; i++ {
		if err := q.Push(i); err != nil {
			t.Fatalf("Push(%d): %v", i, err)
		}
	}

	pushed := make(chan struct{})
	go func() {
		if err := q.Push(8); err != nil {
			t.Errorf("blocked Push(8): %v", err)
		}
		close(pushed)
	}()

	select {
	case <-pushed:
		t.Fatal("Push into a full queue returned before any Pop")
	case <-time.After(20 * time.Millisecond):
	}

	v, err := q.Pop()
	if err != nil || v != 0 {
		t.Fatalf("Pop = (%d, %v), want (0, nil)", v, err)
	}

	select {
	case <-pushed:
	case <-time.After(time.Second):
		t.Fatal("blocked Push never completed after a Pop freed a slot")
	}

	for want := 1; want <= 8; want++ {
		v, err := q.Pop()
		if err != nil || v != want {
			t.Fatalf("drain Pop = (%d, %v), want (%d, nil)", v, err, want)
		}
	}
}

func TestMultiProducerSingleConsumerInProcess(t *testing.T) {
	q := newTestQueue[int](t, 8)

	const n = 10000
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			if err := q.Push(i); err != nil {
				t.Errorf("Push(%d): %v", i, err)
				return
			}
		}
	}()

	for want := 0; want < n; want++ {
		v, err := q.Pop()
		if err != nil {
			t.Fatalf("Pop: %v", err)
		}
		if v != want {
			t.Fatalf("Pop = %d, want %d", v, want)
		}
	}
	wg.Wait()
}

func TestTimedPopTimeout(t *testing.T) {
	q := newTestQueue[int](t, 4)

	start := time.Now()
	v, ok, err := q.TimedPop(50 * time.Millisecond)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("TimedPop: %v", err)
	}
	if ok {
		t.Fatalf("TimedPop on empty queue returned ok=true, v=%d", v)
	}
	if elapsed < 45*time.Millisecond {
		t.Fatalf("TimedPop returned after %v, want at least ~50ms", elapsed)
	}
}

func TestTimedPopReturnsAvailableValueImmediately(t *testing.T) {
	q := newTestQueue[int](t, 4)
	if err := q.Push(42); err != nil {
		t.Fatalf("Push: %v", err)
	}

	start := time.Now()
	v, ok, err := q.TimedPop(time.Second)
	elapsed := time.Since(start)

	if err != nil || !ok || v != 42 {
		t.Fatalf("TimedPop = (%d, %v, %v), want (42, true, nil)", v, ok, err)
	}
	if elapsed > 100*time.Millisecond {
		t.Fatalf("TimedPop with an available value took %v, want near-instant", elapsed)
	}
}

func TestPopContextCancellation(t *testing.T) {
	q := newTestQueue[int](t, 4)

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	_, err := q.PopContext(ctx)
	if err != context.DeadlineExceeded {
		t.Fatalf("PopContext err = %v, want context.DeadlineExceeded", err)
	}
}

func TestStatsTracksPushAndPop(t *testing.T) {
	q := newTestQueue[int](t, 4)

	if err := q.Push(1); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := q.Push(2); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if _, err := q.Pop(); err != nil {
		t.Fatalf("Pop: %v", err)
	}

	s := q.Stats()
	if s.Pushed != 2 || s.Popped != 1 {
		t.Fatalf("Stats = %+v, want Pushed=2 Popped=1", s)
	}
}
