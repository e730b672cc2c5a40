package queue

import "testing"

func TestRingBufferWriteReadRoundTrip(t *testing.T) {
	r := newRingBuffer[int](4)

	if !r.empty() {
		t.Fatal("fresh buffer reports non-empty")
	}
	if r.full() {
		t.Fatal("fresh buffer reports full")
	}

	if !r.write(1) {
		t.Fatal("write into empty slot failed")
	}
	if r.empty() {
		t.Fatal("buffer with one write reports empty")
	}

	v, ok := r.tryRead()
	if !ok || v != 1 {
		t.Fatalf("tryRead = (%d, %v), want (1, true)", v, ok)
	}
	if !r.empty() {
		t.Fatal("buffer empty after single read reports non-empty")
	}
}

func TestRingBufferFillAndOverflow(t *testing.T) {
	r := newRingBuffer[int](3)

	for i := 0; i < 3; i++ {
		if !r.write(i) {
			t.Fatalf("write(%d) unexpectedly failed before full", i)
		}
	}
	if !r.full() {
		t.Fatal("buffer with capacity writes reports non-full")
	}
	if r.write(99) {
		t.Fatal("write into full buffer unexpectedly succeeded")
	}
}

func TestRingBufferFIFOOrderAcrossWrap(t *testing.T) {
	r := newRingBuffer[int](3)

	for i := 0; i < 2; i++ {
		if !r.write(i) {
			t.Fatalf("write(%d) failed", i)
		}
	}
	if v, ok := r.tryRead(); !ok || v != 0 {
		t.Fatalf("first tryRead = (%d, %v), want (0, true)", v, ok)
	}
	if !r.write(2) {
		t.Fatal("write(2) failed")
	}
	if !r.write(3) {
		t.Fatal("write(3), wrapping writeIdx, failed")
	}

	want := []int{1, 2, 3}
	for _, w := range want {
		v, ok := r.tryRead()
		if !ok || v != w {
			t.Fatalf("tryRead = (%d, %v), want (%d, true)", v, ok, w)
		}
	}
	if !r.empty() {
		t.Fatal("buffer drained of all writes reports non-empty")
	}
}

func TestRingBufferTryReadOnEmptyReturnsZeroValue(t *testing.T) {
	r := newRingBuffer[string](2)
	v, ok := r.tryRead()
	if ok {
		t.Fatal("tryRead on empty buffer returned ok=true")
	}
	if v != "" {
		t.Fatalf("tryRead on empty buffer returned %q, want zero value", v)
	}
}
