package queue

import "sync/atomic"

// Stats is a point-in-time snapshot of a Queue's cumulative activity —
// ambient instrumentation, not part of the blocking-queue contract itself.
// It exists so a monitoring goroutine can observe queue health without
// taking the buffer mutex and contending with producers/consumers.
type Stats struct {
	// Pushed and Popped are cumulative counts, never reset.
	Pushed uint64
	Popped uint64
	// PushWaiters and PopWaiters are the current number of goroutines
	// blocked in Push and Pop/TimedPop respectively, across every process
	// mapping this queue.
	PushWaiters uint32
	PopWaiters  uint32
}

// counters is the live, atomics-backed state Stats is snapshotted from.
// Every field is touched only with atomic operations, so reading it never
// needs the buffer mutex — counts may be stale by the time the caller
// observes them, which is acceptable for a diagnostics surface.
type counters struct {
	pushed      atomic.Uint64
	popped      atomic.Uint64
	pushWaiters atomic.Uint32
	popWaiters  atomic.Uint32
}

func (c *counters) recordPush() { c.pushed.Add(1) }
func (c *counters) recordPop()  { c.popped.Add(1) }

func (c *counters) enterPushWait() { c.pushWaiters.Add(1) }
func (c *counters) exitPushWait()  { c.pushWaiters.Add(^uint32(0)) }

func (c *counters) enterPopWait() { c.popWaiters.Add(1) }
func (c *counters) exitPopWait()  { c.popWaiters.Add(^uint32(0)) }

func (c *counters) snapshot() Stats {
	return Stats{
		Pushed:      c.pushed.Load(),
		Popped:      c.popped.Load(),
		PushWaiters: c.pushWaiters.Load(),
		PopWaiters:  c.popWaiters.Load(),
	}
}
