// Command shmqdemo demonstrates the shared-memory queue across real OS
// processes: the parent creates a queue, spawns ten producer children
// (each re-exec'd via internal/procspawn, pinned round-robin across the
// available CPUs via affinity.SetAffinity), and drains the queue with TimedPop until it has
// seen one message per child or the collection deadline elapses.
//
// This binary exposes no stable external surface — it exists to exercise
// shm, pshared, and queue across process boundaries, not as a tool with a
// documented CLI contract.
package main

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/mersinvald/shm-ipc/affinity"
	"github.com/mersinvald/shm-ipc/internal/procspawn"
	"github.com/mersinvald/shm-ipc/queue"
	"github.com/mersinvald/shm-ipc/shm"
)

const (
	producerEntry  = "shmqdemoProducer"
	queueCapacity  = 16
	numProducers   = 10
	collectTimeout = 10 * time.Millisecond
	spawnTimeout   = 5 * time.Second
)

// message is the payload pushed through the queue: one producer's pid and
// one random value, a stand-in for "whatever a real IPC consumer would
// read off the wire". It is trivially copyable, as the queue's element
// type contract requires.
type message struct {
	Pid   int32
	Value int64
}

func main() {
	if os.Getenv(procspawn.EntryEnv) == producerEntry || (len(os.Args) > 1 && os.Args[1] == producerEntry) {
		runProducer()
		return
	}
	runParent()
}

func runParent() {
	cpu := flag.Int("producers", numProducers, "number of producer processes to spawn")
	flag.Parse()

	handle, err := queue.New[message](queueCapacity)
	if err != nil {
		log.Fatalf("queue.New: %v", err)
	}
	defer handle.Close()

	ctx, cancel := context.WithTimeout(context.Background(), spawnTimeout)
	defer cancel()

	children := make([]*procspawn.Child, 0, *cpu)
	for i := 0; i < *cpu; i++ {
		// Clone bumps the shared refcount on behalf of the child we are
		// about to spawn. We deliberately never call Close on this
		// in-process handle: the producer child reconstructs its own
		// handle via shm.Open and is the one that balances this Clone
		// with its own Close when it exits. Closing it here, before the
		// child has had a chance to run, would drop the refcount back
		// down as if the child never existed.
		child := handle.Clone()
		fd, err := child.FD()
		if err != nil {
			log.Fatalf("FD: %v", err)
		}

		proc, err := procspawn.Spawn(ctx, producerEntry, fd, fmt.Sprintf("--cpu=%d", i%runtime.NumCPU()))
		if err != nil {
			log.Fatalf("Spawn producer %d: %v", i, err)
		}
		children = append(children, proc)
	}

	seen := make(map[int32]int64, *cpu)
	q := handle.Value()
	deadline := time.Now().Add(spawnTimeout)
	for len(seen) < *cpu && time.Now().Before(deadline) {
		v, ok, err := q.TimedPop(collectTimeout)
		if err != nil {
			log.Fatalf("TimedPop: %v", err)
		}
		if !ok {
			continue
		}
		if _, dup := seen[v.Pid]; dup {
			log.Printf("warning: duplicate message from pid %d", v.Pid)
		}
		seen[v.Pid] = v.Value
		fmt.Printf("received pid=%d value=%d\n", v.Pid, v.Value)
	}

	for _, c := range children {
		if _, err := c.Wait(); err != nil {
			log.Printf("producer exited with error: %v", err)
		}
	}

	stats := q.Stats()
	fmt.Printf("collected %d/%d messages, queue stats: pushed=%d popped=%d\n",
		len(seen), *cpu, stats.Pushed, stats.Popped)
	if len(seen) != *cpu {
		os.Exit(1)
	}
}

func runProducer() {
	// os.Args[1] is the entry name itself (procspawn.Spawn always passes
	// it as the first argument alongside the env var), so the producer's
	// own flags start one position later than a normal flag.Parse() call
	// would assume.
	fs := flag.NewFlagSet(producerEntry, flag.ExitOnError)
	cpu := fs.Int("cpu", -1, "logical CPU to pin this producer to")
	args := os.Args[1:]
	if len(args) > 0 && args[0] == producerEntry {
		args = args[1:]
	}
	fs.Parse(args)

	if *cpu >= 0 {
		runtime.LockOSThread()
		if err := affinity.SetAffinity(*cpu); err != nil {
			log.Printf("producer pid=%d: SetAffinity(%d): %v", os.Getpid(), *cpu, err)
		}
	}

	handle, err := shm.Open[queue.Queue[message]](procspawn.InheritedFD())
	if err != nil {
		log.Fatalf("producer pid=%d: shm.Open: %v", os.Getpid(), err)
	}
	defer handle.Close()

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		log.Fatalf("producer pid=%d: rand.Read: %v", os.Getpid(), err)
	}

	msg := message{
		Pid:   int32(os.Getpid()),
		Value: int64(binary.LittleEndian.Uint64(buf[:])),
	}
	if err := handle.Value().Push(msg); err != nil {
		log.Fatalf("producer pid=%d: Push: %v", os.Getpid(), err)
	}
}
