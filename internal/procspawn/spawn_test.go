package procspawn

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/mersinvald/shm-ipc/shm"
)

// TestMain recognizes the "procspawnEchoEntry" entry: when the test
// binary is re-exec'd with that as argv[1] (as Spawn does), it opens the
// inherited shm region, writes its own pid into the payload, and exits —
// standing in for a real child in TestSpawnHandsOffSharedRegion without
// needing a separate demo binary.
func TestMain(m *testing.M) {
	if len(os.Args) > 1 && os.Args[1] == "procspawnEchoEntry" {
		runEchoChild()
		return
	}
	os.Exit(m.Run())
}

func runEchoChild() {
	h, err := shm.Open[int64](InheritedFD())
	if err != nil {
		os.Exit(1)
	}
	*h.Value() = int64(os.Getpid())
	os.Exit(0)
}

func TestSpawnHandsOffSharedRegion(t *testing.T) {
	if os.Getenv("GO_WANT_PROCSPAWN_CHILD_TESTS") == "" {
		t.Skip("requires a re-exec-capable test binary; set GO_WANT_PROCSPAWN_CHILD_TESTS=1 to run")
	}

	parent, err := shm.New[int64](0)
	if err != nil {
		t.Fatalf("shm.New: %v", err)
	}
	defer parent.Close()

	child := parent.Clone()
	fd, err := child.FD()
	if err != nil {
		t.Fatalf("FD: %v", err)
	}
	defer child.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	proc, err := Spawn(ctx, "procspawnEchoEntry", fd)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	state, err := proc.Wait()
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if !state.Success() {
		t.Fatalf("child exited with status %v", state)
	}

	if got := *parent.Value(); got != int64(proc.Pid()) {
		t.Fatalf("parent sees payload = %d, want child pid %d", got, proc.Pid())
	}
}

// TestInheritedFDMatchesExtraFilesConvention pins the assumption Spawn and
// its spawned children both rely on: os/exec always places the first
// ExtraFiles entry at descriptor 3.
func TestInheritedFDMatchesExtraFilesConvention(t *testing.T) {
	if got := InheritedFD(); got != 3 {
		t.Fatalf("InheritedFD() = %d, want 3", got)
	}
}
