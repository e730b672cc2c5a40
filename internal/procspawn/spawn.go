// Package procspawn implements this module's "fork-like process spawn"
// external collaborator: the minimal contract a spawned process must
// satisfy so that a shm.Shm handle duplicated before spawning ends up
// correctly owned by the child on the other side.
//
// Go's runtime does not support a raw fork() while goroutines and the
// garbage collector are running, so the fork-like primitive here is
// os/exec re-executing the current binary, with the shared-memory
// descriptor passed down via exec.Cmd.ExtraFiles rather than inherited
// implicitly across a fork. The caller is responsible for having already
// called Clone on the handle being handed down (see shm.Shm.FD), so the
// region's refcount accounts for the child before it starts.
package procspawn

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// childFD is the first (and only) entry of ExtraFiles, which os/exec
// always places at file descriptor 3 in the child (0, 1, 2 being the
// inherited stdio).
const childFD = 3

// EntryEnv is the environment variable a spawned child inspects to find
// which entry point it was asked to run. A re-exec'd binary normally
// dispatches on argv, but this module's demo binary also accepts a bare
// environment variable so that Spawn does not have to assume anything
// about the parent's own flag parsing.
const EntryEnv = "SHMQDEMO_ENTRY"

// Child is a handle to a spawned process and the duplicated file
// descriptor it was handed.
type Child struct {
	cmd *exec.Cmd
}

// Spawn re-executes the current binary (via os.Executable) with entry
// passed both as the first extra argument and as the EntryEnv
// environment variable, and fd attached as the child's descriptor 3. fd
// must be a descriptor obtained from shm.Shm.FD — duplicated independent
// of the parent's own handle — after the caller has already Cloned the
// handle being handed down.
//
// The child's stdout/stderr are inherited so demo output interleaves
// with the parent's; stdin is not passed down.
func Spawn(ctx context.Context, entry string, fd uintptr, extraArgs ...string) (*Child, error) {
	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("procspawn: resolve self: %w", err)
	}

	args := append([]string{entry}, extraArgs...)
	cmd := exec.CommandContext(ctx, self, args...)
	cmd.Env = append(os.Environ(), EntryEnv+"="+entry)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.ExtraFiles = []*os.File{os.NewFile(fd, fmt.Sprintf("shm-fd-%d", fd))}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("procspawn: start %s: %w", entry, err)
	}
	return &Child{cmd: cmd}, nil
}

// Wait blocks until the child exits and returns its final state.
func (c *Child) Wait() (*os.ProcessState, error) {
	err := c.cmd.Wait()
	return c.cmd.ProcessState, err
}

// Signal delivers sig to the child process, for use when a demo's own
// deadline elapses and a straggler must be terminated rather than waited
// on indefinitely.
func (c *Child) Signal(sig os.Signal) error {
	return c.cmd.Process.Signal(sig)
}

// Pid returns the spawned process's OS pid.
func (c *Child) Pid() int {
	return c.cmd.Process.Pid
}

// InheritedFD returns the file descriptor a spawned child should use to
// reconstruct its shm.Shm handle via shm.Open — always 3, the first
// (and only) entry this package's Spawn places in ExtraFiles.
func InheritedFD() uintptr {
	return childFD
}
