// SPDX-License-Identifier: MIT

// Package job supervises a single child process: the Tor binary launched
// from a command.Recipe. It owns exactly one os/exec.Cmd at a time and
// never reaps it more than once - a background goroutine started by
// Start calls cmd.Wait() exactly once and stashes the result, so Status
// can be polled repeatedly without touching the kernel.
package job

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/apimgr/torsuper/internal/applog"
	"github.com/apimgr/torsuper/internal/command"
	"github.com/apimgr/torsuper/internal/torerr"
)

// State is the Job's lifecycle state.
type State int

const (
	// StateIdle means no child is running.
	StateIdle State = iota
	// StateRunning means a child has been spawned and its PID is known.
	StateRunning
)

// Result is the outcome of Stop: the child's final process state and
// whatever it wrote to stdout/stderr while running.
type Result struct {
	State  *os.ProcessState
	Output string
}

// Job wraps one supervised child process.
type Job struct {
	recipe    command.Recipe
	torrcPath string
	logger    *applog.Logger

	// envForChild, when non-nil, is appended to the child's inherited
	// os.Environ(). Used by tests to re-exec the test binary as a helper
	// process; production code leaves this nil and inherits os.Environ().
	envForChild []string

	mu      sync.Mutex
	cmd     *exec.Cmd
	stdout  *bytes.Buffer
	exited  bool
	state   *os.ProcessState
	waitErr error
	stopped chan struct{}
}

// New binds a Job to recipe and the torrc path it is launched against. It
// performs no I/O until Start is called.
func New(recipe command.Recipe, torrcPath string, logger *applog.Logger) *Job {
	return &Job{recipe: recipe, torrcPath: torrcPath, logger: logger}
}

// State reports whether a child is currently running.
func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cmd == nil {
		return StateIdle
	}
	return StateRunning
}

// ID returns the child's OS PID while running.
func (j *Job) ID() (int, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cmd == nil {
		return 0, false
	}
	return j.cmd.Process.Pid, true
}

// Start spawns the child. Calling Start while already running is a
// programmer error: it panics rather than returning an error.
func (j *Job) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cmd != nil {
		torerr.ProgrammerError("Job.Start called while already running")
	}

	cmd := j.recipe.Build(j.torrcPath)
	buf := &bytes.Buffer{}
	cmd.Stdout = buf
	cmd.Stderr = buf
	if j.envForChild != nil {
		cmd.Env = append(os.Environ(), j.envForChild...)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %v", torerr.ErrChildSpawnFailure, err)
	}

	j.cmd = cmd
	j.stdout = buf
	j.exited = false
	j.state = nil
	j.waitErr = nil
	j.stopped = make(chan struct{})

	stopped := j.stopped
	go func() {
		waitErr := cmd.Wait()
		j.mu.Lock()
		j.exited = true
		j.state = cmd.ProcessState
		j.waitErr = waitErr
		j.mu.Unlock()
		close(stopped)
	}()

	if j.logger != nil {
		j.logger.Info("job spawned", applog.Int("pid", cmd.Process.Pid))
	}
	return nil
}

// Status is a non-blocking poll: nil, false while still running; the
// final process state, true once the child has exited on its own. It
// never reaps the child itself - the Start goroutine already did that.
func (j *Job) Status() (*os.ProcessState, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cmd == nil {
		torerr.ProgrammerError("Job.Status called while idle")
	}
	if !j.exited {
		return nil, false
	}
	return j.state, true
}

// Stop gracefully terminates the child (SIGTERM on POSIX, the platform
// shim on Windows) and blocks until it has fully exited, then returns to
// StateIdle. Calling Stop while idle is a programmer error.
func (j *Job) Stop() (*Result, error) {
	j.mu.Lock()
	if j.cmd == nil {
		j.mu.Unlock()
		torerr.ProgrammerError("Job.Stop called while idle")
	}
	cmd := j.cmd
	stopped := j.stopped
	j.mu.Unlock()

	if !j.hasExited() {
		if err := sendTerm(cmd); err != nil {
			return nil, fmt.Errorf("%w: %v", torerr.ErrChildStopFailure, err)
		}
	}

	<-stopped

	j.mu.Lock()
	result := &Result{State: j.state, Output: j.stdout.String()}
	waitErr := j.waitErr
	j.cmd = nil
	j.stdout = nil
	j.stopped = nil
	j.mu.Unlock()

	if j.logger != nil {
		j.logger.Info("job stopped", applog.String("wait_error", errString(waitErr)))
	}
	return result, nil
}

func (j *Job) hasExited() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.exited
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
