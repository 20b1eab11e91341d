// SPDX-License-Identifier: MIT
//go:build !windows

package job

import (
	"fmt"
	"os/exec"
	"syscall"

	"github.com/apimgr/torsuper/internal/torerr"
)

// sendTerm sends SIGTERM to the child.
func sendTerm(cmd *exec.Cmd) error {
	return cmd.Process.Signal(syscall.SIGTERM)
}

// Reload sends SIGHUP to the child, asking Tor to re-read its torrc.
// POSIX only - EventLoop falls back to stop+start on Windows, where this
// method does not exist.
func (j *Job) Reload() error {
	j.mu.Lock()
	cmd := j.cmd
	j.mu.Unlock()

	if cmd == nil {
		torerr.ProgrammerError("Job.Reload called while idle")
	}
	if err := cmd.Process.Signal(syscall.SIGHUP); err != nil {
		return fmt.Errorf("%w: %v", torerr.ErrChildStopFailure, err)
	}
	return nil
}
