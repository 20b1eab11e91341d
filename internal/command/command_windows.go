// SPDX-License-Identifier: MIT
//go:build windows

package command

import (
	"fmt"
	"os/exec"
	"strings"
	"syscall"

	"golang.org/x/sys/windows"
)

// Build produces the exec.Cmd for this recipe against torrcPath.
//
// Pure console Tor binaries built without window support will not attach
// to the parent console. Piping through `more` under PowerShell restores
// stdout and signal propagation. Binaries with normal window support are
// launched directly. Either way the child is placed in its own process
// group so job.sendTerm's CTRL_BREAK_EVENT reaches only the child, never
// this supervisor.
func (r Recipe) Build(torrcPath string) *exec.Cmd {
	var cmd *exec.Cmd
	if r.NoWindowSupport {
		inner := r.Program
		if len(r.ExtraArgs) > 0 {
			inner = inner + " " + strings.Join(r.ExtraArgs, " ")
		}
		script := fmt.Sprintf("%s | more", inner)
		cmd = exec.Command("powershell", script)
	} else {
		args := append([]string{r.Program}, r.ExtraArgs...)
		args = append(args, "-f", torrcPath)
		cmd = exec.Command(args[0], args[1:]...)
	}

	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: windows.CREATE_NEW_PROCESS_GROUP}
	return cmd
}
