// SPDX-License-Identifier: MIT
//go:build windows

package job

import (
	"os/exec"

	"golang.org/x/sys/windows"
)

// sendTerm asks the child to exit via CTRL_BREAK_EVENT, the closest
// Windows equivalent of SIGTERM for a console process. It requires the
// child to have been launched in its own process group
// (command.Build sets CREATE_NEW_PROCESS_GROUP), otherwise the event
// would also reach this supervisor.
func sendTerm(cmd *exec.Cmd) error {
	return windows.GenerateConsoleCtrlEvent(windows.CTRL_BREAK_EVENT, uint32(cmd.Process.Pid))
}

// Job has no Reload method on Windows: SIGHUP has no Windows equivalent,
// so EventLoop's Windows build stops and restarts the job instead.
