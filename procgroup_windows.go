//go:build windows

package envboot

import (
	"os/exec"
	"syscall"
	"time"
)

// processGroupWaitDelay is the time to wait for a killed process tree to
// release its pipes before giving up on reads.
const processGroupWaitDelay = 3 * time.Second

// setupProcessGroup places cmd in a new process group so console control
// events sent to the parent do not reach the child. Cancellation relies on
// the default Kill behavior of exec.CommandContext; WaitDelay bounds how
// long pipe reads may outlive the kill.
func setupProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CreationFlags |= syscall.CREATE_NEW_PROCESS_GROUP
	cmd.WaitDelay = processGroupWaitDelay
}
