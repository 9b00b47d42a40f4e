//go:build !windows

package session

import (
	"fmt"
	"os/exec"
	"syscall"
)

const defaultShell = "bash"

// setProcAttributes places the shell in its own process group so the whole
// tree can be signalled on close.
func setProcAttributes(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func terminateTree(pid int) {
	_ = syscall.Kill(-pid, syscall.SIGTERM)
}

func killTree(pid int) {
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

func statusEcho(marker string) string {
	return fmt.Sprintf("echo %v $?", marker)
}
