//go:build windows

package session

import (
	"fmt"
	"os/exec"
	"strconv"
)

const defaultShell = "cmd.exe"

func setProcAttributes(cmd *exec.Cmd) {}

// taskkill is more reliable than Process.Kill for closing cmd trees.
func terminateTree(pid int) {
	_ = exec.Command("taskkill", "/F", "/PID", strconv.Itoa(pid), "/T").Run()
}

func killTree(pid int) {
	_ = exec.Command("taskkill", "/F", "/PID", strconv.Itoa(pid), "/T").Run()
}

func statusEcho(marker string) string {
	return fmt.Sprintf("echo %v %%errorlevel%%", marker)
}
