//go:build windows

// Package process terminates the headless browser together with the helper
// processes it spawns.
package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup force-kills pid and its child tree with taskkill.
// Errors are ignored: the launcher's own Kill runs afterwards as a fallback.
func KillProcessGroup(pid int) {
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
