//go:build !windows

// Package process terminates the headless browser together with the helper
// processes it spawns.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid.
// Errors are ignored: the launcher's own Kill runs afterwards as a fallback.
func KillProcessGroup(pid int) {
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
