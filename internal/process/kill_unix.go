//go:build !windows

package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid. Chromium
// forks renderer and GPU helpers that outlive a plain kill of the parent.
// Non-positive pids are ignored: -0 would target our own group.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// launcher.Kill runs afterwards, so the error is not interesting.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
