//go:build !windows

package client

import (
	"os/exec"
	"syscall"
)

// detachDaemonProcess starts the daemon in its own session so it outlives
// the CLI or UI that spawned it.
func detachDaemonProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
