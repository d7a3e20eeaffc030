//go:build windows

package client

import (
	"os/exec"
	"syscall"
)

const createNewProcessGroup = 0x00000200

func detachDaemonProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: createNewProcessGroup}
}
