package daemon

import "syscall"

// NewSysProcAttr detaches the forked daemon into its own session so it
// outlives the shell that started it.
func NewSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
