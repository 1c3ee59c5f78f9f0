//go:build unix || linux || darwin

package services

import (
	"os"
	"syscall"

	"mckeeper/internal/logger"
)

// terminateProcess asks the child to exit with SIGTERM.
func terminateProcess(process *os.Process) {
	if err := process.Signal(syscall.SIGTERM); err != nil {
		logger.Debugf("terminate: %v", err)
	}
}
