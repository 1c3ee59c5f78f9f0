//go:build windows

package services

import (
	"os"

	"mckeeper/internal/logger"
)

// terminateProcess kills the child. Windows has no SIGTERM equivalent
// for console children started without a console event group.
func terminateProcess(process *os.Process) {
	if err := process.Kill(); err != nil {
		logger.Debugf("terminate: %v", err)
	}
}
