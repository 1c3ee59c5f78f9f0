//go:build windows

package utils

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ProcessStats samples memory usage of a process via tasklist.
// CPU percent is not available from tasklist and is reported as zero.
func ProcessStats(pid int) (float64, uint64, float64, error) {
	cmd := exec.Command("tasklist", "/FI", fmt.Sprintf("PID eq %d", pid), "/FO", "CSV", "/NH")
	output, err := cmd.Output()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to query process %d: %w", pid, err)
	}

	line := strings.TrimSpace(string(output))
	fields := strings.Split(line, "\",\"")
	if len(fields) < 5 {
		return 0, 0, 0, fmt.Errorf("unexpected tasklist output for pid %d: %q", pid, line)
	}

	// last field looks like `123,456 K"`
	memField := strings.Trim(fields[len(fields)-1], "\"")
	memField = strings.TrimSuffix(memField, " K")
	memField = strings.ReplaceAll(memField, ",", "")
	memKB, err := strconv.ParseUint(memField, 10, 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to parse memory usage: %w", err)
	}

	return 0, memKB * 1024, 0, nil
}

func IsProcessAlive(pid int) bool {
	cmd := exec.Command("tasklist", "/FI", fmt.Sprintf("PID eq %d", pid), "/NH")
	output, err := cmd.Output()
	if err != nil {
		return false
	}
	return strings.Contains(string(output), strconv.Itoa(pid))
}
