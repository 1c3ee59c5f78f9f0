//go:build unix || linux || darwin

package utils

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
)

/**
 * Sample CPU and memory usage of a running process
 * @param {int} pid - Process ID to sample
 * @returns {float64, uint64, float64, error} CPU percent, resident bytes, memory percent
 * @description
 * - Shells out to ps with an explicit format so the output parses the
 *   same way on Linux and Darwin
 * - rss is reported by ps in kilobytes
 */
func ProcessStats(pid int) (float64, uint64, float64, error) {
	cmd := exec.Command("ps", "-o", "%cpu=,%mem=,rss=", "-p", strconv.Itoa(pid))
	output, err := cmd.Output()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to query process %d: %w", pid, err)
	}

	fields := strings.Fields(string(output))
	if len(fields) < 3 {
		return 0, 0, 0, fmt.Errorf("unexpected ps output for pid %d: %q", pid, string(output))
	}

	cpu, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to parse cpu usage: %w", err)
	}
	memPct, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to parse memory percent: %w", err)
	}
	rssKB, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to parse rss: %w", err)
	}

	return cpu, rssKB * 1024, memPct, nil
}

// IsProcessAlive reports whether the given PID refers to a live process.
func IsProcessAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
