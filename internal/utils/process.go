package utils

import (
	"path/filepath"
	"strings"
)

// Path2ProcessName extracts a bare process name from a command path,
// dropping any Windows-style .exe suffix.
func Path2ProcessName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, ".exe")
}
