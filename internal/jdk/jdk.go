package jdk

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"mckeeper/internal/config"
	"mckeeper/internal/logger"
)

/**
 * Determine the Java major version a Minecraft version requires
 * @param {string} mcVersion - Minecraft version string (e.g. "1.21.1")
 * @returns {int} Required Java major version
 * @description
 * - 1.20.5 and newer require Java 21
 * - 1.18 through 1.20.4 require Java 17
 * - 1.17 requires Java 16
 * - everything older runs on Java 8
 */
func RequiredMajor(mcVersion string) int {
	minor, patch := parseMinecraftVersion(mcVersion)
	switch {
	case minor > 20 || (minor == 20 && patch >= 5):
		return 21
	case minor >= 18:
		return 17
	case minor == 17:
		return 16
	default:
		return 8
	}
}

// parseMinecraftVersion extracts the minor and patch numbers from a
// "1.x.y" version string. Unparseable input yields zeros, which maps
// to the Java 8 baseline.
func parseMinecraftVersion(version string) (int, int) {
	parts := strings.Split(version, ".")
	if len(parts) < 2 {
		return 0, 0
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0
	}
	patch := 0
	if len(parts) > 2 {
		patch, _ = strconv.Atoi(parts[2])
	}
	return minor, patch
}

var javaVersionRe = regexp.MustCompile(`version "([0-9._]+)"`)

/**
 * Read the major version of a java executable
 * @param {string} javaBin - Path to the java executable
 * @returns {int, error} Java major version
 * @description
 * - Runs "java -version" and parses the quoted version from stderr
 * - Legacy "1.8.0_xxx" strings report major 8
 */
func MajorOf(javaBin string) (int, error) {
	cmd := exec.Command(javaBin, "-version")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("failed to run %s -version: %w", javaBin, err)
	}
	return ParseMajor(string(output))
}

// ParseMajor extracts the Java major version from "java -version" output.
func ParseMajor(output string) (int, error) {
	m := javaVersionRe.FindStringSubmatch(output)
	if m == nil {
		return 0, fmt.Errorf("no version string in java output: %q", output)
	}
	ver := m[1]
	if strings.HasPrefix(ver, "1.") {
		ver = strings.TrimPrefix(ver, "1.")
	}
	fields := strings.FieldsFunc(ver, func(r rune) bool { return r == '.' || r == '_' })
	if len(fields) == 0 {
		return 0, fmt.Errorf("unparseable java version: %q", m[1])
	}
	major, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("unparseable java version: %q", m[1])
	}
	return major, nil
}

/**
 * Locate a java executable of the given major version
 * @param {int} major - Required Java major version
 * @returns {string, error} Path to a matching java executable
 * @description
 * - Checks, in order: the configured java_home, managed installs under
 *   the jdk dir, JAVA_HOME, java on PATH, then well-known install roots
 * - A candidate only matches when "java -version" reports the exact
 *   required major
 */
func Locate(major int) (string, error) {
	var candidates []string

	if home := config.Config.Jdk.JavaHome; home != "" {
		candidates = append(candidates, javaPath(home))
	}
	candidates = append(candidates, managedCandidates(major)...)
	if home := os.Getenv("JAVA_HOME"); home != "" {
		candidates = append(candidates, javaPath(home))
	}
	if path, err := exec.LookPath("java"); err == nil {
		candidates = append(candidates, path)
	}
	candidates = append(candidates, systemCandidates(major)...)

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		got, err := MajorOf(candidate)
		if err != nil {
			logger.Debugf("candidate %s: %v", candidate, err)
			continue
		}
		if got == major {
			return candidate, nil
		}
		logger.Debugf("candidate %s is java %d, need %d", candidate, got, major)
	}
	return "", fmt.Errorf("no java %d installation found", major)
}

// managedCandidates lists java binaries under the managed jdk dir whose
// directory name mentions the major version.
func managedCandidates(major int) []string {
	var out []string
	entries, err := os.ReadDir(config.Config.Jdk.Dir)
	if err != nil {
		return out
	}
	tag := strconv.Itoa(major)
	for _, entry := range entries {
		if !entry.IsDir() || !strings.Contains(entry.Name(), tag) {
			continue
		}
		root := filepath.Join(config.Config.Jdk.Dir, entry.Name())
		out = append(out, javaPath(root))
		if runtime.GOOS == "darwin" {
			out = append(out, javaPath(filepath.Join(root, "Contents", "Home")))
		}
	}
	return out
}

// systemCandidates lists well-known JDK install roots per OS.
func systemCandidates(major int) []string {
	tag := strconv.Itoa(major)
	var roots []string
	switch runtime.GOOS {
	case "windows":
		roots = []string{`C:\Program Files\Java`, `C:\Program Files\Eclipse Adoptium`}
	case "darwin":
		roots = []string{"/Library/Java/JavaVirtualMachines"}
	default:
		roots = []string{"/usr/lib/jvm"}
	}

	var out []string
	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !strings.Contains(entry.Name(), tag) {
				continue
			}
			home := filepath.Join(root, entry.Name())
			if runtime.GOOS == "darwin" {
				home = filepath.Join(home, "Contents", "Home")
			}
			out = append(out, javaPath(home))
		}
	}
	return out
}

func javaPath(home string) string {
	name := "java"
	if runtime.GOOS == "windows" {
		name = "java.exe"
	}
	return filepath.Join(home, "bin", name)
}
