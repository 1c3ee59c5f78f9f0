package dist

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"mckeeper/internal/logger"
)

/**
 * Run an installer jar to lay down the server files
 * @param {string} javaBin - Path to the java executable
 * @param {string} serverDir - Server directory to install into
 * @param {string} jarName - Installer jar filename inside serverDir
 * @param {string} distName - Distribution name, selects the installer arguments
 * @param {string} version - Minecraft version, required by the quilt installer
 * @description
 * - forge and neoforge installers take --installServer
 * - quilt takes an "install server" subcommand with the target version
 */
func RunInstaller(javaBin, serverDir, jarName, distName, version string) error {
	var args []string
	switch distName {
	case "forge", "neoforge":
		args = []string{"-jar", jarName, "--installServer"}
	case "quilt":
		args = []string{"-jar", jarName, "install", "server", version,
			"--install-dir=.", "--download-server"}
	default:
		return fmt.Errorf("distribution %s has no installer step", distName)
	}

	logger.Infof("running %s installer in %s", distName, serverDir)
	cmd := exec.Command(javaBin, args...)
	cmd.Dir = serverDir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s installer failed: %w\n%s", distName, err, tail(output, 20))
	}
	return nil
}

/**
 * Compile a Spigot server jar with BuildTools
 * @param {string} javaBin - Path to the java executable
 * @param {string} serverDir - Directory containing BuildTools.jar
 * @param {string} version - Minecraft revision to build
 * @returns {string, error} Name of the produced server jar
 * @description
 * - BuildTools clones and compiles the sources, which can take several
 *   minutes on first run
 */
func RunBuildTools(javaBin, serverDir, version string) (string, error) {
	logger.Infof("running BuildTools for %s in %s, this can take a while", version, serverDir)
	cmd := exec.Command(javaBin, "-jar", "BuildTools.jar", "--rev", version)
	cmd.Dir = serverDir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("BuildTools failed: %w\n%s", err, tail(output, 20))
	}

	produced := fmt.Sprintf("spigot-%s.jar", version)
	if _, err := os.Stat(filepath.Join(serverDir, produced)); err != nil {
		return "", fmt.Errorf("BuildTools finished but %s was not produced", produced)
	}
	return produced, nil
}

// tail returns the last n lines of command output for error messages.
func tail(output []byte, n int) string {
	lines := strings.Split(strings.TrimRight(string(output), "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
