package mcfile

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// aikarFlags are the widely used GC tuning flags for Paper servers.
var aikarFlags = []string{
	"-XX:+UseG1GC",
	"-XX:+ParallelRefProcEnabled",
	"-XX:MaxGCPauseMillis=200",
	"-XX:+UnlockExperimentalVMOptions",
	"-XX:+DisableExplicitGC",
	"-XX:+AlwaysPreTouch",
	"-XX:G1NewSizePercent=30",
	"-XX:G1MaxNewSizePercent=40",
	"-XX:G1HeapRegionSize=8M",
	"-XX:G1ReservePercent=20",
	"-XX:G1HeapWastePercent=5",
	"-XX:G1MixedGCCountTarget=4",
	"-XX:InitiatingHeapOccupancyPercent=15",
	"-XX:G1MixedGCLiveThresholdPercent=90",
	"-XX:G1RSetUpdatingPauseTimePercent=5",
	"-XX:SurvivorRatio=32",
	"-XX:+PerfDisableSharedMem",
	"-XX:MaxTenuringThreshold=1",
}

/**
 * Build the java argument list for launching a server
 * @param {string} serverDir - Server directory
 * @param {*ServerInfo} info - Server metadata
 * @returns {[]string, error} Arguments to pass to the java executable
 * @description
 * - Modern Forge and NeoForge installs launch through generated args
 *   files instead of a server jar; when one is present the heap flags
 *   go into user_jvm_args.txt and the command references both files
 * - Paper gets the Aikar GC flags in addition to the heap settings
 */
func BuildLaunchArgs(serverDir string, info *ServerInfo) ([]string, error) {
	jvmArgs := []string{
		fmt.Sprintf("-Xms%s", info.MinRAM),
		fmt.Sprintf("-Xmx%s", info.MaxRAM),
	}
	if info.Dist == "paper" {
		jvmArgs = append(jvmArgs, aikarFlags...)
	}

	if argsFile := findArgsFile(serverDir, info.Dist); argsFile != "" {
		if err := writeUserJvmArgs(serverDir, jvmArgs); err != nil {
			return nil, err
		}
		return []string{"@user_jvm_args.txt", "@" + argsFile, "nogui"}, nil
	}

	if info.JarFile == "" {
		return nil, fmt.Errorf("no server jar recorded for %s", serverDir)
	}
	args := append(jvmArgs, "-jar", info.JarFile, "nogui")
	return args, nil
}

// findArgsFile locates the generated launch args file of a modern
// Forge or NeoForge install, relative to serverDir.
func findArgsFile(serverDir, dist string) string {
	var pattern string
	switch dist {
	case "forge":
		pattern = filepath.Join("libraries", "net", "minecraftforge", "forge", "*")
	case "neoforge":
		pattern = filepath.Join("libraries", "net", "neoforged", "neoforge", "*")
	default:
		return ""
	}

	argsName := "unix_args.txt"
	if runtime.GOOS == "windows" {
		argsName = "win_args.txt"
	}

	matches, err := filepath.Glob(filepath.Join(serverDir, pattern, argsName))
	if err != nil || len(matches) == 0 {
		return ""
	}
	rel, err := filepath.Rel(serverDir, matches[0])
	if err != nil {
		return ""
	}
	return filepath.ToSlash(rel)
}

// writeUserJvmArgs writes the JVM flags file referenced by args-file launches.
func writeUserJvmArgs(serverDir string, jvmArgs []string) error {
	content := strings.Join(jvmArgs, "\n") + "\n"
	path := filepath.Join(serverDir, "user_jvm_args.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

/**
 * Write start_server.sh and start_server.bat convenience scripts
 * @param {string} serverDir - Server directory
 * @param {*ServerInfo} info - Server metadata
 */
func WriteStartScripts(serverDir string, info *ServerInfo) error {
	args, err := BuildLaunchArgs(serverDir, info)
	if err != nil {
		return err
	}
	command := info.JavaBin + " " + strings.Join(args, " ")

	sh := "#!/bin/sh\ncd \"$(dirname \"$0\")\"\nexec " + command + "\n"
	shPath := filepath.Join(serverDir, "start_server.sh")
	if err := os.WriteFile(shPath, []byte(sh), 0755); err != nil {
		return fmt.Errorf("failed to write %s: %w", shPath, err)
	}

	bat := "@echo off\r\ncd /d \"%~dp0\"\r\n" + command + "\r\npause\r\n"
	batPath := filepath.Join(serverDir, "start_server.bat")
	if err := os.WriteFile(batPath, []byte(bat), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", batPath, err)
	}
	return nil
}
