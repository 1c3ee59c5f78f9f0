package mcfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// InfoFileName is the per-server metadata file written at setup time.
const InfoFileName = "server_info.json"

/**
 * ServerInfo records how a server directory was provisioned
 * @property {string} Version - Minecraft version
 * @property {string} Dist - Distribution name
 * @property {string} JarFile - Server jar filename, empty for @args-file launches
 * @property {string} JavaBin - Java executable the server was set up with
 * @property {int} Port - Configured server port
 * @property {string} MinRAM - Initial JVM heap
 * @property {string} MaxRAM - Maximum JVM heap
 */
type ServerInfo struct {
	Version   string    `json:"version"`
	Dist      string    `json:"dist"`
	JarFile   string    `json:"jar_file,omitempty"`
	JavaBin   string    `json:"java_bin"`
	Port      int       `json:"port"`
	MinRAM    string    `json:"min_ram"`
	MaxRAM    string    `json:"max_ram"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaveInfo writes the server metadata file into serverDir.
func SaveInfo(serverDir string, info *ServerInfo) error {
	now := time.Now()
	if info.CreatedAt.IsZero() {
		info.CreatedAt = now
	}
	info.UpdatedAt = now

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal server info: %w", err)
	}
	path := filepath.Join(serverDir, InfoFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

/**
 * Load server metadata, reconstructing it for unmanaged directories
 * @param {string} serverDir - Server directory
 * @returns {*ServerInfo, error} Metadata, detected from jar files when the info file is absent
 */
func LoadInfo(serverDir string) (*ServerInfo, error) {
	path := filepath.Join(serverDir, InfoFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return detectInfo(serverDir)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var info ServerInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &info, nil
}

// detectInfo inspects a server directory that was not provisioned by
// this tool and guesses the jar to launch.
func detectInfo(serverDir string) (*ServerInfo, error) {
	entries, err := os.ReadDir(serverDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read server directory %s: %w", serverDir, err)
	}

	var jar string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".jar") {
			continue
		}
		// prefer the conventional name, otherwise take the first jar
		if name == "server.jar" {
			jar = name
			break
		}
		if jar == "" {
			jar = name
		}
	}
	if jar == "" {
		return nil, fmt.Errorf("no server jar found in %s", serverDir)
	}
	return &ServerInfo{
		JarFile: jar,
		JavaBin: "java",
		Port:    25565,
		MinRAM:  "512M",
		MaxRAM:  "4G",
	}, nil
}
