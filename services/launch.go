package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"mckeeper/internal/config"
	"mckeeper/internal/mcfile"
	"mckeeper/internal/models"
	"mckeeper/internal/utils"
)

/**
 * Build the launch specification for a provisioned server directory
 * @param {string} serverDir - Server directory
 * @returns {LaunchSpec, error} Specification ready for the supervisor
 * @description
 * - Reads server_info.json (or detects an unmanaged jar) and derives
 *   the java argument list for the distribution
 * - The artifact check targets the server jar, or the generated args
 *   file for modern Forge and NeoForge installs
 */
func BuildLaunchSpec(serverDir string) (LaunchSpec, error) {
	info, err := mcfile.LoadInfo(serverDir)
	if err != nil {
		return LaunchSpec{}, fmt.Errorf("%w: %v", ErrMissingArtifact, err)
	}
	args, err := mcfile.BuildLaunchArgs(serverDir, info)
	if err != nil {
		return LaunchSpec{}, fmt.Errorf("%w: %v", ErrMissingArtifact, err)
	}

	artifact := ""
	if info.JarFile != "" {
		artifact = filepath.Join(serverDir, info.JarFile)
	} else {
		// args-file launch: check the referenced launch file instead
		for _, arg := range args {
			if strings.HasPrefix(arg, "@") && arg != "@user_jvm_args.txt" {
				artifact = filepath.Join(serverDir, strings.TrimPrefix(arg, "@"))
				break
			}
		}
	}

	javaBin := info.JavaBin
	if javaBin == "" {
		javaBin = "java"
	}
	return LaunchSpec{
		Command:      javaBin,
		Args:         args,
		Dir:          serverDir,
		ArtifactPath: artifact,
		Port:         info.Port,
	}, nil
}

/**
 * Status assembles the full server status for the API and CLI
 */
func (s *Supervisor) Status() models.StatusResponse {
	cfg := config.Config.Minecraft
	status := models.StatusResponse{
		State:     s.State(),
		Version:   cfg.Version,
		Dist:      cfg.Dist,
		ServerDir: cfg.Dir,
		LocalIP:   utils.GetLocalIP(),
		Port:      cfg.Port,
		Resources: s.Resources(),
		Tunnels:   s.Tunnels(),
	}
	if info, err := mcfile.LoadInfo(cfg.Dir); err == nil {
		if info.Version != "" {
			status.Version = info.Version
		}
		if info.Dist != "" {
			status.Dist = info.Dist
		}
		if info.Port != 0 {
			status.Port = info.Port
		}
	}

	s.mutex.Lock()
	if !s.startedAt.IsZero() && s.state != models.StateStopped {
		status.StartedTime = s.startedAt
	}
	s.mutex.Unlock()
	return status
}
