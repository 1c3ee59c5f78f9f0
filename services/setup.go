package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"mckeeper/internal/dist"
	"mckeeper/internal/fetch"
	"mckeeper/internal/jdk"
	"mckeeper/internal/logger"
	"mckeeper/internal/mcfile"
)

/**
 * SetupOptions describe one provisioning run
 * @property {string} Dir - Server directory to create
 * @property {string} Version - Minecraft version, "latest" resolves the newest release
 * @property {string} Dist - Distribution name
 * @property {int} Port - Server port written to server.properties
 * @property {string} MinRAM - Initial JVM heap
 * @property {string} MaxRAM - Maximum JVM heap
 * @property {map[string]string} Properties - Extra server.properties overrides
 */
type SetupOptions struct {
	Dir        string
	Version    string
	Dist       string
	Port       int
	MinRAM     string
	MaxRAM     string
	Properties map[string]string
}

/**
 * Provision a server directory end to end
 * @param {SetupOptions} opts - Provisioning parameters
 * @returns {*mcfile.ServerInfo, error} Metadata of the provisioned server
 * @description
 * - Resolves the distribution artifact, ensures a matching JDK,
 *   downloads and verifies the artifact, runs installers or BuildTools
 *   where the distribution needs them, then writes the EULA,
 *   server.properties, metadata, and start scripts
 */
func Setup(opts SetupOptions) (*mcfile.ServerInfo, error) {
	version := opts.Version
	if version == "" || version == "latest" {
		latest, err := dist.LatestRelease()
		if err != nil {
			return nil, err
		}
		version = latest
		logger.Infof("latest release is %s", version)
	}

	resolver, err := dist.Get(opts.Dist)
	if err != nil {
		return nil, err
	}
	artifact, err := resolver.Resolve(version)
	if err != nil {
		return nil, err
	}
	logger.Infof("resolved %s %s to %s", opts.Dist, version, artifact.URL)

	major := jdk.RequiredMajor(version)
	javaBin, err := jdk.Ensure(major)
	if err != nil {
		return nil, fmt.Errorf("failed to provision java %d: %w", major, err)
	}
	logger.Infof("using java %d at %s", major, javaBin)

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create server directory: %w", err)
	}

	artifactPath := filepath.Join(opts.Dir, artifact.Filename)
	if err := fetch.GetFile(artifact.URL, artifactPath, artifact.SHA1); err != nil {
		return nil, fmt.Errorf("failed to download artifact: %w", err)
	}
	if artifact.SHA256 != "" {
		got, err := fetch.FileSHA256(artifactPath)
		if err != nil {
			return nil, err
		}
		if got != artifact.SHA256 {
			os.Remove(artifactPath)
			return nil, fmt.Errorf("artifact checksum mismatch: expected %s, got %s",
				artifact.SHA256, got)
		}
	}

	jarFile := artifact.Filename
	switch {
	case artifact.BuildTool:
		jarFile, err = dist.RunBuildTools(javaBin, opts.Dir, version)
		if err != nil {
			return nil, err
		}
	case artifact.Installer:
		if err := dist.RunInstaller(javaBin, opts.Dir, artifact.Filename, resolver.Name(), version); err != nil {
			return nil, err
		}
		switch resolver.Name() {
		case "quilt":
			jarFile = "quilt-server-launch.jar"
		default:
			// forge and neoforge launch through generated args files
			jarFile = ""
		}
	}

	info := &mcfile.ServerInfo{
		Version: version,
		Dist:    resolver.Name(),
		JarFile: jarFile,
		JavaBin: javaBin,
		Port:    opts.Port,
		MinRAM:  opts.MinRAM,
		MaxRAM:  opts.MaxRAM,
	}

	if err := mcfile.WriteEULA(opts.Dir); err != nil {
		return nil, err
	}

	props := map[string]string{
		"server-port": strconv.Itoa(opts.Port),
	}
	for key, value := range opts.Properties {
		props[key] = value
	}
	propsPath := filepath.Join(opts.Dir, "server.properties")
	if err := mcfile.MergeProperties(propsPath, props); err != nil {
		return nil, err
	}

	if err := mcfile.SaveInfo(opts.Dir, info); err != nil {
		return nil, err
	}
	if err := mcfile.WriteStartScripts(opts.Dir, info); err != nil {
		return nil, err
	}

	logger.Infof("server %s %s provisioned in %s", info.Dist, info.Version, opts.Dir)
	return info, nil
}
