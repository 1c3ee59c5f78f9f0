package dist

import (
	"fmt"

	"mckeeper/internal/config"
	"mckeeper/internal/fetch"
)

// QuiltMetaBase is the Quilt metadata API. Overridable for tests.
var QuiltMetaBase = "https://meta.quiltmc.org/v3"

// QuiltMavenBase hosts the quilt-installer jars.
var QuiltMavenBase = "https://maven.quiltmc.org/repository/release/org/quiltmc/quilt-installer"

type quiltResolver struct{}

type quiltLoaderEntry struct {
	Loader struct {
		Version string `json:"version"`
	} `json:"loader"`
}

type quiltInstallerEntry struct {
	Version string `json:"version"`
}

func (r *quiltResolver) Name() string { return "quilt" }

/**
 * Resolve the Quilt installer for a Minecraft version
 * @description
 * - Verifies a loader exists for the version, then returns the newest
 *   quilt-installer jar
 * - The installer is run with "install server <version>" to lay down
 *   the server launcher
 */
func (r *quiltResolver) Resolve(version string) (*Artifact, error) {
	if version == "" || version == "latest" {
		latest, err := LatestRelease()
		if err != nil {
			return nil, err
		}
		version = latest
	}

	var loaders []quiltLoaderEntry
	url := fmt.Sprintf("%s/versions/loader/%s", QuiltMetaBase, version)
	if err := fetch.GetJSON(url, nil, &loaders); err != nil {
		return nil, fmt.Errorf("failed to fetch quilt loaders for %s: %w", version, err)
	}
	if len(loaders) == 0 {
		return nil, fmt.Errorf("%w: quilt has no loader for %s", config.ErrVersionNotFound, version)
	}

	var installers []quiltInstallerEntry
	if err := fetch.GetJSON(QuiltMetaBase+"/versions/installer", nil, &installers); err != nil {
		return nil, fmt.Errorf("failed to fetch quilt installers: %w", err)
	}
	if len(installers) == 0 {
		return nil, fmt.Errorf("%w: quilt has no installer versions", config.ErrVersionNotFound)
	}
	installer := installers[0].Version

	filename := fmt.Sprintf("quilt-installer-%s.jar", installer)
	return &Artifact{
		URL:       fmt.Sprintf("%s/%s/%s", QuiltMavenBase, installer, filename),
		Filename:  filename,
		Installer: true,
	}, nil
}

func init() {
	register(&quiltResolver{})
}
