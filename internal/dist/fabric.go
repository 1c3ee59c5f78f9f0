package dist

import (
	"fmt"

	"mckeeper/internal/config"
	"mckeeper/internal/fetch"
)

// FabricMetaBase is the Fabric metadata API. Overridable for tests.
var FabricMetaBase = "https://meta.fabricmc.net/v2"

type fabricResolver struct{}

type fabricLoaderEntry struct {
	Loader struct {
		Version string `json:"version"`
		Stable  bool   `json:"stable"`
	} `json:"loader"`
}

type fabricInstallerEntry struct {
	Version string `json:"version"`
	Stable  bool   `json:"stable"`
}

func (r *fabricResolver) Name() string { return "fabric" }

/**
 * Resolve the Fabric server launcher for a Minecraft version
 * @description
 * - Picks the newest stable loader and installer from the metadata API
 * - The launcher endpoint serves a ready-to-run server jar, so no
 *   installer step is needed
 */
func (r *fabricResolver) Resolve(version string) (*Artifact, error) {
	if version == "" || version == "latest" {
		latest, err := LatestRelease()
		if err != nil {
			return nil, err
		}
		version = latest
	}

	var loaders []fabricLoaderEntry
	url := fmt.Sprintf("%s/versions/loader/%s", FabricMetaBase, version)
	if err := fetch.GetJSON(url, nil, &loaders); err != nil {
		return nil, fmt.Errorf("failed to fetch fabric loaders for %s: %w", version, err)
	}
	loader := ""
	for _, entry := range loaders {
		if entry.Loader.Stable {
			loader = entry.Loader.Version
			break
		}
	}
	if loader == "" && len(loaders) > 0 {
		loader = loaders[0].Loader.Version
	}
	if loader == "" {
		return nil, fmt.Errorf("%w: fabric has no loader for %s", config.ErrVersionNotFound, version)
	}

	var installers []fabricInstallerEntry
	if err := fetch.GetJSON(FabricMetaBase+"/versions/installer", nil, &installers); err != nil {
		return nil, fmt.Errorf("failed to fetch fabric installers: %w", err)
	}
	installer := ""
	for _, entry := range installers {
		if entry.Stable {
			installer = entry.Version
			break
		}
	}
	if installer == "" && len(installers) > 0 {
		installer = installers[0].Version
	}
	if installer == "" {
		return nil, fmt.Errorf("%w: fabric has no installer versions", config.ErrVersionNotFound)
	}

	return &Artifact{
		URL: fmt.Sprintf("%s/versions/loader/%s/%s/%s/server/jar",
			FabricMetaBase, version, loader, installer),
		Filename: fmt.Sprintf("fabric-server-mc.%s-loader.%s-launcher.%s.jar",
			version, loader, installer),
	}, nil
}

func init() {
	register(&fabricResolver{})
}
