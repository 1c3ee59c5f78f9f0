package dist

import (
	"fmt"

	"mckeeper/internal/config"
	"mckeeper/internal/fetch"
)

// ManifestURL is the Mojang version manifest endpoint. Overridable for tests.
var ManifestURL = "https://piston-meta.mojang.com/mc/game/version_manifest_v2.json"

type vanillaResolver struct{}

type versionManifest struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	} `json:"versions"`
}

type versionDetail struct {
	Downloads struct {
		Server struct {
			SHA1 string `json:"sha1"`
			Size int64  `json:"size"`
			URL  string `json:"url"`
		} `json:"server"`
	} `json:"downloads"`
}

func (r *vanillaResolver) Name() string { return "vanilla" }

/**
 * Resolve the official server jar for a Minecraft version
 * @description
 * - Looks the version up in the piston-meta manifest, then follows the
 *   per-version document for the server download with its SHA-1
 * - "latest" resolves to the newest release
 */
func (r *vanillaResolver) Resolve(version string) (*Artifact, error) {
	var manifest versionManifest
	if err := fetch.GetJSON(ManifestURL, nil, &manifest); err != nil {
		return nil, fmt.Errorf("failed to fetch version manifest: %w", err)
	}

	if version == "" || version == "latest" {
		version = manifest.Latest.Release
	}

	var detailURL string
	for _, v := range manifest.Versions {
		if v.ID == version {
			detailURL = v.URL
			break
		}
	}
	if detailURL == "" {
		return nil, fmt.Errorf("%w: vanilla %s", config.ErrVersionNotFound, version)
	}

	var detail versionDetail
	if err := fetch.GetJSON(detailURL, nil, &detail); err != nil {
		return nil, fmt.Errorf("failed to fetch version detail for %s: %w", version, err)
	}
	if detail.Downloads.Server.URL == "" {
		return nil, fmt.Errorf("%w: vanilla %s has no server download", config.ErrVersionNotFound, version)
	}

	return &Artifact{
		URL:      detail.Downloads.Server.URL,
		Filename: "server.jar",
		SHA1:     detail.Downloads.Server.SHA1,
		Size:     detail.Downloads.Server.Size,
	}, nil
}

// LatestRelease returns the newest vanilla release version.
func LatestRelease() (string, error) {
	var manifest versionManifest
	if err := fetch.GetJSON(ManifestURL, nil, &manifest); err != nil {
		return "", fmt.Errorf("failed to fetch version manifest: %w", err)
	}
	return manifest.Latest.Release, nil
}

// ListVersions returns all vanilla version IDs known to the manifest.
func ListVersions() ([]string, error) {
	var manifest versionManifest
	if err := fetch.GetJSON(ManifestURL, nil, &manifest); err != nil {
		return nil, fmt.Errorf("failed to fetch version manifest: %w", err)
	}
	ids := make([]string, 0, len(manifest.Versions))
	for _, v := range manifest.Versions {
		ids = append(ids, v.ID)
	}
	return ids, nil
}

func init() {
	register(&vanillaResolver{})
}
