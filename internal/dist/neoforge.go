package dist

import (
	"encoding/xml"
	"fmt"
	"strings"

	"mckeeper/internal/config"
	"mckeeper/internal/fetch"
)

// NeoForgeMavenBase hosts NeoForge release metadata and installer jars.
// Overridable for tests.
var NeoForgeMavenBase = "https://maven.neoforged.net/releases/net/neoforged/neoforge"

type neoforgeResolver struct{}

type mavenMetadata struct {
	XMLName    xml.Name `xml:"metadata"`
	Versioning struct {
		Versions struct {
			Version []string `xml:"version"`
		} `xml:"versions"`
	} `xml:"versioning"`
}

func (r *neoforgeResolver) Name() string { return "neoforge" }

/**
 * Resolve the NeoForge installer for a Minecraft version
 * @description
 * - NeoForge versions drop the leading "1." of the Minecraft version:
 *   Minecraft 1.21.1 maps to NeoForge builds prefixed "21.1."
 * - Picks the newest non-beta build with that prefix, falling back to
 *   the newest beta when no stable build exists
 */
func (r *neoforgeResolver) Resolve(version string) (*Artifact, error) {
	if version == "" || version == "latest" {
		latest, err := LatestRelease()
		if err != nil {
			return nil, err
		}
		version = latest
	}

	prefix := strings.TrimPrefix(version, "1.")
	if !strings.Contains(prefix, ".") {
		// 1.21 style versions map to "21.0"
		prefix += ".0"
	}
	prefix += "."

	data, err := fetch.GetBytes(NeoForgeMavenBase+"/maven-metadata.xml", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch neoforge metadata: %w", err)
	}
	var meta mavenMetadata
	if err := xml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse neoforge metadata: %w", err)
	}

	stable, beta := "", ""
	for _, v := range meta.Versioning.Versions.Version {
		if !strings.HasPrefix(v, prefix) {
			continue
		}
		if strings.Contains(v, "beta") {
			beta = v
		} else {
			stable = v
		}
	}
	chosen := stable
	if chosen == "" {
		chosen = beta
	}
	if chosen == "" {
		return nil, fmt.Errorf("%w: neoforge has no build for %s", config.ErrVersionNotFound, version)
	}

	filename := fmt.Sprintf("neoforge-%s-installer.jar", chosen)
	return &Artifact{
		URL:       fmt.Sprintf("%s/%s/%s", NeoForgeMavenBase, chosen, filename),
		Filename:  filename,
		Installer: true,
	}, nil
}

func init() {
	register(&neoforgeResolver{})
}
