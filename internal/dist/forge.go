package dist

import (
	"fmt"

	"mckeeper/internal/config"
	"mckeeper/internal/fetch"
)

// ForgePromotionsURL lists the recommended and latest Forge builds per
// Minecraft version. Overridable for tests.
var ForgePromotionsURL = "https://files.minecraftforge.net/net/minecraftforge/forge/promotions_slim.json"

// ForgeMavenBase hosts the Forge installer jars.
var ForgeMavenBase = "https://maven.minecraftforge.net/net/minecraftforge/forge"

type forgeResolver struct{}

type forgePromotions struct {
	Promos map[string]string `json:"promos"`
}

func (r *forgeResolver) Name() string { return "forge" }

/**
 * Resolve the Forge installer for a Minecraft version
 * @description
 * - Uses the recommended build when one is promoted, otherwise the
 *   latest build for the version
 * - The artifact is an installer jar; running it with --installServer
 *   produces the actual server
 */
func (r *forgeResolver) Resolve(version string) (*Artifact, error) {
	var promos forgePromotions
	if err := fetch.GetJSON(ForgePromotionsURL, nil, &promos); err != nil {
		return nil, fmt.Errorf("failed to fetch forge promotions: %w", err)
	}

	if version == "" || version == "latest" {
		latest, err := LatestRelease()
		if err != nil {
			return nil, err
		}
		version = latest
	}

	forgeVersion, ok := promos.Promos[version+"-recommended"]
	if !ok {
		forgeVersion, ok = promos.Promos[version+"-latest"]
	}
	if !ok {
		return nil, fmt.Errorf("%w: forge has no build for %s", config.ErrVersionNotFound, version)
	}

	full := fmt.Sprintf("%s-%s", version, forgeVersion)
	filename := fmt.Sprintf("forge-%s-installer.jar", full)
	return &Artifact{
		URL:       fmt.Sprintf("%s/%s/%s", ForgeMavenBase, full, filename),
		Filename:  filename,
		Installer: true,
	}, nil
}

func init() {
	register(&forgeResolver{})
}
