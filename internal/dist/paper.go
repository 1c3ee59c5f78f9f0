package dist

import (
	"fmt"

	"mckeeper/internal/config"
	"mckeeper/internal/fetch"
)

// PaperAPIBase is the PaperMC downloads API. Overridable for tests.
var PaperAPIBase = "https://api.papermc.io/v2"

type paperResolver struct{}

type paperBuilds struct {
	Builds []struct {
		Build     int    `json:"build"`
		Channel   string `json:"channel"`
		Downloads struct {
			Application struct {
				Name   string `json:"name"`
				SHA256 string `json:"sha256"`
			} `json:"application"`
		} `json:"downloads"`
	} `json:"builds"`
}

func (r *paperResolver) Name() string { return "paper" }

/**
 * Resolve the newest Paper build for a Minecraft version
 * @description
 * - Prefers the newest default-channel build, falling back to the
 *   newest build of any channel when only experimental builds exist
 */
func (r *paperResolver) Resolve(version string) (*Artifact, error) {
	if version == "" || version == "latest" {
		latest, err := LatestRelease()
		if err != nil {
			return nil, err
		}
		version = latest
	}

	var builds paperBuilds
	url := fmt.Sprintf("%s/projects/paper/versions/%s/builds", PaperAPIBase, version)
	if err := fetch.GetJSON(url, nil, &builds); err != nil {
		return nil, fmt.Errorf("%w: paper %s: %v", config.ErrVersionNotFound, version, err)
	}
	if len(builds.Builds) == 0 {
		return nil, fmt.Errorf("%w: paper %s has no builds", config.ErrVersionNotFound, version)
	}

	chosen := builds.Builds[len(builds.Builds)-1]
	for i := len(builds.Builds) - 1; i >= 0; i-- {
		if builds.Builds[i].Channel == "default" {
			chosen = builds.Builds[i]
			break
		}
	}

	name := chosen.Downloads.Application.Name
	return &Artifact{
		URL: fmt.Sprintf("%s/projects/paper/versions/%s/builds/%d/downloads/%s",
			PaperAPIBase, version, chosen.Build, name),
		Filename: name,
		SHA256:   chosen.Downloads.Application.SHA256,
	}, nil
}

func init() {
	register(&paperResolver{})
}
