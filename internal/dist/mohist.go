package dist

import (
	"fmt"

	"mckeeper/internal/config"
	"mckeeper/internal/fetch"
)

// MohistAPIBase is the MohistMC downloads API. Overridable for tests.
var MohistAPIBase = "https://mohistmc.com/api/v2"

type mohistResolver struct{}

type mohistBuilds struct {
	Builds []struct {
		Number     int    `json:"number"`
		URL        string `json:"url"`
		FileSha256 string `json:"fileSha256"`
	} `json:"builds"`
}

func (r *mohistResolver) Name() string { return "mohist" }

// Resolve returns the newest Mohist build for a Minecraft version.
func (r *mohistResolver) Resolve(version string) (*Artifact, error) {
	if version == "" || version == "latest" {
		latest, err := LatestRelease()
		if err != nil {
			return nil, err
		}
		version = latest
	}

	var builds mohistBuilds
	url := fmt.Sprintf("%s/projects/mohist/%s/builds", MohistAPIBase, version)
	if err := fetch.GetJSON(url, nil, &builds); err != nil {
		return nil, fmt.Errorf("%w: mohist %s: %v", config.ErrVersionNotFound, version, err)
	}
	if len(builds.Builds) == 0 {
		return nil, fmt.Errorf("%w: mohist %s has no builds", config.ErrVersionNotFound, version)
	}

	// highest build number wins, the API does not promise ordering
	chosen := builds.Builds[0]
	for _, build := range builds.Builds[1:] {
		if build.Number > chosen.Number {
			chosen = build
		}
	}
	return &Artifact{
		URL:      chosen.URL,
		Filename: fmt.Sprintf("mohist-%s-%d-server.jar", version, chosen.Number),
		SHA256:   chosen.FileSha256,
	}, nil
}

func init() {
	register(&mohistResolver{})
}
