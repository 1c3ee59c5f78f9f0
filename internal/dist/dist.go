package dist

import (
	"fmt"
	"sort"
	"strings"

	"mckeeper/internal/config"
)

/**
 * Artifact describes a downloadable server artifact for one
 * distribution and Minecraft version
 * @property {string} URL - Download URL
 * @property {string} Filename - Name to save the artifact under
 * @property {string} SHA1 - Expected SHA-1 digest, empty when the upstream API does not publish one
 * @property {string} SHA256 - Expected SHA-256 digest, empty when not published
 * @property {int64} Size - Artifact size in bytes, zero when unknown
 * @property {bool} Installer - Artifact is an installer jar that must be run to produce the server
 * @property {bool} BuildTool - Artifact compiles the server from source (BuildTools)
 */
type Artifact struct {
	URL       string
	Filename  string
	SHA1      string
	SHA256    string
	Size      int64
	Installer bool
	BuildTool bool
}

// Resolver translates a Minecraft version into a concrete artifact for
// one distribution.
type Resolver interface {
	Name() string
	Resolve(version string) (*Artifact, error)
}

var registry = map[string]Resolver{}

func register(r Resolver) {
	registry[r.Name()] = r
}

// Get returns the resolver for the named distribution.
func Get(name string) (Resolver, error) {
	r, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", config.ErrDistNotFound, name)
	}
	return r, nil
}

// Names returns the registered distribution names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
