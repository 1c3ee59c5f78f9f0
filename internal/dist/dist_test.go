package dist

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mckeeper/internal/config"
)

func TestGetUnknownDistribution(t *testing.T) {
	_, err := Get("bukkit")
	assert.ErrorIs(t, err, config.ErrDistNotFound)
}

func TestNamesContainsAllDistributions(t *testing.T) {
	names := Names()
	for _, expected := range []string{"vanilla", "paper", "forge", "fabric", "quilt", "neoforge", "mohist", "spigot"} {
		assert.Contains(t, names, expected)
	}
}

func TestVanillaResolve(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/detail/1.21.1.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"downloads": {"server": {
			"sha1": "0123456789abcdef0123456789abcdef01234567",
			"size": 51234567,
			"url": "https://piston-data.mojang.com/v1/objects/abc/server.jar"}}}`)
	})
	mux.HandleFunc("/manifest.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"latest": {"release": "1.21.1"},
			"versions": [
				{"id": "1.21.1", "url": "%s/detail/1.21.1.json"},
				{"id": "1.20.4", "url": "%s/detail/1.20.4.json"}
			]}`, server.URL, server.URL)
	})

	old := ManifestURL
	ManifestURL = server.URL + "/manifest.json"
	defer func() { ManifestURL = old }()

	resolver, err := Get("vanilla")
	require.NoError(t, err)

	artifact, err := resolver.Resolve("1.21.1")
	require.NoError(t, err)
	assert.Equal(t, "server.jar", artifact.Filename)
	assert.Equal(t, "0123456789abcdef0123456789abcdef01234567", artifact.SHA1)
	assert.Equal(t, int64(51234567), artifact.Size)
	assert.False(t, artifact.Installer)

	// "latest" follows the manifest's release pointer
	artifact, err = resolver.Resolve("latest")
	require.NoError(t, err)
	assert.Equal(t, "server.jar", artifact.Filename)

	_, err = resolver.Resolve("1.99.0")
	assert.ErrorIs(t, err, config.ErrVersionNotFound)
}

func TestPaperResolvePrefersDefaultChannel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/paper/versions/1.21.1/builds", r.URL.Path)
		fmt.Fprint(w, `{"builds": [
			{"build": 39, "channel": "default", "downloads": {"application": {"name": "paper-1.21.1-39.jar", "sha256": "aa"}}},
			{"build": 40, "channel": "experimental", "downloads": {"application": {"name": "paper-1.21.1-40.jar", "sha256": "bb"}}}
		]}`)
	}))
	defer server.Close()

	old := PaperAPIBase
	PaperAPIBase = server.URL
	defer func() { PaperAPIBase = old }()

	resolver, err := Get("paper")
	require.NoError(t, err)
	artifact, err := resolver.Resolve("1.21.1")
	require.NoError(t, err)

	assert.Equal(t, "paper-1.21.1-39.jar", artifact.Filename)
	assert.Equal(t, "aa", artifact.SHA256)
	assert.Equal(t, server.URL+"/projects/paper/versions/1.21.1/builds/39/downloads/paper-1.21.1-39.jar", artifact.URL)
}

func TestForgeResolvePrefersRecommended(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"promos": {
			"1.20.1-recommended": "47.2.0",
			"1.20.1-latest": "47.3.5",
			"1.21.1-latest": "52.0.9"
		}}`)
	}))
	defer server.Close()

	oldPromos, oldMaven := ForgePromotionsURL, ForgeMavenBase
	ForgePromotionsURL = server.URL
	ForgeMavenBase = server.URL + "/maven"
	defer func() { ForgePromotionsURL, ForgeMavenBase = oldPromos, oldMaven }()

	resolver, err := Get("forge")
	require.NoError(t, err)

	artifact, err := resolver.Resolve("1.20.1")
	require.NoError(t, err)
	assert.Equal(t, "forge-1.20.1-47.2.0-installer.jar", artifact.Filename)
	assert.True(t, artifact.Installer)

	// falls back to latest when nothing is recommended
	artifact, err = resolver.Resolve("1.21.1")
	require.NoError(t, err)
	assert.Equal(t, "forge-1.21.1-52.0.9-installer.jar", artifact.Filename)

	_, err = resolver.Resolve("1.2.3")
	assert.ErrorIs(t, err, config.ErrVersionNotFound)
}

func TestFabricResolveBuildsLauncherURL(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/versions/loader/1.21.1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"loader": {"version": "0.16.9-beta", "stable": false}},
			{"loader": {"version": "0.16.5", "stable": true}}
		]`)
	})
	mux.HandleFunc("/versions/installer", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"version": "1.0.1", "stable": true}]`)
	})

	old := FabricMetaBase
	FabricMetaBase = server.URL
	defer func() { FabricMetaBase = old }()

	resolver, err := Get("fabric")
	require.NoError(t, err)
	artifact, err := resolver.Resolve("1.21.1")
	require.NoError(t, err)

	assert.Equal(t, server.URL+"/versions/loader/1.21.1/0.16.5/1.0.1/server/jar", artifact.URL)
	assert.False(t, artifact.Installer)
}

func TestNeoForgeResolveMapsVersionPrefix(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<metadata>
			<versioning><versions>
				<version>21.0.167</version>
				<version>21.1.72</version>
				<version>21.1.80-beta</version>
			</versions></versioning>
		</metadata>`)
	}))
	defer server.Close()

	old := NeoForgeMavenBase
	NeoForgeMavenBase = server.URL
	defer func() { NeoForgeMavenBase = old }()

	resolver, err := Get("neoforge")
	require.NoError(t, err)

	artifact, err := resolver.Resolve("1.21.1")
	require.NoError(t, err)
	// stable build wins over the newer beta
	assert.Equal(t, "neoforge-21.1.72-installer.jar", artifact.Filename)
	assert.True(t, artifact.Installer)

	_, err = resolver.Resolve("1.19.4")
	assert.ErrorIs(t, err, config.ErrVersionNotFound)
}

func TestMohistResolvePicksHighestBuildNumber(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/mohist/1.20.1/builds", r.URL.Path)
		// builds deliberately out of order, the API does not sort them
		fmt.Fprint(w, `{"builds": [
			{"number": 101, "url": "https://mohistmc.com/dl/101.jar", "fileSha256": "aa"},
			{"number": 103, "url": "https://mohistmc.com/dl/103.jar", "fileSha256": "cc"},
			{"number": 102, "url": "https://mohistmc.com/dl/102.jar", "fileSha256": "bb"}
		]}`)
	}))
	defer server.Close()

	old := MohistAPIBase
	MohistAPIBase = server.URL
	defer func() { MohistAPIBase = old }()

	resolver, err := Get("mohist")
	require.NoError(t, err)
	artifact, err := resolver.Resolve("1.20.1")
	require.NoError(t, err)

	assert.Equal(t, "https://mohistmc.com/dl/103.jar", artifact.URL)
	assert.Equal(t, "mohist-1.20.1-103-server.jar", artifact.Filename)
	assert.Equal(t, "cc", artifact.SHA256)
}

func TestSpigotResolveReturnsBuildTools(t *testing.T) {
	resolver, err := Get("spigot")
	require.NoError(t, err)

	artifact, err := resolver.Resolve("1.21.1")
	require.NoError(t, err)
	assert.Equal(t, "BuildTools.jar", artifact.Filename)
	assert.True(t, artifact.BuildTool)
}
