package dist

type spigotResolver struct{}

// BuildToolsURL is the Spigot BuildTools download. Overridable for tests.
var BuildToolsURL = "https://hub.spigotmc.org/jenkins/job/BuildTools/lastSuccessfulBuild/artifact/target/BuildTools.jar"

func (r *spigotResolver) Name() string { return "spigot" }

/**
 * Resolve the Spigot build tool
 * @description
 * - Spigot publishes no server jars; BuildTools compiles one locally
 *   with "java -jar BuildTools.jar --rev <version>"
 * - The requested version is not baked into the artifact because the
 *   same BuildTools jar builds every revision
 */
func (r *spigotResolver) Resolve(version string) (*Artifact, error) {
	return &Artifact{
		URL:       BuildToolsURL,
		Filename:  "BuildTools.jar",
		BuildTool: true,
	}, nil
}

func init() {
	register(&spigotResolver{})
}
