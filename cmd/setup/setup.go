package setup

import (
	"fmt"
	"strings"

	"mckeeper/cmd/root"
	"mckeeper/internal/config"
	"mckeeper/internal/logger"
	"mckeeper/services"

	"github.com/spf13/cobra"
)

var (
	flagDir        string
	flagVersion    string
	flagDist       string
	flagPort       int
	flagMinRAM     string
	flagMaxRAM     string
	flagProperties []string
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Provision a Minecraft server installation",
	Long: `Download the server artifact for the chosen distribution, install a
matching Java runtime when none is available, accept the EULA, write
server.properties and start scripts, and record the server metadata.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSetup(); err != nil {
			logger.Fatal(err)
		}
	},
}

func runSetup() error {
	props := make(map[string]string)
	for _, kv := range flagProperties {
		key, value, found := strings.Cut(kv, "=")
		if !found {
			return fmt.Errorf("invalid property %q, expected key=value", kv)
		}
		props[key] = value
	}

	info, err := services.Setup(services.SetupOptions{
		Dir:        flagDir,
		Version:    flagVersion,
		Dist:       flagDist,
		Port:       flagPort,
		MinRAM:     flagMinRAM,
		MaxRAM:     flagMaxRAM,
		Properties: props,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Provisioned %s %s in %s\n", info.Dist, info.Version, flagDir)
	fmt.Printf("Start it with: mckeeper server start --dir %s\n", flagDir)
	return nil
}

func init() {
	cfg := config.Config.Minecraft
	setupCmd.Flags().StringVar(&flagDir, "dir", cfg.Dir, "Server directory")
	setupCmd.Flags().StringVar(&flagVersion, "version", cfg.Version, "Minecraft version, empty or 'latest' for the newest release")
	setupCmd.Flags().StringVar(&flagDist, "dist", cfg.Dist, "Distribution (vanilla/paper/forge/fabric/quilt/neoforge/mohist/spigot)")
	setupCmd.Flags().IntVar(&flagPort, "port", cfg.Port, "Server port")
	setupCmd.Flags().StringVar(&flagMinRAM, "min-ram", cfg.MinRAM, "Initial JVM heap")
	setupCmd.Flags().StringVar(&flagMaxRAM, "max-ram", cfg.MaxRAM, "Maximum JVM heap")
	setupCmd.Flags().StringArrayVar(&flagProperties, "property", nil, "Extra server.properties entry (key=value), repeatable")

	root.RootCmd.AddCommand(setupCmd)
	setupCmd.Example = `  mckeeper setup --dist paper --version 1.21.1 --max-ram 6G`
}
