package root

import (
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "mckeeper",
	Short: "Minecraft server provisioning and supervision toolkit",
	Long:  `mckeeper provisions Minecraft server installations (vanilla/Paper/Forge/Fabric/Quilt/NeoForge/Spigot/Mohist), locates or installs a matching Java runtime, and supervises the running server process: start/stop/restart, log capture, console command injection, resource monitoring and tunnel exposure.`,
}
