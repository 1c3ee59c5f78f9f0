package server

import (
	"mckeeper/cmd/root"
	"mckeeper/internal/config"

	"github.com/spf13/cobra"
)

var flagDir string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Manage the Minecraft server process",
	Long: `Server lifecycle operations. Every subcommand first tries the running
mckeeper daemon; when no daemon is reachable the operation runs locally.`,
}

func init() {
	serverCmd.PersistentFlags().StringVar(&flagDir, "dir", config.Config.Minecraft.Dir, "Server directory")
	root.RootCmd.AddCommand(serverCmd)
}
