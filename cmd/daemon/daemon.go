package daemon

import (
	"fmt"
	"os"

	"mckeeper/cmd/root"
	"mckeeper/controllers"
	"mckeeper/internal/config"
	"mckeeper/internal/logger"
	"mckeeper/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the mckeeper HTTP daemon",
	Long: `Serve the supervision API. The daemon owns the server process: CLI
commands and external tooling drive it through the HTTP endpoints, and
Prometheus can scrape /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := startDaemon(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func startDaemon() error {
	gin.SetMode(config.Config.Server.Mode)
	router := gin.Default()

	supervisor := services.GetSupervisor()
	tunnels := services.GetTunnelManager()

	apiController := controllers.NewAPIController(supervisor, tunnels)
	apiController.RegisterRoutes(router)

	logger.Infof("mckeeper daemon listening on %s", config.Config.Server.Address)
	return router.Run(config.Config.Server.Address)
}

func init() {
	root.RootCmd.AddCommand(daemonCmd)
}
