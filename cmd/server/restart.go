package server

import (
	"fmt"
	"os"
	"time"

	"mckeeper/internal/rpc"

	"github.com/spf13/cobra"
)

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the Minecraft server",
	Run: func(cmd *cobra.Command, args []string) {
		if err := restartServer(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func restartServer() error {
	// a restart can spend the full stop escalation plus the readiness
	// wait before the daemon answers
	cfg := rpc.DefaultHTTPConfig()
	cfg.Timeout = 3 * time.Minute
	rpcClient := rpc.NewHTTPClient(cfg)
	defer rpcClient.Close()

	resp, err := rpcClient.Post("/mckeeper/api/v1/server/restart", nil, nil)
	if err != nil {
		return fmt.Errorf("restart needs a running mckeeper daemon: %v", err)
	}
	if !resp.OK() {
		return fmt.Errorf("daemon failed to restart server: %s", resp.Error)
	}
	fmt.Println("Server restarted via mckeeper daemon")
	return nil
}

func init() {
	serverCmd.AddCommand(restartCmd)
}
