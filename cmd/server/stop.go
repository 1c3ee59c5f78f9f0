package server

import (
	"context"
	"fmt"
	"os"
	"time"

	"mckeeper/internal/rpc"
	"mckeeper/services"

	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the Minecraft server",
	Run: func(cmd *cobra.Command, args []string) {
		if err := stopServer(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func stopServer() error {
	// the daemon may spend the stop timeout plus the kill grace before
	// answering
	cfg := rpc.DefaultHTTPConfig()
	cfg.Timeout = time.Minute
	rpcClient := rpc.NewHTTPClient(cfg)
	resp, err := rpcClient.Post("/mckeeper/api/v1/server/stop", nil, nil)
	rpcClient.Close()
	if err == nil {
		if resp.OK() {
			fmt.Println("Server stopped via mckeeper daemon")
			return nil
		}
		return fmt.Errorf("daemon failed to stop server: %s", resp.Error)
	}
	if !rpc.IsDaemonDown(err) {
		return fmt.Errorf("daemon did not answer in time: %v", err)
	}

	// no daemon: the only server this process could own is its own
	// supervisor instance, which is a no-op when nothing is running
	if err := services.GetSupervisor().Stop(context.Background()); err != nil {
		return err
	}
	fmt.Println("No daemon reachable and no server owned by this process")
	return nil
}

func init() {
	serverCmd.AddCommand(stopCmd)
}
