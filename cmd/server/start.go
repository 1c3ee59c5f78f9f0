package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mckeeper/internal/models"
	"mckeeper/internal/rpc"
	"mckeeper/services"

	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the Minecraft server",
	Run: func(cmd *cobra.Command, args []string) {
		if err := startServer(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

/**
 * Start the server via the daemon, falling back to a foreground run
 * @returns {error} Returns error if the server cannot be started
 * @description
 * - When a daemon answers, the daemon owns the process and this
 *   command returns as soon as the server is ready
 * - Without a daemon the server runs attached to this command; Ctrl-C
 *   shuts it down cleanly
 */
func startServer() error {
	// the daemon blocks until the server reports ready, so the request
	// needs headroom over the readiness wait
	cfg := rpc.DefaultHTTPConfig()
	cfg.Timeout = 2 * time.Minute
	rpcClient := rpc.NewHTTPClient(cfg)
	resp, err := rpcClient.Post("/mckeeper/api/v1/server/start", nil, nil)
	rpcClient.Close()
	if err == nil {
		if resp.OK() {
			fmt.Println("Server started via mckeeper daemon")
			return nil
		}
		return fmt.Errorf("daemon refused to start server: %s", resp.Error)
	}
	if !rpc.IsDaemonDown(err) {
		// a daemon answered the dial; starting locally too would spawn a
		// second server against the same directory
		return fmt.Errorf("daemon did not answer in time: %v", err)
	}
	return startServerLocally()
}

func startServerLocally() error {
	spec, err := services.BuildLaunchSpec(flagDir)
	if err != nil {
		return err
	}
	supervisor := services.GetSupervisor()
	if err := supervisor.SetLaunchSpec(spec); err != nil {
		return err
	}
	if err := supervisor.Start(context.Background()); err != nil {
		return err
	}
	fmt.Println("Server is ready, press Ctrl-C to stop")

	// keep supervising until the server dies or the user interrupts
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-sigCh:
			fmt.Println("Stopping server...")
			if err := supervisor.Stop(context.Background()); err != nil {
				return err
			}
			fmt.Println("Server stopped")
			return nil
		case <-ticker.C:
			if supervisor.State() == models.StateStopped {
				fmt.Println("Server exited")
				return nil
			}
		}
	}
}

func init() {
	serverCmd.AddCommand(startCmd)
}
