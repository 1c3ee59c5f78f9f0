package server

import (
	"encoding/json"
	"fmt"
	"os"

	"mckeeper/internal/models"
	"mckeeper/internal/rpc"
	"mckeeper/services"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server state, resources and tunnel endpoints",
	Run: func(cmd *cobra.Command, args []string) {
		if err := showStatus(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func showStatus() error {
	var status models.StatusResponse

	rpcClient := rpc.NewHTTPClient(nil)
	resp, err := rpcClient.Get("/mckeeper/api/v1/server/status", nil)
	rpcClient.Close()
	if err == nil && resp.OK() {
		if err := json.Unmarshal(resp.Body, &status); err != nil {
			return fmt.Errorf("bad status response: %v", err)
		}
	} else {
		// no daemon: report what this process can see
		status = services.GetSupervisor().Status()
	}

	printStatus(&status)
	return nil
}

func printStatus(status *models.StatusResponse) {
	fmt.Printf("State:        %s\n", status.State)
	if status.Dist != "" {
		fmt.Printf("Distribution: %s %s\n", status.Dist, status.Version)
	}
	fmt.Printf("Directory:    %s\n", status.ServerDir)
	fmt.Printf("Address:      %s:%d\n", status.LocalIP, status.Port)
	if status.Resources.Running {
		fmt.Printf("PID:          %d\n", status.Resources.Pid)
		fmt.Printf("CPU:          %.1f%%\n", status.Resources.CPUPercent)
		fmt.Printf("Memory:       %.1f MiB (%.1f%%)\n",
			float64(status.Resources.MemoryBytes)/(1024*1024), status.Resources.MemoryPercent)
		fmt.Printf("Uptime:       %.0fs\n", status.Resources.UptimeSeconds)
	}
	for _, tunnel := range status.Tunnels {
		for _, u := range tunnel.URLs {
			fmt.Printf("Tunnel (%s):  %s\n", tunnel.Service, u)
		}
		for _, ip := range tunnel.IPs {
			fmt.Printf("Tunnel (%s):  %s\n", tunnel.Service, ip)
		}
	}
}

func init() {
	serverCmd.AddCommand(statusCmd)
}
