package tunnel

import (
	"encoding/json"
	"fmt"
	"os"

	"mckeeper/cmd/root"
	"mckeeper/internal/config"
	"mckeeper/internal/rpc"
	"mckeeper/services"

	"github.com/spf13/cobra"
)

var flagPort int

var tunnelCmd = &cobra.Command{
	Use:   "tunnel",
	Short: "Manage tunnel agents exposing the server",
}

var tunnelStartCmd = &cobra.Command{
	Use:   "start [service]",
	Short: "Start a tunnel agent (ngrok/playit/zrok)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service := ""
		if len(args) > 0 {
			service = args[0]
		}
		if err := startTunnel(service); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func startTunnel(service string) error {
	port := flagPort
	if port == 0 {
		port = config.Config.Minecraft.Port
	}

	rpcClient := rpc.NewHTTPClient(nil)
	if service == "" {
		service = config.Config.Tunnel.Service
	}
	if service == "" {
		service = "ngrok"
	}
	resp, err := rpcClient.Post(
		fmt.Sprintf("/mckeeper/api/v1/tunnels/%s/start", service),
		map[string]interface{}{"port": port}, nil)
	rpcClient.Close()
	if err == nil {
		if resp.OK() {
			fmt.Printf("Tunnel agent %s started via mckeeper daemon\n", service)
			return nil
		}
		return fmt.Errorf("daemon failed to start tunnel: %s", resp.Error)
	}
	if !rpc.IsDaemonDown(err) {
		return fmt.Errorf("daemon did not answer: %v", err)
	}

	if err := services.GetTunnelManager().StartTunnel(service, port); err != nil {
		return err
	}
	fmt.Printf("Tunnel agent %s started locally\n", service)
	return nil
}

var tunnelStopCmd = &cobra.Command{
	Use:   "stop <service>",
	Short: "Stop a tunnel agent",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := stopTunnel(args[0]); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func stopTunnel(service string) error {
	rpcClient := rpc.NewHTTPClient(nil)
	resp, err := rpcClient.Post(
		fmt.Sprintf("/mckeeper/api/v1/tunnels/%s/stop", service), nil, nil)
	rpcClient.Close()
	if err == nil {
		if resp.OK() {
			fmt.Printf("Tunnel agent %s stopped via mckeeper daemon\n", service)
			return nil
		}
		return fmt.Errorf("daemon failed to stop tunnel: %s", resp.Error)
	}
	if !rpc.IsDaemonDown(err) {
		return fmt.Errorf("daemon did not answer: %v", err)
	}

	return services.GetTunnelManager().StopTunnel(service)
}

var tunnelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List running tunnel agents and scraped endpoints",
	Run: func(cmd *cobra.Command, args []string) {
		if err := listTunnels(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func listTunnels() error {
	rpcClient := rpc.NewHTTPClient(nil)
	resp, err := rpcClient.Get("/mckeeper/api/v1/tunnels", nil)
	rpcClient.Close()

	if err == nil && resp.OK() {
		var body struct {
			Agents []services.TunnelAgent `json:"agents"`
			Endpoints []struct {
				Service string   `json:"service"`
				URLs    []string `json:"urls"`
				IPs     []string `json:"ips"`
			} `json:"endpoints"`
		}
		if err := json.Unmarshal(resp.Body, &body); err != nil {
			return fmt.Errorf("bad tunnels response: %v", err)
		}
		if len(body.Agents) == 0 {
			fmt.Println("No tunnel agents running")
		}
		for _, agent := range body.Agents {
			fmt.Printf("%-8s pid %-7d port %d\n", agent.Service, agent.Pid, agent.Port)
		}
		for _, endpoint := range body.Endpoints {
			for _, u := range endpoint.URLs {
				fmt.Printf("%-8s %s\n", endpoint.Service, u)
			}
			for _, ip := range endpoint.IPs {
				fmt.Printf("%-8s %s\n", endpoint.Service, ip)
			}
		}
		return nil
	}

	agents := services.GetTunnelManager().List()
	if len(agents) == 0 {
		fmt.Println("No tunnel agents running")
		return nil
	}
	for _, agent := range agents {
		fmt.Printf("%-8s pid %-7d port %d\n", agent.Service, agent.Pid, agent.Port)
	}
	return nil
}

func init() {
	tunnelStartCmd.Flags().IntVar(&flagPort, "port", 0, "Local port to expose, default the configured server port")
	tunnelCmd.AddCommand(tunnelStartCmd)
	tunnelCmd.AddCommand(tunnelStopCmd)
	tunnelCmd.AddCommand(tunnelListCmd)
	root.RootCmd.AddCommand(tunnelCmd)
}
