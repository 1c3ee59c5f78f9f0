package server

import (
	"fmt"
	"os"
	"strings"

	"mckeeper/internal/models"
	"mckeeper/internal/rpc"

	"github.com/spf13/cobra"
)

var commandCmd = &cobra.Command{
	Use:   "cmd <command...>",
	Short: "Send a console command to the running server",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := sendCommand(strings.Join(args, " ")); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func sendCommand(command string) error {
	rpcClient := rpc.NewHTTPClient(nil)
	defer rpcClient.Close()

	resp, err := rpcClient.Post("/mckeeper/api/v1/server/command",
		nil, models.CommandRequest{Command: command})
	if err != nil {
		return fmt.Errorf("console commands need a running mckeeper daemon: %v", err)
	}
	if !resp.OK() {
		return fmt.Errorf("daemon rejected command: %s", resp.Error)
	}
	fmt.Printf("Sent: %s\n", command)
	return nil
}

func init() {
	serverCmd.AddCommand(commandCmd)
}
