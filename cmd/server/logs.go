package server

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mckeeper/internal/rpc"

	"github.com/spf13/cobra"
)

var flagLines int

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show buffered server console output",
	Run: func(cmd *cobra.Command, args []string) {
		if err := showLogs(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func showLogs() error {
	rpcClient := rpc.NewHTTPClient(nil)
	defer rpcClient.Close()

	resp, err := rpcClient.Get("/mckeeper/api/v1/server/logs",
		map[string]interface{}{"lines": flagLines})
	if err != nil {
		// no daemon: fall back to the log file the server writes itself
		return showLogFile()
	}
	if !resp.OK() {
		return fmt.Errorf("daemon failed to fetch logs: %s", resp.Error)
	}

	var body struct {
		Lines []string `json:"lines"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return fmt.Errorf("bad logs response: %v", err)
	}
	for _, line := range body.Lines {
		fmt.Println(line)
	}
	return nil
}

// showLogFile tails logs/latest.log inside the server directory.
func showLogFile() error {
	path := filepath.Join(flagDir, "logs", "latest.log")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("no daemon reachable and no log file at %s: %v", path, err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if flagLines > 0 && flagLines < len(lines) {
		lines = lines[len(lines)-flagLines:]
	}
	for _, line := range lines {
		fmt.Println(line)
	}
	return nil
}

func init() {
	logsCmd.Flags().IntVarP(&flagLines, "lines", "n", 0, "Number of lines, 0 for the whole buffer")
	serverCmd.AddCommand(logsCmd)
}
