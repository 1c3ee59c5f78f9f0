package main

import (
	"os"

	_ "mckeeper/cmd"
	"mckeeper/cmd/root"
	"mckeeper/internal/config"
	"mckeeper/internal/logger"
)

func main() {
	// Daemon mode mirrors its log stream to the console as well.
	isDaemonMode := len(os.Args) > 1 && os.Args[1] == "daemon"

	logger.InitLoggerWithMode(&config.Config.Log, isDaemonMode)

	if err := root.RootCmd.Execute(); err != nil {
		logger.Fatal(err)
	}
	os.Exit(0)
}
