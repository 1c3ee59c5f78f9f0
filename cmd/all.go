package cmd

import (
	_ "mckeeper/cmd/daemon"
	_ "mckeeper/cmd/root"
	_ "mckeeper/cmd/server"
	_ "mckeeper/cmd/setup"
	_ "mckeeper/cmd/tunnel"
	_ "mckeeper/cmd/versions"
)
