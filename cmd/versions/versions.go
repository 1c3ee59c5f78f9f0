package versions

import (
	"fmt"
	"os"
	"strings"

	"mckeeper/cmd/root"
	"mckeeper/internal/dist"

	"github.com/spf13/cobra"
)

var flagAll bool

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List available Minecraft versions and distributions",
	Run: func(cmd *cobra.Command, args []string) {
		if err := listVersions(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func listVersions() error {
	fmt.Printf("Distributions: %s\n", strings.Join(dist.Names(), ", "))

	latest, err := dist.LatestRelease()
	if err != nil {
		return err
	}
	fmt.Printf("Latest release: %s\n", latest)

	if flagAll {
		ids, err := dist.ListVersions()
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Println(id)
		}
	}
	return nil
}

func init() {
	versionsCmd.Flags().BoolVar(&flagAll, "all", false, "List every known version including snapshots")
	root.RootCmd.AddCommand(versionsCmd)
	versionsCmd.Example = `  mckeeper versions --all`
}
