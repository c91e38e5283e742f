package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// set via -ldflags "-X github.com/saturnino-fabrica-de-software/pontoface/cmd.version=..."
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pontoface version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pontoface %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
