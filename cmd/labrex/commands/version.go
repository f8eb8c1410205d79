package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags "-X ...commands.Version=".
var Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the labrex version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("labrex " + Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
