package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chukul/sagectl/internal"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sagectl version %s\n", internal.CurrentVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
