package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mabhi256/evinspect/internal/events"
)

var (
	// This will be set by goreleaser
	version = "dev"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "evinspect version %s (event layout %s)\n", version, events.LayoutVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
