package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"boscoin.io/congress/lib/version"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", version.ToDetailVersion())
	},
}
