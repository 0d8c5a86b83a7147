package cmd

import (
	"fmt"

	"leitor/internal/buildinfo"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version info",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "Version:", buildinfo.Version)
		fmt.Fprintln(cmd.OutOrStdout(), "Commit:", buildinfo.Commit)
		fmt.Fprintln(cmd.OutOrStdout(), "Build date:", buildinfo.Date)
	},
}
