package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "leitor",
	Short: "Browse, read and download series from MangasProject sites.",
	Long: `Browse, read and download series from MangasProject sites (MangaLivre, Leitor.net).

Provide a configuration file using one of the following methods:
1. Use the --config <path> or -c <path> flag.
2. Place a config.yaml file in the default user configuration directory (e.g., ~/.config/leitor/).
3. Place a config.yaml file a folder inside your home directory (e.g., ~/.leitor/).
4. Place a config.yaml file in the directory of the binary.`,
}

func init() {
	initRootFlags()
	initListingFlags()
	initDownloadFlags()

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(popularCmd)
	rootCmd.AddCommand(latestCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(detailsCmd)
	rootCmd.AddCommand(chaptersCmd)
	rootCmd.AddCommand(pagesCmd)
	rootCmd.AddCommand(formatCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(browseCmd)
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
