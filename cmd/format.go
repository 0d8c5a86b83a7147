package cmd

import (
	"fmt"

	"leitor/internal/domain"

	"github.com/spf13/cobra"
)

var formatCmd = &cobra.Command{
	Use:       "format [avif|webp]",
	Short:     "Show or set the preferred image format of the site",
	Long:      "avif pages are served by the site itself, webp pages come from an external host that may fail behind cloudflare.",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(domain.FormatAvif), string(domain.FormatWebp)},
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp("")
		if err != nil {
			fail("Failed to set up source: %v", err)
		}

		if len(args) == 1 {
			if err := a.prefs.SetFormat(domain.Format(args[0])); err != nil {
				fail("Failed to set format: %v", err)
			}
		}

		format, err := a.prefs.Format()
		if err != nil {
			fail("Failed to read format: %v", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", a.src, format)
	},
}
