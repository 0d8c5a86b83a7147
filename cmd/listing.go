package cmd

import (
	"io"
	"strings"

	"leitor/internal/domain"
	"leitor/internal/source"

	"github.com/spf13/cobra"
)

var popularCmd = &cobra.Command{
	Use:   "popular",
	Short: "List the most read series",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		a, err := newApp("")
		if err != nil {
			fail("Failed to set up source: %v", err)
		}

		result, err := a.src.PopularSeries(cmd.Context(), page)
		if err != nil {
			fail("Failed to get popular series from %q: %v", a.src, err)
		}

		if err := render(cmd, result, func(w io.Writer) { printSeriesPage(w, result) }); err != nil {
			fail("Failed to print result: %v", err)
		}
	},
}

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "List recently updated series",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		a, err := newApp("")
		if err != nil {
			fail("Failed to set up source: %v", err)
		}

		result, err := a.src.LatestSeries(cmd.Context(), page)
		if err != nil {
			fail("Failed to get latest series from %q: %v", a.src, err)
		}

		if err := render(cmd, result, func(w io.Writer) { printSeriesPage(w, result) }); err != nil {
			fail("Failed to print result: %v", err)
		}
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search series by title, id:<slug>/<id> or series link",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp("")
		if err != nil {
			fail("Failed to set up source: %v", err)
		}

		query := strings.Join(args, " ")
		if strings.HasPrefix(query, "http://") || strings.HasPrefix(query, "https://") {
			if query, err = source.ParseDeepLink(query); err != nil {
				fail("Invalid link: %v", err)
			}
		}

		result, err := a.src.SearchSeries(cmd.Context(), query)
		if err != nil {
			fail("Failed to search %q on %q: %v", query, a.src, err)
		}

		if err := render(cmd, result, func(w io.Writer) { printSeriesPage(w, result) }); err != nil {
			fail("Failed to print result: %v", err)
		}
	},
}

var detailsCmd = &cobra.Command{
	Use:   "details <series-url>",
	Short: "Show the details of a series",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp("")
		if err != nil {
			fail("Failed to set up source: %v", err)
		}

		series, err := a.src.SeriesDetails(cmd.Context(), domain.Series{URL: args[0]})
		if err != nil {
			fail("Failed to get details of %q: %v", args[0], err)
		}

		if err := render(cmd, series, func(w io.Writer) { printSeries(w, series) }); err != nil {
			fail("Failed to print result: %v", err)
		}
	},
}

var chaptersCmd = &cobra.Command{
	Use:   "chapters <series-url>",
	Short: "List every release of every chapter of a series",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		a, err := newApp("")
		if err != nil {
			fail("Failed to set up source: %v", err)
		}

		// the detail page tells whether the series was taken down
		series, err := a.src.SeriesDetails(ctx, domain.Series{URL: args[0]})
		if err != nil {
			fail("Failed to get details of %q: %v", args[0], err)
		}

		chapters, err := a.src.Chapters(ctx, series)
		if err != nil {
			fail("Failed to get chapters of %q: %v", series.Title, err)
		}

		if err := render(cmd, chapters, func(w io.Writer) { printChapters(w, chapters) }); err != nil {
			fail("Failed to print result: %v", err)
		}
	},
}

var pagesCmd = &cobra.Command{
	Use:   "pages <chapter-url>",
	Short: "List the page images of a chapter in the preferred format",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp("")
		if err != nil {
			fail("Failed to set up source: %v", err)
		}

		pages, err := a.src.Pages(cmd.Context(), domain.Chapter{URL: args[0]})
		if err != nil {
			fail("Failed to get pages of %q: %v", args[0], err)
		}

		if err := render(cmd, pages, func(w io.Writer) { printPages(w, pages) }); err != nil {
			fail("Failed to print result: %v", err)
		}
	},
}
