package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"leitor/internal/domain"
	"leitor/internal/files"
	"leitor/internal/source"
	"leitor/internal/ui"

	"github.com/manifoldco/promptui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the site interactively",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		a, err := newApp("")
		if err != nil {
			fail("Failed to set up source: %v", err)
		}

		err = a.browse(cmd.Context())
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return
		}
		if err != nil {
			fail("%v", err)
		}
	},
}

// listing loads one page of series.
type listing func(ctx context.Context, page int) (domain.SeriesPage, error)

func (a *app) browse(ctx context.Context) error {
	modes := []string{"Popular", "Latest", "Search", "Quit"}

	for {
		i, err := ui.Choose(a.src.String(), modes)
		if err != nil {
			return err
		}

		var list listing
		switch i {
		case 0:
			list = a.src.PopularSeries
		case 1:
			list = a.src.LatestSeries
		case 2:
			query, err := ui.Ask("Search")
			if err != nil {
				return err
			}
			if strings.HasPrefix(query, "http") {
				if query, err = source.ParseDeepLink(query); err != nil {
					fmt.Println("Invalid link:", err)
					continue
				}
			}
			list = func(ctx context.Context, _ int) (domain.SeriesPage, error) {
				return a.src.SearchSeries(ctx, query)
			}
		default:
			return nil
		}

		if err := a.browseListing(ctx, list); err != nil && !errors.Is(err, ui.ErrBack) {
			return err
		}
	}
}

func (a *app) browseListing(ctx context.Context, list listing) error {
	var series []domain.Series

	for page := 1; ; {
		result, err := list(ctx, page)
		if err != nil {
			return errors.Wrap(err, "could not load series")
		}
		series = append(series, result.Series...)

		for {
			i, err := ui.SelectSeries("Series", series, result.HasNextPage)
			if err != nil {
				return err
			}

			if i == len(series) {
				page++
				break
			}

			if err := a.browseSeries(ctx, series[i]); err != nil && !errors.Is(err, ui.ErrBack) {
				return err
			}
		}
	}
}

func (a *app) browseSeries(ctx context.Context, series domain.Series) error {
	series, err := a.src.SeriesDetails(ctx, series)
	if err != nil {
		return errors.Wrapf(err, "could not load %q", series.Title)
	}
	printSeries(os.Stdout, series)

	chapters, err := a.src.Chapters(ctx, series)
	if errors.Is(err, domain.ErrMangaRemoved) {
		fmt.Println("This series was removed from the site.")
		return ui.ErrBack
	}
	if err != nil {
		return errors.Wrapf(err, "could not load chapters of %q", series.Title)
	}

	for {
		chapter, err := ui.SelectChapter(series.Title, chapters)
		if err != nil {
			return err
		}

		action, err := ui.Choose(chapter.Name, []string{"Download", "Show pages", "« back"})
		if err != nil {
			return err
		}

		switch action {
		case 0:
			if err := a.browseDownload(ctx, series, chapter); err != nil {
				fmt.Println(err)
			}
		case 1:
			pages, err := a.src.Pages(ctx, chapter)
			if err != nil {
				fmt.Printf("Failed to get pages of %q: %v\n", chapter.Name, err)
				continue
			}
			printPages(os.Stdout, pages)
		}
	}
}

func (a *app) browseDownload(ctx context.Context, series domain.Series, chapter domain.Chapter) error {
	if err := a.cfg.ValidateDownloadLocation(); err != nil {
		return err
	}
	if err := files.IsValidLocation(a.cfg.Config.DownloadLocation); err != nil {
		return err
	}

	contentPath, templatedName := chapterPath(a.cfg.Config.DownloadLocation, a.cfg.Config.NamingTemplate, series, chapter)

	progress := ui.NewProgress(os.Stderr)
	downloaded, err := downloadChapter(ctx, a.src, contentPath, chapter, progress, templatedName)
	progress.Wait()
	if err != nil {
		return errors.Wrapf(err, "failed to download chapter %q", templatedName)
	}

	if !downloaded {
		fmt.Printf("Chapter has already been downloaded, skipping %q\n", templatedName)
		return nil
	}

	fmt.Printf("Finished downloading %q\n", templatedName)
	return nil
}
