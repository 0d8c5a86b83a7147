package cmd

import (
	"fmt"
	"os"
	"sync"

	"leitor/internal/domain"
	"leitor/internal/files"
	"leitor/internal/parse"
	"leitor/internal/ui"

	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download chapters of a series into cbz archives",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		if !cmd.Flags().Changed("first") && !cmd.Flags().Changed("chapters") {
			latest = true
		}

		a, err := newApp("")
		if err != nil {
			fail("Failed to set up source: %v", err)
		}

		if downloadDirectory == "" {
			downloadDirectory = a.cfg.Config.DownloadLocation
		}
		if naming == "" {
			naming = a.cfg.Config.NamingTemplate
		}

		if err := files.IsValidLocation(downloadDirectory); err != nil {
			fail("Invalid location: %v", err)
		}

		series, err := a.src.SeriesDetails(ctx, domain.Series{URL: seriesURL})
		if err != nil {
			fail("Failed to get series from %q: %v", a.src, err)
		}

		chapters, err := a.src.Chapters(ctx, series)
		if err != nil {
			fail("Failed to get chapters for %q: %v", series.Title, err)
		}

		byNumber := parse.ByNumber(chapters)

		firstChapterNr, latestChapterNr, err := parse.GetMinAndMaxKeys(byNumber)
		if err != nil {
			fail("Failed to parse chapter number for %q: %v", series.Title, err)
		}

		var selectedChapterNumbers []float64

		switch {
		case first:
			selectedChapterNumbers = []float64{firstChapterNr}
		case latest:
			selectedChapterNumbers = []float64{latestChapterNr}
		default:
			selectedChapterNumbers, err = parse.ChapterSelection(chapterNumbers, byNumber)
			if err != nil {
				fail("Failed to parse chapter selection for %q: %v", series.Title, err)
			}
		}

		if len(selectedChapterNumbers) == 0 {
			fail("Failed to find matching chapters in range %s for %q", chapterNumbers, series.Title)
		}

		progress := ui.NewProgress(os.Stderr)
		wg := sync.WaitGroup{}

		for _, num := range selectedChapterNumbers {
			selectedChapter, ok := parse.PickRelease(byNumber[num], scanlator)
			if !ok {
				fmt.Printf("Failed to find a release of chapter %g by %q\n", num, scanlator)
				continue
			}

			contentPath, templatedName := chapterPath(downloadDirectory, naming, series, selectedChapter)

			wg.Add(1)

			go func() {
				defer wg.Done()

				downloaded, err := downloadChapter(ctx, a.src, contentPath, selectedChapter, progress, templatedName)
				if err != nil {
					fmt.Printf("Failed to download chapter %q: %v\n", templatedName, err)
					return
				}

				if !downloaded {
					fmt.Printf("Chapter has already been downloaded, skipping %q\n", templatedName)
					return
				}

				fmt.Printf("Finished downloading %q\n", templatedName)
			}()
		}

		wg.Wait()
		progress.Wait()
	},
}
