package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"leitor/internal/domain"
	"leitor/internal/files"
	"leitor/internal/logger"
	"leitor/internal/parse"

	"github.com/spf13/cobra"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Monitor the configured series for new chapters",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		a, err := newApp("")
		if err != nil {
			fail("Failed to set up source: %v", err)
		}
		log := a.log

		if err := a.cfg.UpdateConfig(); err != nil {
			log.Error().Err(err).Msgf("error updating config")
		}

		// init dynamic config
		a.cfg.DynamicReload(log)

		if err := a.cfg.ValidateDownloadLocation(); err != nil {
			log.Fatal().Err(err).Msg("invalid download location")
		}
		if err := files.IsValidLocation(a.cfg.Config.DownloadLocation); err != nil {
			log.Fatal().Err(err).Msgf("invalid download location")
		}

		log.Info().Msg("starting to monitor configured series")

		interval := time.Duration(a.cfg.Config.CheckInterval) * time.Minute
		if interval <= 0 {
			interval = 15 * time.Minute
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		wg := sync.WaitGroup{}
		quit := make(chan bool, 1)

		check := func() {
			for name, monitored := range a.cfg.Monitored() {
				name, monitored := name, monitored
				wg.Add(1)

				go func() {
					defer wg.Done()
					a.checkSeries(ctx, log, name, monitored)
				}()
			}

			wg.Wait()
		}

		go func() {
			check()

			for {
				select {
				case <-quit:
					return
				case <-ticker.C:
					check()
				}
			}
		}()

		// set up a channel to catch signals for graceful shutdown
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)

		fmt.Printf("received signal: %s, stopping monitoring.\n", <-sigCh)
		quit <- true
		cancel()
		wg.Wait()
	},
}

// checkSeries downloads the latest chapter of a monitored series when it is
// not on disk yet.
func (a *app) checkSeries(ctx context.Context, log logger.Logger, name string, monitored domain.MonitoredSeries) {
	site := monitored.Site
	if site == "" {
		site = a.cfg.Config.Site
	}

	src, _, err := a.source(site, "")
	if err != nil {
		log.Error().Err(err).Msgf("unknown monitored series site for %s: %s", name, monitored.Site)
		return
	}

	series, err := src.SeriesDetails(ctx, domain.Series{URL: monitored.URL})
	if err != nil {
		log.Error().Err(err).Msgf("error getting series %s from %s", name, src)
		return
	}
	mLog := log.With().Str("series", series.Title).Str("source", src.String()).Logger()

	chapters, err := src.Chapters(ctx, series)
	if err != nil {
		mLog.Error().Err(err).Msg("error getting series chapters")
		return
	}

	byNumber := parse.ByNumber(chapters)

	_, latestChapterNr, err := parse.GetMinAndMaxKeys(byNumber)
	if err != nil {
		mLog.Error().Err(err).Msg("error finding latest chapter")
		return
	}

	selectedChapter, ok := parse.PickRelease(byNumber[latestChapterNr], monitored.Scanlator)
	if !ok {
		mLog.Warn().Msgf("no release of chapter %g by %q", latestChapterNr, monitored.Scanlator)
		return
	}

	contentPath, templatedName := chapterPath(a.cfg.Config.DownloadLocation, a.cfg.Config.NamingTemplate, series, selectedChapter)

	mLog.Debug().Msgf("checking %q", templatedName)
	downloaded, err := downloadChapter(ctx, src, contentPath, selectedChapter, nil, templatedName)
	if err != nil {
		mLog.Error().Err(err).Msgf("error downloading chapter %q", templatedName)
		return
	}

	if !downloaded {
		mLog.Debug().Msgf("chapter has already been downloaded, skipping %q", templatedName)
		return
	}

	mLog.Info().Msgf("finished downloading %q", templatedName)
}
