package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"leitor/internal/buildinfo"
	"leitor/internal/config"
	"leitor/internal/domain"
	"leitor/internal/download"
	"leitor/internal/logger"
	"leitor/internal/preference"
	"leitor/internal/sanitize"
	"leitor/internal/source"
	"leitor/internal/templater"
	"leitor/internal/ui"
)

// app bundles what every command builds from the config.
type app struct {
	cfg   *config.AppConfig
	log   logger.Logger
	prefs preference.File
	src   *source.MangasProject
}

func newApp(site string) (*app, error) {
	cfg := config.New(configPath, buildinfo.Version)
	log := logger.New(cfg.Config)

	if site == "" {
		site = siteName
	}
	if site == "" {
		site = cfg.Config.Site
	}

	a := &app{cfg: cfg, log: log}

	src, prefs, err := a.source(site, "")
	if err != nil {
		return nil, err
	}

	a.src = src
	a.prefs = prefs

	return a, nil
}

// source builds the engine for one site. baseURL is only honored for the
// configured site.
func (a *app) source(name string, baseURL string) (*source.MangasProject, preference.File, error) {
	site, err := source.LookupSite(name)
	if err != nil {
		return nil, preference.File{}, err
	}

	if baseURL == "" && strings.EqualFold(name, a.cfg.Config.Site) {
		baseURL = a.cfg.Config.BaseURL
	}

	prefs := preference.File{
		Path:      a.cfg.Config.PreferencePath,
		Namespace: preference.Namespace(site.ID()),
	}

	zl := a.log.Zerolog()

	src, err := source.NewMangasProject(site, source.Options{
		BaseURL:          baseURL,
		UserAgent:        a.cfg.Config.UserAgent,
		Timeout:          time.Duration(a.cfg.Config.RequestTimeout) * time.Second,
		CloudflareBypass: a.cfg.Config.CloudflareBypass,
		PopularPageLimit: a.cfg.Config.PopularPageLimit,
		LatestPageLimit:  a.cfg.Config.LatestPageLimit,
		ChapterPageLimit: a.cfg.Config.ChapterPageLimit,
		Preferences:      prefs,
		Logger:           &zl,
	})
	if err != nil {
		return nil, preference.File{}, err
	}

	return src, prefs, nil
}

// chapterPath is where a chapter archive of series ends up.
func chapterPath(dir, template string, series domain.Series, chapter domain.Chapter) (string, string) {
	if template == "" {
		template = templater.DefaultTemplate
	}

	t := templater.New(series, chapter)
	templatedName := t.ExecTemplate(template)

	chapterFile := sanitize.Filename(templatedName)
	return filepath.Join(dir, sanitize.Filename(series.Title), chapterFile+".cbz"), templatedName
}

// downloadChapter resolves the pages of chapter and writes the archive. It
// reports false when the archive already exists.
func downloadChapter(ctx context.Context, src *source.MangasProject, contentPath string, chapter domain.Chapter, progress *ui.Progress, name string) (bool, error) {
	if _, err := os.Stat(contentPath); err == nil {
		return false, nil
	}

	pages, err := src.Pages(ctx, chapter)
	if err != nil {
		return false, fmt.Errorf("could not get pages: %w", err)
	}

	opts := download.Options{
		Header: src.ImageHeader(),
		Client: src.HTTPClient(),
	}
	if progress != nil {
		opts.OnPage = progress.Chapter(name, len(pages))
	}

	if err := download.Chapter(ctx, contentPath, pages, opts); err != nil {
		return false, err
	}

	return true, nil
}
