package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"leitor/internal/domain"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// render writes v as json or yaml, or calls text for the default output.
func render(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	w := cmd.OutOrStdout()

	switch strings.ToLower(outputFormat) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	case "", "text":
		text(w)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", outputFormat)
	}
}

func printSeriesPage(w io.Writer, result domain.SeriesPage) {
	for _, s := range result.Series {
		fmt.Fprintf(w, "%s\t%s\n", s.URL, s.Title)
	}
	if result.HasNextPage {
		fmt.Fprintln(w, "(more pages available)")
	}
}

func printSeries(w io.Writer, s domain.Series) {
	fmt.Fprintln(w, "Title:", s.Title)
	fmt.Fprintln(w, "URL:", s.URL)
	fmt.Fprintln(w, "Status:", s.Status)
	if s.Author != "" {
		fmt.Fprintln(w, "Author:", s.Author)
	}
	if s.Artist != "" {
		fmt.Fprintln(w, "Artist:", s.Artist)
	}
	if len(s.Genres) > 0 {
		fmt.Fprintln(w, "Genres:", strings.Join(s.Genres, ", "))
	}
	if s.ThumbnailURL != "" {
		fmt.Fprintln(w, "Cover:", s.ThumbnailURL)
	}
	if s.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.Description)
	}
}

func printChapters(w io.Writer, chapters []domain.Chapter) {
	for _, c := range chapters {
		uploaded := "-"
		if c.UploadedAt > 0 {
			uploaded = time.UnixMilli(c.UploadedAt).UTC().Format(time.DateOnly)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", uploaded, c.Name, c.Scanlator, c.URL)
	}
}

func printPages(w io.Writer, pages []domain.PageRef) {
	for _, p := range pages {
		fmt.Fprintf(w, "%d\t%s\n", p.Index, p.ImageURL)
	}
}

// fail prints the error and exits with a non zero code.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
