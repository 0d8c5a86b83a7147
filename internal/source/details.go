package source

import (
	"context"
	"net/http"
	"strings"

	"leitor/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
	"github.com/samber/lo"
)

// SeriesDetails fetches the detail page of series and returns a filled copy.
func (m *MangasProject) SeriesDetails(ctx context.Context, series domain.Series) (domain.Series, error) {
	log := m.operation("details")

	details := series
	details.URL = m.relative(series.URL)

	var (
		found    bool
		blocked  bool
		complete bool
	)

	_, err := m.visit(ctx, m.absolute(details.URL), http.Header{
		"Accept":          []string{acceptHTML},
		"Accept-Language": []string{acceptLanguage},
		"Referer":         []string{m.baseURL},
	}, func(c *colly.Collector) {
		c.OnHTML("html", func(e *colly.HTMLElement) {
			if title := strings.TrimSpace(e.DOM.Find("meta[property='og:title']").AttrOr("content", "")); title != "" && details.Title == "" {
				details.Title = title
			}
			blocked = e.DOM.Find("div.series-blocked-img img[src$='blocked.svg']").Length() > 0
		})

		c.OnHTML("#series-data", func(e *colly.HTMLElement) {
			found = true

			if title := strings.TrimSpace(e.DOM.Find("span.series-title h1").First().Text()); title != "" {
				details.Title = title
			}
			if cover := e.ChildAttr("div.series-img > div.cover > img", "src"); cover != "" {
				details.ThumbnailURL = cover
			}
			details.Description = strings.TrimSpace(e.DOM.Find("span.series-desc > span").Text())

			authorText := strings.Join(e.DOM.Find("span.series-author").Map(func(_ int, s *goquery.Selection) string {
				return strings.TrimSpace(s.Text())
			}), " ")
			details.Author, details.Artist = parseAuthors(authorText)

			complete = e.DOM.Find("span.series-author i.complete-series").Length() > 0

			genres := e.DOM.Find("ul.tags li").Map(func(_ int, s *goquery.Selection) string {
				return s.Text()
			})
			details.Genres = lo.FilterMap(genres, func(genre string, _ int) (string, bool) {
				genre = strings.TrimSpace(genre)
				return genre, genre != ""
			})
		})
	})
	if err != nil {
		return domain.Series{}, err
	}

	if !found {
		log.Warn().Str("url", details.URL).Msg("series data not found on detail page")
	}

	details.Status = m.parseStatus(blocked, complete)

	log.Debug().Str("url", details.URL).Str("status", details.Status.String()).Msg("fetched series details")

	return details, nil
}

func (m *MangasProject) parseStatus(blocked, complete bool) domain.Status {
	licensedCheck := false
	if s, ok := m.site.(LicensedChecker); ok {
		licensedCheck = s.LicensedCheck()
	}

	switch {
	case blocked && licensedCheck:
		return domain.StatusLicensed
	case complete:
		return domain.StatusCompleted
	default:
		return domain.StatusOngoing
	}
}

// parseAuthors reads the author line of the detail page, e.g.
// "Completo Oda, Eiichiro & Oda, Eiichiro (Arte) + 2". Names are listed as
// "Last, First" and artists are tagged with (Arte).
func parseAuthors(text string) (author string, artist string) {
	if _, after, ok := strings.Cut(text, "Completo"); ok {
		text = after
	}
	if before, _, ok := strings.Cut(text, "+"); ok {
		text = before
	}

	var authors, artists []string

	for _, part := range strings.Split(text, "&") {
		isArtist := strings.Contains(part, "(Arte)")

		name := strings.TrimSpace(strings.ReplaceAll(part, " (Arte)", ""))
		name = strings.TrimSpace(strings.ReplaceAll(name, "(Arte)", ""))
		if name == "" {
			continue
		}

		name = strings.Join(lo.Reverse(strings.Split(name, ", ")), " ")

		if isArtist {
			artists = append(artists, name)
		} else {
			authors = append(authors, name)
		}
	}

	author = strings.Join(authors, ", ")
	artist = strings.Join(artists, ", ")
	if artist == "" {
		artist = author
	}

	return author, artist
}
