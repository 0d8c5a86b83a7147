package source

import (
	"context"
	"net/http"
	"net/url"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	"leitor/internal/domain"
	"leitor/internal/sharedhttp"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Chapters lists every release of every chapter of series, one Chapter per
// scanlation team. Pages are fetched one after the other since the first
// page decides whether there are more.
func (m *MangasProject) Chapters(ctx context.Context, series domain.Series) ([]domain.Chapter, error) {
	if series.Status == domain.StatusLicensed {
		return nil, domain.ErrMangaRemoved
	}

	seriesURL := m.relative(series.URL)
	id := path.Base(strings.TrimSuffix(seriesURL, "/"))
	if id == "" || id == "." || id == "/" {
		return nil, errors.Errorf("could not find series id in %q", series.URL)
	}

	log := m.operation("chapters").With().Str("series", seriesURL).Logger()

	chapters, more, err := m.chapterPage(ctx, seriesURL, id, 1)
	if err != nil {
		return nil, err
	}

	if !more {
		log.Debug().Msg("series has no chapters")
		return []domain.Chapter{}, nil
	}

	if len(chapters) < chapterPageSize {
		log.Debug().Int("chapters", len(chapters)).Msg("fetched chapters")
		return chapters, nil
	}

	page := 2
	for ; page <= m.chapterPageLimit; page++ {
		records, more, err := m.chapterPage(ctx, seriesURL, id, page)
		if err != nil {
			return nil, err
		}

		if !more {
			break
		}

		chapters = append(chapters, records...)
	}

	if page > m.chapterPageLimit {
		log.Warn().Int("limit", m.chapterPageLimit).Msg("chapter list did not end before the page limit")
	}

	log.Debug().Int("pages", min(page, m.chapterPageLimit)).Int("chapters", len(chapters)).Msg("fetched chapters")

	return chapters, nil
}

// chapterPage returns false when the backend answered with the false
// sentinel instead of a list.
func (m *MangasProject) chapterPage(ctx context.Context, seriesURL, id string, page int) ([]domain.Chapter, bool, error) {
	result, err := fetchJSON[chapterListDto](ctx, m, sharedhttp.Request{
		Method: http.MethodGet,
		URL: m.endpoint("/series/chapters_list.json", url.Values{
			"page":     []string{strconv.Itoa(page)},
			"id_serie": []string{id},
		}),
		Header: m.apiHeader(m.absolute(seriesURL)),
	})
	if err != nil {
		return nil, false, errors.Wrapf(err, "chapter list page %d", page)
	}

	if result.Chapters.IsEmpty() {
		return nil, false, nil
	}

	var chapters []domain.Chapter
	for _, c := range result.Chapters.Items() {
		chapters = append(chapters, expandReleases(c)...)
	}

	return chapters, true, nil
}

// expandReleases keeps the releases of one chapter number apart so each
// team keeps its own entry.
func expandReleases(c chapterDto) []domain.Chapter {
	name := "Cap. " + c.Number
	if c.Name != "" {
		name += " - " + c.Name
	}

	number, err := strconv.ParseFloat(strings.TrimSpace(c.Number), 64)
	if err != nil {
		number = -1
	}

	uploadedAt := parseDate(c.DateCreated)

	chapters := make([]domain.Chapter, 0, len(c.Releases))
	for _, release := range c.Releases {
		chapters = append(chapters, domain.Chapter{
			Name:       name,
			Number:     number,
			UploadedAt: uploadedAt,
			Scanlator:  scanlatorLabel(release.Value),
			URL:        release.Value.Link,
		})
	}

	return chapters
}

func scanlatorLabel(release releaseDto) string {
	names := lo.FilterMap(release.Scanlators, func(s scanlatorDto, _ int) (string, bool) {
		return s.Name, s.Name != ""
	})

	names = lo.Uniq(names)
	slices.Sort(names)

	return strings.Join(names, ", ")
}

// parseDate reads the yyyy-MM-dd prefix of a timestamp as UTC epoch millis,
// 0 when it does not parse.
func parseDate(value string) int64 {
	day, _, _ := strings.Cut(value, "T")

	t, err := time.Parse(time.DateOnly, day)
	if err != nil {
		return 0
	}

	return t.UnixMilli()
}
