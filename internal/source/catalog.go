package source

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"leitor/internal/domain"
	"leitor/internal/sharedhttp"
)

// PopularSeries lists the most read series. The listing is capped at the
// popular page limit; the backend gives no end of data signal.
func (m *MangasProject) PopularSeries(ctx context.Context, page int) (domain.SeriesPage, error) {
	page = max(page, 1)
	log := m.operation("popular")

	result, err := fetchJSON[mostReadDto](ctx, m, sharedhttp.Request{
		Method: http.MethodGet,
		URL:    m.listingURL("/home/most_read", page),
		Header: m.apiHeader(m.baseURL),
	})
	if err != nil {
		return domain.SeriesPage{}, err
	}

	series := make([]domain.Series, 0, len(result.MostRead.Items()))
	for _, s := range result.MostRead.Items() {
		series = append(series, domain.Series{
			Title:        s.SerieName,
			ThumbnailURL: s.Cover,
			URL:          s.Link,
			Status:       domain.StatusUnknown,
		})
	}

	log.Debug().Int("page", page).Int("series", len(series)).Msg("fetched popular series")

	return domain.SeriesPage{
		Series:      series,
		HasNextPage: page < m.popularPageLimit,
	}, nil
}

// LatestSeries lists recently updated series, capped like PopularSeries.
func (m *MangasProject) LatestSeries(ctx context.Context, page int) (domain.SeriesPage, error) {
	page = max(page, 1)
	log := m.operation("latest")

	result, err := fetchJSON[releasesDto](ctx, m, sharedhttp.Request{
		Method: http.MethodGet,
		URL:    m.listingURL("/home/releases", page),
		Header: m.apiHeader(m.baseURL),
	})
	if err != nil {
		return domain.SeriesPage{}, err
	}

	series := make([]domain.Series, 0, len(result.Releases.Items()))
	for _, s := range result.Releases.Items() {
		series = append(series, domain.Series{
			Title:        s.Name,
			ThumbnailURL: s.Image,
			URL:          s.Link,
			Status:       domain.StatusUnknown,
		})
	}

	log.Debug().Int("page", page).Int("series", len(series)).Msg("fetched latest series")

	return domain.SeriesPage{
		Series:      series,
		HasNextPage: page < m.latestPageLimit,
	}, nil
}

func (m *MangasProject) listingURL(p string, page int) string {
	return m.endpoint(p, url.Values{
		"page": []string{strconv.Itoa(page)},
		"type": []string{""},
	})
}
