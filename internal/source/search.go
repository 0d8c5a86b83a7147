package source

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"leitor/internal/domain"
	"leitor/internal/sharedhttp"
)

const idSearchPrefix = "id:"

var idSearchPattern = regexp.MustCompile(`^id:(\S+)/(\d+)$`)

// SearchSeries runs a direct lookup for queries like id:<slug>/<id> and a
// text search otherwise. Neither mode paginates.
func (m *MangasProject) SearchSeries(ctx context.Context, query string) (domain.SeriesPage, error) {
	if strings.HasPrefix(query, idSearchPrefix) {
		if match := idSearchPattern.FindStringSubmatch(query); match != nil {
			return m.searchByID(ctx, match[2])
		}
	}

	log := m.operation("search")

	result, err := fetchJSON[searchDto](ctx, m, m.searchRequest(query))
	if err != nil {
		return domain.SeriesPage{}, err
	}

	if result.Series.IsEmpty() {
		log.Debug().Str("query", query).Msg("no results")
		return domain.SeriesPage{Series: []domain.Series{}}, nil
	}

	series := make([]domain.Series, 0, len(result.Series.Items()))
	for _, s := range result.Series.Items() {
		series = append(series, domain.Series{
			Title:        s.Name,
			ThumbnailURL: s.Cover,
			URL:          s.Link,
			Status:       domain.StatusUnknown,
		})
	}

	log.Debug().Str("query", query).Int("series", len(series)).Msg("searched series")

	return domain.SeriesPage{Series: series}, nil
}

// searchByID keeps saved identifiers working after the site changes a slug.
func (m *MangasProject) searchByID(ctx context.Context, id string) (domain.SeriesPage, error) {
	seriesURL := "/manga/" + id

	series, err := m.SeriesDetails(ctx, domain.Series{URL: seriesURL})
	if err != nil {
		return domain.SeriesPage{}, err
	}
	series.URL = seriesURL

	return domain.SeriesPage{Series: []domain.Series{series}}, nil
}

func (m *MangasProject) searchRequest(query string) sharedhttp.Request {
	form := url.Values{"search": []string{query}}

	header := m.apiHeader(m.baseURL)
	header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")

	return sharedhttp.Request{
		Method: http.MethodPost,
		URL:    m.endpoint("/lib/search/series.json", nil),
		Header: header,
		Body:   strings.NewReader(form.Encode()),
	}
}
