package source

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"leitor/internal/domain"
	"leitor/internal/sharedhttp"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var readerTokenPattern = regexp.MustCompile(`READER_TOKEN\s*=\s*'(\S+?)'`)

// Pages resolves the reader token of chapter and builds the page list from
// the manifest it unlocks. The format preference is read once per call.
func (m *MangasProject) Pages(ctx context.Context, chapter domain.Chapter) ([]domain.PageRef, error) {
	log := m.operation("pages").With().Str("chapter", chapter.URL).Logger()

	format := m.format(log)

	resp, err := m.visit(ctx, m.absolute(chapter.URL), http.Header{
		"Accept":          []string{acceptHTML},
		"Accept-Language": []string{acceptLanguage},
		"Referer":         []string{m.baseURL + "/home"},
	}, nil)
	if err != nil {
		return nil, err
	}

	match := readerTokenPattern.FindSubmatch(resp.Body)
	if match == nil {
		return nil, domain.ErrTokenNotFound
	}
	token := string(match[1])

	chapterURL := resp.Request.URL.String()
	if r, ok := m.site.(ChapterURLRewriter); ok {
		chapterURL = r.ChapterURL(chapterURL, m.baseURL)
	}

	id, err := manifestID(chapterURL)
	if err != nil {
		return nil, err
	}

	header := m.apiHeader(chapterURL)

	manifest, err := fetchJSON[readerDto](ctx, m, sharedhttp.Request{
		Method: http.MethodGet,
		URL:    m.endpoint("/leitor/pages/"+url.PathEscape(id)+".json", url.Values{"key": []string{token}}),
		Header: header,
	})
	if err != nil {
		return nil, err
	}

	pages := make([]domain.PageRef, 0, len(manifest.Images))
	for i, image := range manifest.Images {
		imageURL := image.Avif
		if format == domain.FormatWebp {
			imageURL = image.Legacy
		}

		pages = append(pages, domain.PageRef{
			Index:      i,
			ContextURL: chapterURL,
			ImageURL:   imageURL,
		})
	}

	log.Debug().Str("format", string(format)).Int("pages", len(pages)).Msg("built page list")

	return pages, nil
}

func (m *MangasProject) format(log zerolog.Logger) domain.Format {
	if m.prefs == nil {
		return domain.FormatAvif
	}

	format, err := m.prefs.Format()
	if err != nil {
		log.Warn().Err(err).Msg("could not read preferred format, using avif")
		return domain.FormatAvif
	}

	return format
}

// manifestID is the path segment before the last one of a reader url, e.g.
// 12345 in /ler/one-piece/online/12345/capitulo-1000.
func manifestID(chapterURL string) (string, error) {
	u, err := url.Parse(chapterURL)
	if err != nil {
		return "", errors.Wrapf(err, "could not parse chapter url %q", chapterURL)
	}

	p := u.Path
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[:i]
	}
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}

	if p == "" {
		return "", errors.Errorf("could not find chapter id in %q", chapterURL)
	}

	return p, nil
}
