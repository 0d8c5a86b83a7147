package source

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"leitor/internal/decode"
	"leitor/internal/domain"
	"leitor/internal/sharedhttp"

	"github.com/gocolly/colly"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	DefaultPopularPageLimit = 10
	DefaultLatestPageLimit  = 5
	DefaultChapterPageLimit = 100

	// chapterPageSize is the nominal number of rows per chapter list page.
	chapterPageSize = 30

	acceptJSON     = "application/json, text/javascript, */*; q=0.01"
	acceptHTML     = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.9"
	acceptImage    = "image/avif,image/webp,image/apng,image/svg+xml,image/*,*/*;q=0.8"
	acceptLanguage = "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7,es;q=0.6,gl;q=0.5"

	DefaultUserAgent = "Mozilla/5.0 (Linux; Android 10; SM-A307GT Build/QP1A.190711.020) AppleWebKit/537.36 (KHTML, like Gecko) Version/4.0 Chrome/103.0.5060.71 Mobile Safari/537.36"
)

// FormatReader is the read side of the preference store.
type FormatReader interface {
	Format() (domain.Format, error)
}

type Options struct {
	// BaseURL overrides the site's default base url.
	BaseURL          string
	UserAgent        string
	Timeout          time.Duration
	CloudflareBypass bool

	PopularPageLimit int
	LatestPageLimit  int
	ChapterPageLimit int

	// Preferences is read once per page list build. Nil means avif.
	Preferences FormatReader
	Logger      *zerolog.Logger

	// Transport replaces the shared transport, e.g. in tests.
	Transport http.RoundTripper
}

// MangasProject holds the logic shared by every site of the family. Site
// quirks are picked up from the optional interfaces the Site implements.
type MangasProject struct {
	site      Site
	baseURL   string
	client    *sharedhttp.Client
	collector *colly.Collector
	prefs     FormatReader
	log       zerolog.Logger

	popularPageLimit int
	latestPageLimit  int
	chapterPageLimit int
}

func NewMangasProject(site Site, opts Options) (*MangasProject, error) {
	baseURL := strings.TrimSuffix(site.BaseURL(), "/")
	if opts.BaseURL != "" {
		baseURL = strings.TrimSuffix(opts.BaseURL, "/")
	}

	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, errors.Wrapf(err, "invalid base url %q", baseURL)
	}

	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	if opts.Timeout <= 0 {
		opts.Timeout = sharedhttp.DefaultTimeout
	}

	captive := false
	if s, ok := site.(CaptiveHTMLSite); ok {
		captive = s.CaptiveHTML()
	}

	client, err := sharedhttp.NewClient(sharedhttp.Options{
		UserAgent:        opts.UserAgent,
		Timeout:          opts.Timeout,
		CloudflareBypass: opts.CloudflareBypass,
		CaptiveHTML:      captive,
		Base:             opts.Transport,
	})
	if err != nil {
		return nil, err
	}

	collector := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.UserAgent(opts.UserAgent),
	)
	collector.WithTransport(client.Transport())
	collector.SetCookieJar(client.Jar())
	collector.SetRequestTimeout(opts.Timeout)

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	return &MangasProject{
		site:             site,
		baseURL:          baseURL,
		client:           client,
		collector:        collector,
		prefs:            opts.Preferences,
		log:              log.With().Str("source", site.Name()).Logger(),
		popularPageLimit: orDefault(opts.PopularPageLimit, DefaultPopularPageLimit),
		latestPageLimit:  orDefault(opts.LatestPageLimit, DefaultLatestPageLimit),
		chapterPageLimit: orDefault(opts.ChapterPageLimit, DefaultChapterPageLimit),
	}, nil
}

func (m *MangasProject) String() string {
	return m.site.Name()
}

func (m *MangasProject) Site() Site {
	return m.site
}

func (m *MangasProject) BaseURL() string {
	return m.baseURL
}

// ImageHeader is sent when downloading page images. Images are served from
// another host that rejects the site referer.
func (m *MangasProject) ImageHeader() http.Header {
	return http.Header{
		"Accept":     []string{acceptImage},
		"User-Agent": []string{m.collector.UserAgent},
	}
}

// HTTPClient shares the transport chain and cookies of the engine.
func (m *MangasProject) HTTPClient() *http.Client {
	return m.client.HTTP()
}

func (m *MangasProject) operation(name string) zerolog.Logger {
	return m.log.With().Str("op", name).Str("id", uuid.NewString()).Logger()
}

func (m *MangasProject) apiHeader(referer string) http.Header {
	return http.Header{
		"Accept":           []string{acceptJSON},
		"X-Requested-With": []string{"XMLHttpRequest"},
		"Referer":          []string{referer},
	}
}

func (m *MangasProject) endpoint(p string, query url.Values) string {
	u := m.baseURL + p
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// absolute resolves a site relative url against the base url.
func (m *MangasProject) absolute(u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return m.baseURL + u
}

// relative strips the base url, leaving the identity of a series or chapter.
func (m *MangasProject) relative(u string) string {
	if rel, ok := strings.CutPrefix(u, m.baseURL); ok {
		return rel
	}

	parsed, err := url.Parse(u)
	if err != nil || !parsed.IsAbs() {
		return u
	}

	rel := parsed.EscapedPath()
	if parsed.RawQuery != "" {
		rel += "?" + parsed.RawQuery
	}
	return rel
}

// fetchJSON reports a backend error message before the status code, since
// the backend sends its error envelope with non 200 codes too.
func fetchJSON[T any](ctx context.Context, m *MangasProject, req sharedhttp.Request) (T, error) {
	var zero T

	resp, err := m.client.Do(ctx, req)
	if err != nil {
		return zero, err
	}

	v, decodeErr := decode.Decode[T](resp.Body)

	var remote *domain.RemoteError
	if errors.As(decodeErr, &remote) {
		return zero, decodeErr
	}

	if err := sharedhttp.CheckStatusCode(resp.StatusCode); err != nil {
		return zero, errors.Wrapf(err, "%s %s", req.Method, req.URL)
	}

	if decodeErr != nil {
		return zero, errors.Wrapf(decodeErr, "%s %s", req.Method, req.URL)
	}

	return v, nil
}

// visit fetches an HTML page through the collector. Callbacks registered by
// setup run before the response callback that records the result.
func (m *MangasProject) visit(ctx context.Context, u string, header http.Header, setup func(c *colly.Collector)) (*colly.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := m.collector.Clone()

	c.OnRequest(func(r *colly.Request) {
		for key := range header {
			r.Headers.Set(key, header.Get(key))
		}
	})

	var resp *colly.Response
	c.OnResponse(func(r *colly.Response) {
		resp = r
	})

	if setup != nil {
		setup(c)
	}

	if err := c.Visit(u); err != nil {
		return nil, errors.Wrapf(err, "could not visit %s", u)
	}

	if resp == nil {
		return nil, errors.Errorf("no response for %s", u)
	}

	return resp, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
