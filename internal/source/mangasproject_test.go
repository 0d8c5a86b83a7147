package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"leitor/internal/domain"
	"leitor/internal/preference"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSite struct {
	licensed bool
	captive  bool
}

func (testSite) ID() string { return "test" }
func (testSite) Name() string { return "Test" }
func (testSite) BaseURL() string { return "https://example.invalid" }
func (testSite) Lang() string { return "pt-BR" }
func (s testSite) LicensedCheck() bool { return s.licensed }
func (s testSite) CaptiveHTML() bool { return s.captive }

// backend fakes the MangasProject endpoints and counts requests per path.
type backend struct {
	t   *testing.T
	mux *http.ServeMux
	srv *httptest.Server

	mu   sync.Mutex
	hits map[string]int
}

func newBackend(t *testing.T) *backend {
	t.Helper()

	b := &backend{t: t, mux: http.NewServeMux(), hits: map[string]int{}}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.hits[r.URL.Path]++
		b.mu.Unlock()
		b.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.srv.Close)

	return b
}

func (b *backend) count(p string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[p]
}

func (b *backend) json(p string, fn func(r *http.Request) any) {
	b.mux.HandleFunc(p, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch v := fn(r).(type) {
		case string:
			_, _ = w.Write([]byte(v))
		default:
			require.NoError(b.t, json.NewEncoder(w).Encode(v))
		}
	})
}

func (b *backend) html(p string, body string) {
	b.mux.HandleFunc(p, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=UTF-8")
		_, _ = w.Write([]byte(body))
	})
}

func newTestSource(t *testing.T, b *backend, site Site, prefs FormatReader) *MangasProject {
	t.Helper()

	m, err := NewMangasProject(site, Options{
		BaseURL:     b.srv.URL,
		UserAgent:   "leitor-test",
		Preferences: prefs,
	})
	require.NoError(t, err)

	return m
}

func chapterRows(from, n, releases int) []map[string]any {
	rows := make([]map[string]any, 0, n)
	for i := from; i < from+n; i++ {
		rel := map[string]any{}
		for r := 0; r < releases; r++ {
			rel[fmt.Sprintf("scan_%d", r)] = map[string]any{
				"link":       fmt.Sprintf("/ler/serie/online/%d%d/capitulo-%d", i, r, i),
				"scanlators": []map[string]string{{"name": fmt.Sprintf("Team %d", r)}},
			}
		}
		rows = append(rows, map[string]any{
			"date_created": "2023-05-04T10:00:00",
			"chapter_name": "",
			"number":       strconv.Itoa(i),
			"releases":     rel,
		})
	}
	return rows
}

func TestPopularSeries(t *testing.T) {
	b := newBackend(t)
	b.json("/home/most_read", func(r *http.Request) any {
		assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		assert.Equal(t, acceptJSON, r.Header.Get("Accept"))
		assert.Equal(t, "leitor-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "", r.URL.Query().Get("type"))
		assert.True(t, r.URL.Query().Has("type"))
		return `{"most_read": [{"serie_name": "One Piece", "cover": "/c.jpg", "link": "/manga/one-piece/13"}]}`
	})

	m := newTestSource(t, b, testSite{}, nil)

	tests := []struct {
		page int
		next bool
	}{
		{page: 1, next: true},
		{page: 9, next: true},
		{page: 10, next: false},
		{page: 11, next: false},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.page), func(t *testing.T) {
			result, err := m.PopularSeries(context.Background(), tt.page)
			require.NoError(t, err)

			require.Len(t, result.Series, 1)
			assert.Equal(t, "One Piece", result.Series[0].Title)
			assert.Equal(t, "/c.jpg", result.Series[0].ThumbnailURL)
			assert.Equal(t, "/manga/one-piece/13", result.Series[0].URL)
			assert.Equal(t, tt.next, result.HasNextPage)
		})
	}
}

func TestLatestSeries(t *testing.T) {
	b := newBackend(t)
	b.json("/home/releases", func(r *http.Request) any {
		return `{"releases": [{"name": "Berserk", "image": "/b.jpg", "link": "/manga/berserk/7"}]}`
	})

	m := newTestSource(t, b, testSite{}, nil)

	result, err := m.LatestSeries(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, result.Series, 1)
	assert.Equal(t, "Berserk", result.Series[0].Title)
	assert.True(t, result.HasNextPage)

	result, err = m.LatestSeries(context.Background(), 5)
	require.NoError(t, err)
	assert.False(t, result.HasNextPage)
}

func TestCatalog_RemoteError(t *testing.T) {
	b := newBackend(t)
	b.json("/home/most_read", func(r *http.Request) any {
		return `{"message": "x"}`
	})

	m := newTestSource(t, b, testSite{}, nil)

	_, err := m.PopularSeries(context.Background(), 1)

	var remote *domain.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "x", remote.Message)
}

func TestSearchSeries(t *testing.T) {
	b := newBackend(t)
	b.json("/lib/search/series.json", func(r *http.Request) any {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())

		if r.PostForm.Get("search") == "nada" {
			return `{"series": false}`
		}
		return `{"series": [{"name": "Vagabond", "cover": "/v.jpg", "link": "/manga/vagabond/9"}]}`
	})

	m := newTestSource(t, b, testSite{}, nil)

	result, err := m.SearchSeries(context.Background(), "vagabond")
	require.NoError(t, err)
	require.Len(t, result.Series, 1)
	assert.Equal(t, "/manga/vagabond/9", result.Series[0].URL)
	assert.False(t, result.HasNextPage)

	result, err = m.SearchSeries(context.Background(), "nada")
	require.NoError(t, err)
	assert.Empty(t, result.Series)
	assert.False(t, result.HasNextPage)
}

const detailPage = `<html><head><meta property="og:title" content="Example | Site"></head><body>
<div id="series-data">
  <div class="series-img"><div class="cover"><img src="https://cdn.example/cover.jpg"></div></div>
  <span class="series-title"><h1>Example</h1></span>
  <span class="series-author"><i class="complete-series"></i>Completo Oda, Eiichiro &amp; Ikeda, Ei (Arte) + 2</span>
  <span class="series-desc"><span>A pirate story.</span></span>
  <ul class="tags"><li>Ação</li><li>Aventura</li><li> </li></ul>
</div>
%s
</body></html>`

func TestSearchSeries_DirectLookup(t *testing.T) {
	b := newBackend(t)
	b.html("/manga/42", fmt.Sprintf(detailPage, ""))
	b.json("/lib/search/series.json", func(r *http.Request) any {
		t.Error("text search must not be called for direct lookups")
		return `{"series": false}`
	})

	m := newTestSource(t, b, testSite{}, nil)

	result, err := m.SearchSeries(context.Background(), "id:example/42")
	require.NoError(t, err)

	require.Len(t, result.Series, 1)
	assert.Equal(t, "/manga/42", result.Series[0].URL)
	assert.Equal(t, "Example", result.Series[0].Title)
	assert.False(t, result.HasNextPage)
	assert.Equal(t, 1, b.count("/manga/42"))
	assert.Equal(t, 0, b.count("/lib/search/series.json"))
}

func TestSearchSeries_IDPrefixWithoutMatchIsTextSearch(t *testing.T) {
	b := newBackend(t)
	b.json("/lib/search/series.json", func(r *http.Request) any {
		return `{"series": false}`
	})

	m := newTestSource(t, b, testSite{}, nil)

	_, err := m.SearchSeries(context.Background(), "id:example/abc")
	require.NoError(t, err)
	assert.Equal(t, 1, b.count("/lib/search/series.json"))
}

func TestSeriesDetails(t *testing.T) {
	tests := []struct {
		name    string
		site    testSite
		blocked bool
		want    domain.Status
	}{
		{name: "completed", site: testSite{}, want: domain.StatusCompleted},
		{name: "blocked without check", site: testSite{}, blocked: true, want: domain.StatusCompleted},
		{name: "blocked with check", site: testSite{licensed: true}, blocked: true, want: domain.StatusLicensed},
		{name: "captive html", site: testSite{captive: true}, want: domain.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extra := ""
			if tt.blocked {
				extra = `<div class="series-blocked-img"><img src="/img/blocked.svg"></div>`
			}

			b := newBackend(t)
			b.html("/manga/example/42", fmt.Sprintf(detailPage, extra))

			m := newTestSource(t, b, tt.site, nil)

			series, err := m.SeriesDetails(context.Background(), domain.Series{URL: "/manga/example/42"})
			require.NoError(t, err)

			assert.Equal(t, "Example", series.Title)
			assert.Equal(t, "/manga/example/42", series.URL)
			assert.Equal(t, "https://cdn.example/cover.jpg", series.ThumbnailURL)
			assert.Equal(t, "A pirate story.", series.Description)
			assert.Equal(t, "Eiichiro Oda", series.Author)
			assert.Equal(t, "Ei Ikeda", series.Artist)
			assert.Equal(t, []string{"Ação", "Aventura"}, series.Genres)
			assert.Equal(t, tt.want, series.Status)
		})
	}
}

func TestParseAuthors(t *testing.T) {
	tests := []struct {
		text   string
		author string
		artist string
	}{
		{text: "Completo Oda, Eiichiro", author: "Eiichiro Oda", artist: "Eiichiro Oda"},
		{text: "Miura, Kentarou & Mori, Kouji (Arte) + 1", author: "Kentarou Miura", artist: "Kouji Mori"},
		{text: "Inoue, Takehiko (Arte)", author: "", artist: "Takehiko Inoue"},
		{text: "", author: "", artist: ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			author, artist := parseAuthors(tt.text)
			assert.Equal(t, tt.author, author)
			assert.Equal(t, tt.artist, artist)
		})
	}
}

func TestChapters_SinglePage(t *testing.T) {
	b := newBackend(t)
	b.json("/series/chapters_list.json", func(r *http.Request) any {
		assert.Equal(t, "42", r.URL.Query().Get("id_serie"))
		assert.Equal(t, b.srv.URL+"/manga/example/42", r.Header.Get("Referer"))
		return map[string]any{"chapters": chapterRows(1, 14, 2)}
	})

	m := newTestSource(t, b, testSite{}, nil)

	chapters, err := m.Chapters(context.Background(), domain.Series{URL: "/manga/example/42"})
	require.NoError(t, err)

	assert.Len(t, chapters, 28)
	assert.Equal(t, 1, b.count("/series/chapters_list.json"))
}

func TestChapters_Paginates(t *testing.T) {
	b := newBackend(t)
	b.json("/series/chapters_list.json", func(r *http.Request) any {
		switch r.URL.Query().Get("page") {
		case "1":
			return map[string]any{"chapters": chapterRows(100, 30, 1)}
		case "2":
			return map[string]any{"chapters": chapterRows(70, 30, 1)}
		case "3":
			return map[string]any{"chapters": chapterRows(60, 10, 1)}
		default:
			return `{"chapters": false}`
		}
	})

	m := newTestSource(t, b, testSite{}, nil)

	chapters, err := m.Chapters(context.Background(), domain.Series{URL: "/manga/example/42"})
	require.NoError(t, err)

	assert.Len(t, chapters, 70)
	assert.Equal(t, 4, b.count("/series/chapters_list.json"))
	assert.Equal(t, float64(100), chapters[0].Number)
	assert.Equal(t, float64(69), chapters[69].Number)
}

func TestChapters_PageLimit(t *testing.T) {
	b := newBackend(t)
	b.json("/series/chapters_list.json", func(r *http.Request) any {
		return map[string]any{"chapters": chapterRows(1, 30, 1)}
	})

	m, err := NewMangasProject(testSite{}, Options{BaseURL: b.srv.URL, ChapterPageLimit: 5})
	require.NoError(t, err)

	chapters, err := m.Chapters(context.Background(), domain.Series{URL: "/manga/example/42"})
	require.NoError(t, err)

	assert.Len(t, chapters, 150)
	assert.Equal(t, 5, b.count("/series/chapters_list.json"))
}

func TestChapters_FalseSentinel(t *testing.T) {
	b := newBackend(t)
	b.json("/series/chapters_list.json", func(r *http.Request) any {
		return `{"chapters": false}`
	})

	m := newTestSource(t, b, testSite{}, nil)

	chapters, err := m.Chapters(context.Background(), domain.Series{URL: "/manga/example/42"})
	require.NoError(t, err)
	assert.NotNil(t, chapters)
	assert.Empty(t, chapters)
}

func TestChapters_RemoteError(t *testing.T) {
	b := newBackend(t)
	b.json("/series/chapters_list.json", func(r *http.Request) any {
		return `{"message": "manutenção"}`
	})

	m := newTestSource(t, b, testSite{}, nil)

	_, err := m.Chapters(context.Background(), domain.Series{URL: "/manga/example/42"})

	var remote *domain.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "manutenção", remote.Message)
}

func TestChapters_Licensed(t *testing.T) {
	b := newBackend(t)
	b.json("/series/chapters_list.json", func(r *http.Request) any {
		return `{"chapters": false}`
	})

	m := newTestSource(t, b, testSite{licensed: true}, nil)

	_, err := m.Chapters(context.Background(), domain.Series{URL: "/manga/example/42", Status: domain.StatusLicensed})
	require.ErrorIs(t, err, domain.ErrMangaRemoved)
	assert.Equal(t, 0, b.count("/series/chapters_list.json"))
}

func TestExpandReleases(t *testing.T) {
	var c chapterDto
	require.NoError(t, json.Unmarshal([]byte(`{
		"date_created": "2021-03-02T12:00:00",
		"chapter_name": "Romance Dawn",
		"number": "1",
		"releases": {
			"scan_2": {"link": "/ler/b", "scanlators": [{"name": "Zeta"}, {"name": ""}, {"name": "Alpha"}, {"name": "Zeta"}]},
			"scan_1": {"link": "/ler/a", "scanlators": []}
		}
	}`), &c))

	chapters := expandReleases(c)
	require.Len(t, chapters, 2)

	assert.Equal(t, "Cap. 1 - Romance Dawn", chapters[0].Name)
	assert.Equal(t, float64(1), chapters[0].Number)
	assert.Equal(t, int64(1614643200000), chapters[0].UploadedAt)
	assert.Equal(t, "Alpha, Zeta", chapters[0].Scanlator)
	assert.Equal(t, "/ler/b", chapters[0].URL)

	assert.Equal(t, "", chapters[1].Scanlator)
	assert.Equal(t, "/ler/a", chapters[1].URL)
}

func TestExpandReleases_Unparsable(t *testing.T) {
	chapters := expandReleases(chapterDto{
		DateCreated: "ontem",
		Number:      "extra",
		Releases:    nil,
	})
	assert.Empty(t, chapters)

	var c chapterDto
	require.NoError(t, json.Unmarshal([]byte(`{"date_created": "ontem", "chapter_name": "", "number": "extra", "releases": {"s": {"link": "/ler/x"}}}`), &c))

	chapters = expandReleases(c)
	require.Len(t, chapters, 1)
	assert.Equal(t, "Cap. extra", chapters[0].Name)
	assert.Equal(t, float64(-1), chapters[0].Number)
	assert.Equal(t, int64(0), chapters[0].UploadedAt)
}

const readerPage = `<html><body><script>window.READER_TOKEN = 'tok3n';</script></body></html>`

func readerBackend(t *testing.T) *backend {
	b := newBackend(t)
	b.html("/ler/example/online/12345/capitulo-1", readerPage)
	b.json("/leitor/pages/12345.json", func(r *http.Request) any {
		assert.Equal(t, "tok3n", r.URL.Query().Get("key"))
		assert.Equal(t, b.srv.URL+"/ler/example/online/12345/capitulo-1", r.Header.Get("Referer"))
		return `{"images": [
			{"avif": "https://img/1.avif", "legacy": "https://legacy/1.webp"},
			{"avif": "https://img/2.avif", "legacy": "https://legacy/2.webp"},
			{"avif": "https://img/3.avif", "legacy": "https://legacy/3.webp"}
		]}`
	})
	return b
}

func TestPages(t *testing.T) {
	b := readerBackend(t)
	prefs := preference.NewMemory(preference.Namespace("test"))

	m := newTestSource(t, b, testSite{}, prefs)
	chapter := domain.Chapter{URL: "/ler/example/online/12345/capitulo-1"}

	avif, err := m.Pages(context.Background(), chapter)
	require.NoError(t, err)
	require.Len(t, avif, 3)

	for i, p := range avif {
		assert.Equal(t, i, p.Index)
		assert.Equal(t, fmt.Sprintf("https://img/%d.avif", i+1), p.ImageURL)
		assert.Equal(t, b.srv.URL+"/ler/example/online/12345/capitulo-1", p.ContextURL)
	}

	require.NoError(t, prefs.SetFormat(domain.FormatWebp))

	webp, err := m.Pages(context.Background(), chapter)
	require.NoError(t, err)
	require.Len(t, webp, 3)

	for i, p := range webp {
		assert.Equal(t, fmt.Sprintf("https://legacy/%d.webp", i+1), p.ImageURL)
	}

	// the earlier list is untouched
	assert.Equal(t, "https://img/1.avif", avif[0].ImageURL)
}

func TestPages_CaptiveHTML(t *testing.T) {
	b := readerBackend(t)

	m := newTestSource(t, b, testSite{captive: true}, nil)

	pages, err := m.Pages(context.Background(), domain.Chapter{URL: "/ler/example/online/12345/capitulo-1"})
	require.NoError(t, err)
	assert.Len(t, pages, 3)
}

func TestPages_TokenNotFound(t *testing.T) {
	b := newBackend(t)
	b.html("/ler/example/online/12345/capitulo-1", `<html><body>nothing here</body></html>`)
	b.json("/leitor/pages/12345.json", func(r *http.Request) any {
		return `{"images": []}`
	})

	m := newTestSource(t, b, testSite{}, nil)

	_, err := m.Pages(context.Background(), domain.Chapter{URL: "/ler/example/online/12345/capitulo-1"})
	require.ErrorIs(t, err, domain.ErrTokenNotFound)
	assert.Equal(t, 0, b.count("/leitor/pages/12345.json"))
}

func TestPages_ChapterURLRewrite(t *testing.T) {
	b := newBackend(t)
	b.html("/ler/example/online/777/capitulo-3", readerPage)
	b.json("/leitor/pages/777.json", func(r *http.Request) any {
		assert.Equal(t, b.srv.URL+"/manga/example/777/capitulo-3", r.Header.Get("Referer"))
		return `{"images": [{"avif": "a", "legacy": "l"}]}`
	})

	m, err := New("leitornet", Options{BaseURL: b.srv.URL})
	require.NoError(t, err)

	pages, err := m.Pages(context.Background(), domain.Chapter{URL: "/ler/example/online/777/capitulo-3"})
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, b.srv.URL+"/manga/example/777/capitulo-3", pages[0].ContextURL)
}

func TestManifestID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{url: "https://leitor.net/ler/one-piece/online/12345/capitulo-1000", want: "12345"},
		{url: "https://leitor.net/manga/one-piece/12345/capitulo-1000#/!page0", want: "12345"},
		{url: "https://leitor.net/manga/one-piece/12345/capitulo-1000?x=1", want: "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			id, err := manifestID(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}
