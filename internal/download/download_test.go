package download

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"leitor/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 10, 10))))
	return buf.Bytes()
}

func TestChapter(t *testing.T) {
	img := pngBytes(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Referer"))
		assert.Equal(t, "image/*", r.Header.Get("Accept"))

		switch r.URL.Path {
		case "/1.png", "/2.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(img)
		case "/3.avif":
			w.Header().Set("Content-Type", "image/avif")
			_, _ = w.Write([]byte("avif"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	pages := []domain.PageRef{
		{Index: 0, ImageURL: srv.URL + "/1.png"},
		{Index: 1, ImageURL: srv.URL + "/2.png"},
		{Index: 2, ImageURL: srv.URL + "/3.avif"},
	}

	var done atomic.Int32
	out := filepath.Join(t.TempDir(), "Series", "Cap. 001.cbz")

	err := Chapter(context.Background(), out, pages, Options{
		Header: http.Header{"Accept": []string{"image/*"}},
		OnPage: func() { done.Add(1) },
	})
	require.NoError(t, err)
	assert.Equal(t, int32(3), done.Load())

	r, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"001.png", "002.png", "003.avif"}, names)
}

func TestChapter_Forbidden(t *testing.T) {
	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "Cap. 001.cbz")

	err := Chapter(context.Background(), out, []domain.PageRef{{Index: 0, ImageURL: srv.URL + "/1.png"}}, Options{})
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
	assert.NoFileExists(t, out)
}

func TestChapter_NoPages(t *testing.T) {
	require.Error(t, Chapter(context.Background(), filepath.Join(t.TempDir(), "x.cbz"), nil, Options{}))
}
