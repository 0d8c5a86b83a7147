package sharedhttp

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/pkg/errors"
)

// HeaderTransport sets fixed headers on every request that does not carry
// them already.
type HeaderTransport struct {
	Header http.Header
	Next   http.RoundTripper
}

func (t *HeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	for key, values := range t.Header {
		if req.Header.Get(key) != "" || len(values) == 0 {
			continue
		}
		req.Header.Set(key, values[0])
	}

	return next(t.Next).RoundTrip(req)
}

// Decompress asks for gzip or brotli bodies and hands back the plain body.
type Decompress struct {
	Next http.RoundTripper
}

func (t *Decompress) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Accept-Encoding") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("Accept-Encoding", "gzip, br")
	}

	resp, err := next(t.Next).RoundTrip(req)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, errors.Wrap(err, "could not read gzip body")
		}
		reader = gz
	case "br":
		reader = brotli.NewReader(resp.Body)
	default:
		return resp, nil
	}

	body, err := io.ReadAll(reader)
	resp.Body.Close()
	if err != nil {
		return nil, errors.Wrapf(err, "could not decompress %s body", resp.Header.Get("Content-Encoding"))
	}

	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = int64(len(body))
	resp.Uncompressed = true

	return resp, nil
}

func next(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		return http.DefaultTransport
	}
	return rt
}
