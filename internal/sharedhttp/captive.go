package sharedhttp

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

var captivePaths = []string{"/manga/", "/ler/"}

// CaptiveHTML serves the detail and reader pages of a site through a plain
// connection. The site blocks its own HTML pages on the regular transport
// while its JSON endpoints keep working there.
type CaptiveHTML struct {
	Plain http.RoundTripper
	Next  http.RoundTripper
}

func (t *CaptiveHTML) RoundTrip(req *http.Request) (*http.Response, error) {
	if !isCaptive(req) {
		return next(t.Next).RoundTrip(req)
	}

	body, err := t.fetchPlain(req)
	if err != nil {
		return nil, err
	}

	return &http.Response{
		Status:        "200 OK",
		StatusCode:    http.StatusOK,
		Proto:         "HTTP/2.0",
		ProtoMajor:    2,
		Header:        http.Header{"Content-Type": []string{"text/html; charset=UTF-8"}},
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}

func (t *CaptiveHTML) fetchPlain(req *http.Request) ([]byte, error) {
	plainReq, err := http.NewRequestWithContext(req.Context(), http.MethodGet, req.URL.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not build plain request")
	}

	if ua := req.Header.Get("User-Agent"); ua != "" {
		plainReq.Header.Set("User-Agent", ua)
	}

	client := http.Client{Transport: next(t.Plain)}

	resp, err := client.Do(plainReq)
	if err != nil {
		return nil, errors.Wrapf(err, "plain fetch of %s", req.URL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("plain fetch of %s: status code %d", req.URL, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func isCaptive(req *http.Request) bool {
	if req.Method != http.MethodGet {
		return false
	}

	for _, p := range captivePaths {
		if strings.Contains(req.URL.Path, p) {
			return true
		}
	}

	return false
}
