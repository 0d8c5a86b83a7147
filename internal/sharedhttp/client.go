package sharedhttp

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/pkg/errors"
	"golang.org/x/net/publicsuffix"
)

const DefaultTimeout = 60 * time.Second

type Options struct {
	UserAgent string
	Timeout   time.Duration

	// CloudflareBypass wraps the transport with a browser-like TLS setup.
	CloudflareBypass bool

	// CaptiveHTML serves /manga/ and /ler/ pages through a plain connection.
	CaptiveHTML bool

	// Base replaces the shared Transport, e.g. in tests.
	Base http.RoundTripper
}

type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   io.Reader
}

// Response is a fully read response.
type Response struct {
	StatusCode int
	Header     http.Header
	URL        *url.URL
	Body       []byte
}

// Client issues requests through the shared transport chain. It never
// retries.
type Client struct {
	http      *http.Client
	transport http.RoundTripper
	jar       *cookiejar.Jar
}

func NewClient(opts Options) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, errors.Wrap(err, "could not create cookie jar")
	}

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	base := opts.Base
	if base == nil {
		base = Transport
	}

	var rt http.RoundTripper = base
	if opts.CloudflareBypass {
		if t, ok := base.(*http.Transport); ok {
			rt = cloudflarebp.AddCloudFlareByPass(t.Clone())
		}
	}

	rt = &Decompress{Next: rt}

	header := http.Header{}
	if opts.UserAgent != "" {
		header.Set("User-Agent", opts.UserAgent)
	}
	rt = &HeaderTransport{Header: header, Next: rt}

	if opts.CaptiveHTML {
		rt = &CaptiveHTML{Plain: &Decompress{Next: base}, Next: rt}
	}

	return &Client{
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: rt,
			Jar:       jar,
		},
		transport: rt,
		jar:       jar,
	}, nil
}

// Transport returns the chain so other http clients, like a colly collector,
// can share it.
func (c *Client) Transport() http.RoundTripper {
	return c.transport
}

// HTTP is the underlying client, for callers that stream bodies.
func (c *Client) HTTP() *http.Client {
	return c.http
}

func (c *Client) Jar() *cookiejar.Jar {
	return c.jar
}

func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, r.URL, r.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	for key, values := range r.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, r.URL)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read body of %s", r.URL)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		URL:        resp.Request.URL,
		Body:       body,
	}, nil
}

func (c *Client) Get(ctx context.Context, u string, header http.Header) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, URL: u, Header: header})
}

func (c *Client) PostForm(ctx context.Context, u string, form url.Values, header http.Header) (*Response, error) {
	h := header.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")

	return c.Do(ctx, Request{
		Method: http.MethodPost,
		URL:    u,
		Header: h,
		Body:   strings.NewReader(form.Encode()),
	})
}
