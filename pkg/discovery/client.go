package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/feedtree/pkg/buildinfo"
	"github.com/matzehuels/feedtree/pkg/observability"
)

var (
	// ErrNetwork is returned for connection failures and unexpected statuses.
	ErrNetwork = errors.New("network error")

	// ErrNotFound is returned when the server answers 404 or 410.
	ErrNotFound = errors.New("resource not found")

	// ErrTooLarge is returned when a body exceeds Options.MaxBodySize.
	ErrTooLarge = errors.New("response body too large")
)

// DefaultMaxBodySize caps response bodies when Options.MaxBodySize is zero.
const DefaultMaxBodySize = 16 << 20

// Response is a fetched resource.
type Response struct {
	// URL is the final URL after redirects.
	URL         string
	ContentType string
	Body        []byte
}

// Fetcher retrieves a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

// Options configures an [HTTPFetcher].
type Options struct {
	// Timeout bounds each request. Zero means no timeout; callers may
	// still bound requests through their context.
	Timeout time.Duration

	// UserAgent overrides [buildinfo.UserAgent].
	UserAgent string

	// MaxBodySize caps response bodies. Zero means DefaultMaxBodySize.
	MaxBodySize int64
}

// HTTPFetcher fetches resources over HTTP(S).
type HTTPFetcher struct {
	http    *http.Client
	headers map[string]string
	maxBody int64
}

// NewHTTPFetcher creates a fetcher with the given options.
func NewHTTPFetcher(opts Options) *HTTPFetcher {
	ua := opts.UserAgent
	if ua == "" {
		ua = buildinfo.UserAgent()
	}
	maxBody := opts.MaxBodySize
	if maxBody <= 0 {
		maxBody = DefaultMaxBodySize
	}
	return &HTTPFetcher{
		http: &http.Client{Timeout: opts.Timeout},
		headers: map[string]string{
			"User-Agent": ua,
			"Accept":     "application/atom+xml, application/rss+xml, application/rdf+xml, application/xml;q=0.9, text/html;q=0.8, */*;q=0.5",
		},
		maxBody: maxBody,
	}
}

// Fetch performs a GET request and returns the whole body.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := f.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}
	if int64(len(body)) > f.maxBody {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, f.maxBody)
	}

	return &Response{
		URL:         resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound, code == http.StatusGone:
		return fmt.Errorf("%w: status %d", ErrNotFound, code)
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

var _ Fetcher = (*HTTPFetcher)(nil)
