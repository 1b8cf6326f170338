package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrFetch wraps network/HTTP failures reaching a source. Adapters recover
// from it locally by returning an empty result.
var ErrFetch = errors.New("fetch failed")

const maxBodyBytes = 5 << 20

func browserHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
	}
}

// StaticFetcher retrieves a page with a single HTTP GET and parses the body
// into a queryable document tree.
type StaticFetcher struct {
	client *http.Client
}

func NewStaticFetcher() *StaticFetcher {
	return &StaticFetcher{client: &http.Client{Timeout: 15 * time.Second}}
}

// Fetch GETs the URL with browser-like headers. Non-2xx responses and network
// errors come back wrapped in ErrFetch.
func (f *StaticFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	if f == nil || f.client == nil {
		return nil, fmt.Errorf("%w: nil fetcher", ErrFetch)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	for k, v := range browserHeaders() {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d for %s", ErrFetch, resp.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: parse: %v", ErrFetch, err)
	}
	return doc, nil
}
