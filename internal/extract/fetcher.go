package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"ContentPipeline/internal/ports"
)

const (
	defaultUserAgent = "Mozilla/5.0 (compatible; ContentPipeline/1.0; +https://example.com/bot)"
	fetchTimeout     = 20 * time.Second
)

// FetchError marks a network or HTTP-status failure while fetching a page.
// The candidate is skipped this run and stays eligible for the next one.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.URL, e.Err) }

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher implements ports.PageFetcher with a fixed-timeout HTTP client.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

var _ ports.PageFetcher = (*Fetcher)(nil)

// NewFetcher wires an HTTP client; nil gets a 20-second-timeout default.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	return &Fetcher{client: client, userAgent: defaultUserAgent}
}

// FetchHTML downloads the page body as a string.
func (f *Fetcher) FetchHTML(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{URL: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	return string(body), nil
}
