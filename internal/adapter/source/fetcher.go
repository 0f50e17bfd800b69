// Package source fetches the sentiment and boundary payloads from a local
// file or an HTTP(S) URL.
package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/sentiment-map/internal/domain"
)

// maxBodyBytes caps a payload; the full department GeoJSON is about 30 MB.
const maxBodyBytes = 128 << 20

// New returns an HTTPFetcher for http:// and https:// locations and a
// FileFetcher otherwise.
func New(location string, timeout time.Duration, logger *slog.Logger) domain.Fetcher {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPFetcher(location, timeout, logger)
	}
	return &FileFetcher{path: location}
}

// FileFetcher reads a payload from disk.
type FileFetcher struct {
	path string
}

// NewFileFetcher creates a fetcher for a local path.
func NewFileFetcher(path string) *FileFetcher {
	return &FileFetcher{path: path}
}

func (f *FileFetcher) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return data, nil
}

func (f *FileFetcher) Location() string { return f.path }

// HTTPFetcher GETs a payload over HTTP.
type HTTPFetcher struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPFetcher creates a fetcher for url with a per-request timeout.
func NewHTTPFetcher(url string, timeout time.Duration, logger *slog.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/geo+json")

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", f.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch %s: status %d %s: %s", f.url, resp.StatusCode, http.StatusText(resp.StatusCode), body)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body from %s: %w", f.url, err)
	}
	if len(data) > maxBodyBytes {
		return nil, fmt.Errorf("fetch %s: body exceeds %d bytes", f.url, maxBodyBytes)
	}

	f.logger.Debug("source fetched", "url", f.url, "bytes", len(data), "duration", time.Since(start))
	return data, nil
}

func (f *HTTPFetcher) Location() string { return f.url }
