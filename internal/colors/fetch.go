package colors

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// maxArtworkBytes caps downloaded artwork; Spotify covers are ~640x640 JPEGs.
const maxArtworkBytes = 16 << 20

// Fetcher loads artwork from URLs or local files.
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a Fetcher. A nil client gets a 10 second timeout.
func NewFetcher(httpClient *http.Client) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Fetcher{httpClient: httpClient}
}

// Load reads artwork from an http(s) URL or a local path.
func (f *Fetcher) Load(ctx context.Context, src string) (image.Image, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return f.Fetch(ctx, src)
	}

	file, err := os.Open(src)
	if err != nil {
		return nil, &ImageLoadError{Source: src, Err: err}
	}
	defer file.Close()

	img, err := Decode(file)
	if err != nil {
		err.(*ImageLoadError).Source = src
		return nil, err
	}
	return img, nil
}

// Fetch downloads and decodes artwork. Transport failures, timeouts, non-2xx
// responses and decode failures are all reported as *ImageLoadError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &ImageLoadError{Source: url, Err: err}
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &ImageLoadError{Source: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ImageLoadError{Source: url, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	img, err := Decode(io.LimitReader(resp.Body, maxArtworkBytes))
	if err != nil {
		err.(*ImageLoadError).Source = url
		return nil, err
	}
	return img, nil
}
