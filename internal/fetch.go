package internal

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rm-hull/reeded-glass/internal/png"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// SourceClient retrieves remote source images.
type SourceClient interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

type SourceFetcher struct {
	userAgent string
	client    HTTPClient
}

func NewSourceClient(userAgent string) SourceClient {
	return &SourceFetcher{
		userAgent: userAgent,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (f *SourceFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	log.Printf("Retrieving: %s", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "image/*")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from %s: %w", url, err)
	}

	if res.StatusCode > 299 {
		_ = res.Body.Close()
		return nil, fmt.Errorf("http status response from %s: %s", url, res.Status)
	}

	return res.Body, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// OpenSource decodes the image at location, which is either a local path or
// an http(s) URL fetched with client.
func OpenSource(ctx context.Context, client SourceClient, location string) (*png.Image, error) {
	var r io.ReadCloser
	if isRemote(location) {
		body, err := client.Fetch(ctx, location)
		if err != nil {
			return nil, err
		}
		r = body
	} else {
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", location, err)
		}
		r = f
	}
	defer func() {
		_ = r.Close()
	}()

	img, err := png.NewImageFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}
	return img, nil
}
