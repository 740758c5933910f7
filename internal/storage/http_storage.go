package storage

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/anime-shed/spatialplot-go/internal/imageio"
)

const fetchAttempts = 3

// HTTPImageFetcher implements ImageFetcher over plain HTTP(S)
type HTTPImageFetcher struct {
	client   *http.Client
	maxBytes int64
	backoff  time.Duration
}

// NewHTTPImageFetcher creates an HTTP image fetcher
func NewHTTPImageFetcher(maxBytes int64) *HTTPImageFetcher {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,
	}

	return &HTTPImageFetcher{
		maxBytes: maxBytes,
		backoff:  time.Second,
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,

			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
	}
}

func (h *HTTPImageFetcher) FetchImage(ctx context.Context, imageURL string) (*imageio.Decoded, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	req.Header.Set("Accept", "image/png, image/tiff, image/jpeg, image/gif, */*")
	req.Header.Set("User-Agent", "spatialplot-go/1.0")

	// Retry logic (3 attempts) - only retry on transient errors
	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt < fetchAttempts; attempt++ {
		resp, err = h.client.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
		}

		if err == nil && resp.StatusCode == http.StatusOK {
			break
		}

		if err == nil {
			resp.Body.Close()
			status := resp.StatusCode
			resp = nil

			// 4xx client errors are non-retryable
			if status >= 400 && status < 500 {
				lastErr = fmt.Errorf("client error: status code %d", status)
				if status == http.StatusNotFound {
					lastErr = fmt.Errorf("%w: %v", ErrNotFound, lastErr)
				}
				break
			}
			if status >= 500 {
				lastErr = fmt.Errorf("server error: status code %d", status)
			} else {
				lastErr = fmt.Errorf("unexpected status code %d", status)
			}
		}

		if attempt < fetchAttempts-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt+1) * h.backoff):
			}
		}
	}

	if resp == nil {
		if lastErr == nil {
			lastErr = fmt.Errorf("unknown error")
		}
		return nil, fmt.Errorf("failed to fetch image after %d attempts: %w", fetchAttempts, lastErr)
	}
	defer resp.Body.Close()

	return decodeLimited(resp.Body, h.maxBytes)
}
