package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MediaFetcher retrieves the raw encoded bytes of a post image or reel
// thumbnail. The analysis engine never fetches anything itself; callers hand
// it fully buffered bytes obtained through this interface.
type MediaFetcher interface {
	FetchBytes(ctx context.Context, mediaURL string) ([]byte, error)
}

// HTTPMediaFetcher implements MediaFetcher over plain HTTP(S) with a pooled
// transport and bounded retries.
type HTTPMediaFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewHTTPMediaFetcher creates an HTTP media fetcher. maxBytes caps the
// response body size; responses larger than the cap fail rather than
// truncate.
func NewHTTPMediaFetcher(timeout time.Duration, maxBytes int64) *HTTPMediaFetcher {
	transport := &http.Transport{
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxResponseHeaderBytes: 4096,
	}

	return &HTTPMediaFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		maxBytes: maxBytes,
	}
}

func (h *HTTPMediaFetcher) FetchBytes(ctx context.Context, mediaURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid media URL: %w", err)
	}
	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, image/gif, */*")
	req.Header.Set("User-Agent", "Influencer-Insights/1.0")

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		data, retryable, err := h.fetchOnce(req)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, fmt.Errorf("failed to fetch media after retries: %w", lastErr)
}

// fetchOnce performs a single request. 4xx responses are not retryable;
// transport errors and 5xx responses are.
func (h *HTTPMediaFetcher) fetchOnce(req *http.Request) (data []byte, retryable bool, err error) {
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, false, fmt.Errorf("client error: status code %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, true, fmt.Errorf("server error: status code %d", resp.StatusCode)
	}

	// Read one byte past the cap so oversized bodies are detected.
	body, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBytes+1))
	if err != nil {
		return nil, true, fmt.Errorf("read media body: %w", err)
	}
	if int64(len(body)) > h.maxBytes {
		return nil, false, fmt.Errorf("media exceeds size cap of %d bytes", h.maxBytes)
	}
	if len(body) == 0 {
		return nil, false, fmt.Errorf("empty media body")
	}
	return body, false, nil
}
