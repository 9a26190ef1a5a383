package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrNoToken indicates the Apify integration is not configured. Callers
// degrade to whatever data is already persisted.
var ErrNoToken = errors.New("apify token not configured")

// Profile is a normalized scraped profile with its recent media.
type Profile struct {
	Username          string
	FullName          string
	ProfilePictureURL string
	Followers         int64
	Following         int64
	PostsCount        int64
	LatestPosts       []MediaItem
	LatestReels       []MediaItem
}

// MediaItem is a normalized post or reel from the scraping provider.
type MediaItem struct {
	ImageURL     string
	ThumbnailURL string
	Caption      string
	Likes        int64
	Comments     int64
	Views        int64
	IsVideo      bool
	Tags         []string
}

// Client talks to the scraping provider.
type Client interface {
	// FetchProfile retrieves profile data with recent posts and reels.
	FetchProfile(ctx context.Context, username string) (*Profile, error)
	// FetchPosts retrieves recent posts (and video items) separately.
	FetchPosts(ctx context.Context, username string, limit int) ([]MediaItem, error)
}

const (
	profileActor = "apify~instagram-profile-scraper"
	postActor    = "apify~instagram-post-scraper"
)

type apifyClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewApifyClient creates a client for the Apify actor API. baseURL is
// normally https://api.apify.com and overridable for tests.
func NewApifyClient(baseURL, token string, timeout time.Duration) Client {
	return &apifyClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		token:      token,
	}
}

func (c *apifyClient) FetchProfile(ctx context.Context, username string) (*Profile, error) {
	input := map[string]interface{}{
		"usernames":    []string{username},
		"resultsLimit": 50,
		"scrapeReels":  true,
	}
	items, err := c.runActor(ctx, profileActor, input)
	if err != nil {
		return nil, err
	}
	profile := normalizeProfile(items, username)
	if profile == nil {
		return nil, fmt.Errorf("no profile data returned for %q", username)
	}
	return profile, nil
}

func (c *apifyClient) FetchPosts(ctx context.Context, username string, limit int) ([]MediaItem, error) {
	if limit <= 0 {
		limit = 20
	}
	input := map[string]interface{}{
		"directUrls":   []string{fmt.Sprintf("https://www.instagram.com/%s/", username)},
		"resultsLimit": limit,
	}
	items, err := c.runActor(ctx, postActor, input)
	if err != nil {
		return nil, err
	}
	media := make([]MediaItem, 0, len(items))
	for _, item := range items {
		media = append(media, normalizeMediaItem(item))
	}
	return media, nil
}

// runActor starts an actor synchronously and returns its dataset items.
func (c *apifyClient) runActor(ctx context.Context, actorID string, input map[string]interface{}) ([]map[string]interface{}, error) {
	if c.token == "" {
		return nil, ErrNoToken
	}

	body, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s",
		c.baseURL, actorID, url.QueryEscape(c.token))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call actor %s: %w", actorID, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read actor response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("actor %s returned status %d", actorID, resp.StatusCode)
	}

	var items []map[string]interface{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode actor response: %w", err)
	}
	return items, nil
}
