package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetchProfile_NoToken(t *testing.T) {
	client := NewApifyClient("https://api.apify.com", "", time.Second)
	if _, err := client.FetchProfile(context.Background(), "ralph"); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestFetchProfile_NormalizesActorOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "instagram-profile-scraper") {
			t.Errorf("unexpected actor path %q", r.URL.Path)
		}
		if r.URL.Query().Get("token") != "secret" {
			t.Errorf("missing token in query: %q", r.URL.RawQuery)
		}
		var input map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			t.Errorf("decode run input: %v", err)
		}

		items := []map[string]interface{}{
			{
				"username":       "ralph",
				"fullName":       "Ralph Example",
				"profilePicUrl":  "https://cdn.example.com/pfp.jpg",
				"followersCount": float64(15000),
				"followsCount":   float64(420),
				"postsCount":     float64(77),
				"latestPosts": []interface{}{
					map[string]interface{}{
						"displayUrl":    "https://cdn.example.com/p1.jpg",
						"caption":       "sunset",
						"likesCount":    float64(900),
						"commentsCount": float64(31),
					},
					map[string]interface{}{
						"displayUrl": "https://cdn.example.com/p2.jpg",
						"videoUrl":   "https://cdn.example.com/p2.mp4",
						"playCount":  float64(5200),
					},
				},
				"latestReels": []interface{}{
					map[string]interface{}{
						"thumbnail_url": "https://cdn.example.com/r1.jpg",
						"description":   "behind the scenes",
						"viewsCount":    float64(12000),
						"tags":          []interface{}{"travel", "food"},
					},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(items)
	}))
	defer server.Close()

	client := NewApifyClient(server.URL, "secret", 5*time.Second)
	profile, err := client.FetchProfile(context.Background(), "ralph")
	if err != nil {
		t.Fatalf("FetchProfile error: %v", err)
	}

	if profile.FullName != "Ralph Example" || profile.Followers != 15000 {
		t.Errorf("unexpected profile: %+v", profile)
	}
	if len(profile.LatestPosts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(profile.LatestPosts))
	}
	if profile.LatestPosts[0].IsVideo {
		t.Error("image post misdetected as video")
	}
	if !profile.LatestPosts[1].IsVideo {
		t.Error("videoUrl item must be detected as video")
	}
	if len(profile.LatestReels) != 1 {
		t.Fatalf("expected 1 reel, got %d", len(profile.LatestReels))
	}
	reel := profile.LatestReels[0]
	if !reel.IsVideo || reel.ThumbnailURL != "https://cdn.example.com/r1.jpg" || reel.Views != 12000 {
		t.Errorf("unexpected reel: %+v", reel)
	}
	if len(reel.Tags) != 2 || reel.Tags[0] != "travel" {
		t.Errorf("unexpected reel tags: %v", reel.Tags)
	}
}

func TestFetchProfile_PrefersMatchingUsername(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		items := []map[string]interface{}{
			{"username": "someone-else", "followersCount": float64(1)},
			{"username": "RALPH", "followersCount": float64(2)},
		}
		_ = json.NewEncoder(w).Encode(items)
	}))
	defer server.Close()

	client := NewApifyClient(server.URL, "secret", 5*time.Second)
	profile, err := client.FetchProfile(context.Background(), "ralph")
	if err != nil {
		t.Fatalf("FetchProfile error: %v", err)
	}
	if profile.Followers != 2 {
		t.Errorf("expected case-insensitive username match, got %+v", profile)
	}
}

func TestFetchPosts_ActorFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer server.Close()

	client := NewApifyClient(server.URL, "secret", 5*time.Second)
	if _, err := client.FetchPosts(context.Background(), "ralph", 10); err == nil {
		t.Fatal("expected error for non-2xx actor response")
	}
}

func TestNormalizeMediaItem_TypeVideo(t *testing.T) {
	item := map[string]interface{}{
		"display_url": "https://cdn.example.com/x.jpg",
		"type":        "Video",
		"likes":       float64(5),
	}
	media := normalizeMediaItem(item)
	if !media.IsVideo {
		t.Error("type=Video must be detected as video")
	}
	if media.ImageURL != "https://cdn.example.com/x.jpg" || media.Likes != 5 {
		t.Errorf("fallback keys not applied: %+v", media)
	}
}
