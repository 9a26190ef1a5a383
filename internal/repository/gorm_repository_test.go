package repository

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestRepository(t *testing.T) InfluencerRepository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	return repo
}

func seedInfluencer(t *testing.T, repo InfluencerRepository, username string) *Influencer {
	t.Helper()
	inf := &Influencer{Name: username, Username: username}
	if err := repo.SaveInfluencer(context.Background(), inf); err != nil {
		t.Fatalf("SaveInfluencer error: %v", err)
	}
	return inf
}

func TestInfluencerLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	if _, err := repo.GetInfluencerByUsername(ctx, "nobody"); !errors.Is(err, ErrInfluencerNotFound) {
		t.Fatalf("expected ErrInfluencerNotFound, got %v", err)
	}

	inf := seedInfluencer(t, repo, "ralph")
	if inf.ID == 0 {
		t.Fatal("expected assigned ID after save")
	}

	got, err := repo.GetInfluencerByUsername(ctx, "ralph")
	if err != nil {
		t.Fatalf("GetInfluencerByUsername error: %v", err)
	}
	if got.ID != inf.ID {
		t.Errorf("unexpected influencer: %+v", got)
	}

	got.Followers = 1200
	got.EngagementRate = 4.5
	if err := repo.SaveInfluencer(ctx, got); err != nil {
		t.Fatalf("update error: %v", err)
	}
	updated, _ := repo.GetInfluencerByUsername(ctx, "ralph")
	if updated.Followers != 1200 {
		t.Errorf("expected followers persisted, got %d", updated.Followers)
	}
}

func TestPostAnalysisUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	inf := seedInfluencer(t, repo, "ralph")

	posts := []Post{{InfluencerID: inf.ID, ImageURL: "https://example.com/a.jpg", Likes: 10}}
	if err := repo.CreatePosts(ctx, posts); err != nil {
		t.Fatalf("CreatePosts error: %v", err)
	}

	stored, err := repo.ListPosts(ctx, inf.ID, 10)
	if err != nil || len(stored) != 1 {
		t.Fatalf("ListPosts: %v (%d posts)", err, len(stored))
	}
	if stored[0].Analyzed() {
		t.Error("new post must not be marked analyzed")
	}

	keywords := []string{"warm", "bright"}
	if err := repo.UpdatePostAnalysis(ctx, stored[0].ID, keywords, "energetic", "sharp"); err != nil {
		t.Fatalf("UpdatePostAnalysis error: %v", err)
	}

	post, err := repo.GetPost(ctx, stored[0].ID)
	if err != nil {
		t.Fatalf("GetPost error: %v", err)
	}
	if !post.Analyzed() {
		t.Error("expected post marked analyzed")
	}
	if post.Vibe != "energetic" || post.Quality != "sharp" {
		t.Errorf("unexpected labels: %+v", post)
	}
	if got := SplitKeywords(post.Keywords); !reflect.DeepEqual(got, keywords) {
		t.Errorf("keyword round trip: got %v want %v", got, keywords)
	}

	if err := repo.UpdatePostAnalysis(ctx, 9999, keywords, "calm", "soft"); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("expected ErrPostNotFound for unknown id, got %v", err)
	}
}

func TestReplaceMediaAndDeleteReels(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	inf := seedInfluencer(t, repo, "ralph")

	if err := repo.CreatePosts(ctx, []Post{{InfluencerID: inf.ID, ImageURL: "old"}}); err != nil {
		t.Fatalf("CreatePosts error: %v", err)
	}
	if err := repo.CreateReels(ctx, []Reel{{InfluencerID: inf.ID, ThumbnailURL: "old"}}); err != nil {
		t.Fatalf("CreateReels error: %v", err)
	}

	newPosts := []Post{
		{InfluencerID: inf.ID, ImageURL: "new-1"},
		{InfluencerID: inf.ID, ImageURL: "new-2"},
	}
	newReels := []Reel{{InfluencerID: inf.ID, ThumbnailURL: "new-r"}}
	if err := repo.ReplaceMedia(ctx, inf.ID, newPosts, newReels); err != nil {
		t.Fatalf("ReplaceMedia error: %v", err)
	}

	posts, _ := repo.ListPosts(ctx, inf.ID, 0)
	if len(posts) != 2 || posts[0].ImageURL != "new-1" {
		t.Errorf("expected replaced posts, got %+v", posts)
	}

	deleted, err := repo.DeleteReels(ctx, inf.ID)
	if err != nil {
		t.Fatalf("DeleteReels error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted reel, got %d", deleted)
	}
	reels, _ := repo.ListReels(ctx, inf.ID, 0)
	if len(reels) != 0 {
		t.Errorf("expected no reels, got %+v", reels)
	}
}

func TestSplitKeywords(t *testing.T) {
	if got := SplitKeywords(""); got != nil {
		t.Errorf("expected nil for empty CSV, got %v", got)
	}
	if got := SplitKeywords(",,"); got != nil {
		t.Errorf("expected nil for blank CSV, got %v", got)
	}
	if got := SplitKeywords("warm,busy"); !reflect.DeepEqual(got, []string{"warm", "busy"}) {
		t.Errorf("unexpected split: %v", got)
	}
}
