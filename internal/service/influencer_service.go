package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	apperrors "influencer-insights-go/internal/errors"
	"influencer-insights-go/internal/logger"
	"influencer-insights-go/internal/repository"
	"influencer-insights-go/internal/scraper"
	"influencer-insights-go/pkg/models"
)

const (
	profilePostLimit = 10
	profileReelLimit = 5
)

// InfluencerService manages profiles and their media records.
type InfluencerService interface {
	// GetInfluencer returns the profile with recent posts and reels,
	// creating it from the scraping provider (or a bare record) on first
	// access, and refreshing the aggregate engagement figures.
	GetInfluencer(ctx context.Context, username string) (*models.InfluencerResponse, error)
	// Refresh re-scrapes the profile and replaces its stored media.
	Refresh(ctx context.Context, username string) (*models.RefreshResponse, error)
	// Seed inserts placeholder posts and reels where none exist.
	Seed(ctx context.Context, username string) error
	// ClearReels removes all reels of the influencer (admin utility).
	ClearReels(ctx context.Context, username string) (int64, error)
}

type influencerService struct {
	repo    repository.InfluencerRepository
	scraper scraper.Client
}

func NewInfluencerService(repo repository.InfluencerRepository, scraperClient scraper.Client) InfluencerService {
	return &influencerService{repo: repo, scraper: scraperClient}
}

func (s *influencerService) GetInfluencer(ctx context.Context, username string) (*models.InfluencerResponse, error) {
	inf, err := s.ensureInfluencer(ctx, username)
	if err != nil {
		return nil, err
	}

	posts, err := s.repo.ListPosts(ctx, inf.ID, profilePostLimit)
	if err != nil {
		return nil, apperrors.NewInternalError("list posts", err)
	}
	reels, err := s.repo.ListReels(ctx, inf.ID, profileReelLimit)
	if err != nil {
		return nil, apperrors.NewInternalError("list reels", err)
	}

	if len(posts) > 0 {
		var likes, comments int64
		for _, p := range posts {
			likes += p.Likes
			comments += p.Comments
		}
		inf.AvgLikes = float64(likes) / float64(len(posts))
		inf.AvgComments = float64(comments) / float64(len(posts))
		if inf.Followers > 0 {
			inf.EngagementRate = (inf.AvgLikes + inf.AvgComments) / float64(inf.Followers) * 100.0
		}
		if err := s.repo.SaveInfluencer(ctx, inf); err != nil {
			return nil, apperrors.NewInternalError("save engagement figures", err)
		}
	}

	return buildInfluencerResponse(inf, posts, reels), nil
}

// ensureInfluencer loads the profile, creating it on first access. A failed
// or unconfigured scrape degrades to a bare record rather than an error, as
// the dashboard can still seed and display it.
func (s *influencerService) ensureInfluencer(ctx context.Context, username string) (*repository.Influencer, error) {
	inf, err := s.repo.GetInfluencerByUsername(ctx, username)
	if err == nil {
		return inf, nil
	}
	if !errors.Is(err, repository.ErrInfluencerNotFound) {
		return nil, apperrors.NewInternalError("load influencer", err)
	}

	inf = &repository.Influencer{Name: username, Username: username}
	profile, scrapeErr := s.scraper.FetchProfile(ctx, username)
	if scrapeErr != nil {
		if !errors.Is(scrapeErr, scraper.ErrNoToken) {
			logger.WithError(scrapeErr).WithField("username", username).
				Warn("Profile scrape failed, creating bare record")
		}
	} else {
		inf.Name = profile.FullName
		inf.ProfilePictureURL = profile.ProfilePictureURL
		inf.Followers = profile.Followers
		inf.Following = profile.Following
		inf.PostsCount = profile.PostsCount
	}

	if err := s.repo.SaveInfluencer(ctx, inf); err != nil {
		return nil, apperrors.NewInternalError("create influencer", err)
	}
	return inf, nil
}

func (s *influencerService) Refresh(ctx context.Context, username string) (*models.RefreshResponse, error) {
	profile, err := s.scraper.FetchProfile(ctx, username)
	if err != nil {
		if errors.Is(err, scraper.ErrNoToken) {
			return nil, apperrors.NewValidationError("scraping provider not configured", err)
		}
		return nil, apperrors.NewNetworkError("fetch profile from provider", err)
	}

	inf, err := s.repo.GetInfluencerByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repository.ErrInfluencerNotFound) {
			return nil, apperrors.NewInternalError("load influencer", err)
		}
		inf = &repository.Influencer{Username: username}
	}
	inf.Name = profile.FullName
	inf.ProfilePictureURL = profile.ProfilePictureURL
	inf.Followers = profile.Followers
	inf.Following = profile.Following
	inf.PostsCount = profile.PostsCount
	if err := s.repo.SaveInfluencer(ctx, inf); err != nil {
		return nil, apperrors.NewInternalError("save influencer", err)
	}

	items := append([]scraper.MediaItem{}, profile.LatestPosts...)
	if extra, err := s.scraper.FetchPosts(ctx, username, 20); err != nil {
		logger.WithError(err).WithField("username", username).Warn("Post scrape failed, keeping profile media only")
	} else {
		items = append(items, extra...)
	}

	var posts []repository.Post
	var reels []repository.Reel
	for _, item := range items {
		if item.IsVideo {
			reels = append(reels, mediaItemToReel(inf.ID, item))
		} else {
			posts = append(posts, mediaItemToPost(inf.ID, item))
		}
	}
	for _, item := range profile.LatestReels {
		reels = append(reels, mediaItemToReel(inf.ID, item))
	}

	if err := s.repo.ReplaceMedia(ctx, inf.ID, posts, reels); err != nil {
		return nil, apperrors.NewInternalError("replace media", err)
	}

	logger.WithFields(logrus.Fields{
		"username": username,
		"posts":    len(posts),
		"reels":    len(reels),
	}).Info("Refreshed influencer from scraping provider")

	return &models.RefreshResponse{
		Username:   username,
		PostsAdded: len(posts),
		ReelsAdded: len(reels),
		Followers:  inf.Followers,
		Following:  inf.Following,
		PostsCount: inf.PostsCount,
	}, nil
}

// Seed placeholder imagery mirrors the demo data set the dashboard expects
// on a fresh database.
var placeholderImages = []string{
	"https://images.unsplash.com/photo-1460353581641-37baddab0fa2?w=800",
	"https://images.unsplash.com/photo-1507525428034-b723cf961d3e?w=800",
	"https://images.unsplash.com/photo-1491553895911-0055eca6402d?w=800",
	"https://images.unsplash.com/photo-1500530855697-b586d89ba3ee?w=800",
	"https://images.unsplash.com/photo-1469474968028-56623f02e42e?w=800",
	"https://images.unsplash.com/photo-1520975922215-c0f03f0b2c70?w=800",
	"https://images.unsplash.com/photo-1487412947147-5cebf100ffc2?w=800",
	"https://images.unsplash.com/photo-1517248135467-4c7edcad34c4?w=800",
	"https://images.unsplash.com/photo-1520975594083-6c0b5eaa7b95?w=800",
	"https://images.unsplash.com/photo-1492562080023-ab3db95bfbce?w=800",
}

func (s *influencerService) Seed(ctx context.Context, username string) error {
	inf, err := s.ensureInfluencer(ctx, username)
	if err != nil {
		return err
	}

	posts, err := s.repo.ListPosts(ctx, inf.ID, 1)
	if err != nil {
		return apperrors.NewInternalError("list posts", err)
	}
	if len(posts) == 0 {
		seeded := make([]repository.Post, 0, len(placeholderImages))
		for i, url := range placeholderImages {
			seeded = append(seeded, repository.Post{
				InfluencerID: inf.ID,
				ImageURL:     url,
				Caption:      fmt.Sprintf("Sample post %d", i+1),
				Likes:        int64(1000 + i*123),
				Comments:     int64(50 + i*7),
			})
		}
		if err := s.repo.CreatePosts(ctx, seeded); err != nil {
			return apperrors.NewInternalError("seed posts", err)
		}
	}

	reels, err := s.repo.ListReels(ctx, inf.ID, 1)
	if err != nil {
		return apperrors.NewInternalError("list reels", err)
	}
	if len(reels) == 0 {
		seeded := make([]repository.Reel, 0, profileReelLimit)
		for i, url := range placeholderImages[:profileReelLimit] {
			seeded = append(seeded, repository.Reel{
				InfluencerID: inf.ID,
				ThumbnailURL: url,
				Caption:      fmt.Sprintf("Sample reel %d", i+1),
				Views:        int64(10000 + i*2500),
				Likes:        int64(800 + i*90),
				Comments:     int64(40 + i*6),
			})
		}
		if err := s.repo.CreateReels(ctx, seeded); err != nil {
			return apperrors.NewInternalError("seed reels", err)
		}
	}
	return nil
}

func (s *influencerService) ClearReels(ctx context.Context, username string) (int64, error) {
	inf, err := s.repo.GetInfluencerByUsername(ctx, username)
	if err != nil {
		return 0, apperrors.NewNotFoundError("influencer not found", err)
	}
	deleted, err := s.repo.DeleteReels(ctx, inf.ID)
	if err != nil {
		return 0, apperrors.NewInternalError("delete reels", err)
	}
	return deleted, nil
}

func mediaItemToPost(influencerID uint, item scraper.MediaItem) repository.Post {
	return repository.Post{
		InfluencerID: influencerID,
		ImageURL:     item.ImageURL,
		Caption:      item.Caption,
		Likes:        item.Likes,
		Comments:     item.Comments,
	}
}

func mediaItemToReel(influencerID uint, item scraper.MediaItem) repository.Reel {
	thumb := item.ThumbnailURL
	if thumb == "" {
		thumb = item.ImageURL
	}
	return repository.Reel{
		InfluencerID: influencerID,
		ThumbnailURL: thumb,
		Caption:      item.Caption,
		Views:        item.Views,
		Likes:        item.Likes,
		Comments:     item.Comments,
		Tags:         repository.JoinKeywords(item.Tags),
	}
}

func buildInfluencerResponse(inf *repository.Influencer, posts []repository.Post, reels []repository.Reel) *models.InfluencerResponse {
	resp := &models.InfluencerResponse{
		ID:                inf.ID,
		Name:              inf.Name,
		Username:          inf.Username,
		ProfilePictureURL: inf.ProfilePictureURL,
		Followers:         inf.Followers,
		Following:         inf.Following,
		PostsCount:        inf.PostsCount,
		AvgLikes:          inf.AvgLikes,
		AvgComments:       inf.AvgComments,
		EngagementRate:    inf.EngagementRate,
		Posts:             make([]models.PostResponse, 0, len(posts)),
		Reels:             make([]models.ReelResponse, 0, len(reels)),
	}
	for _, p := range posts {
		resp.Posts = append(resp.Posts, models.PostResponse{
			ID:       p.ID,
			ImageURL: p.ImageURL,
			Caption:  p.Caption,
			Likes:    p.Likes,
			Comments: p.Comments,
			PostedAt: p.PostedAt,
			Keywords: repository.SplitKeywords(p.Keywords),
			Vibe:     p.Vibe,
			Quality:  p.Quality,
		})
	}
	for _, r := range reels {
		resp.Reels = append(resp.Reels, models.ReelResponse{
			ID:           r.ID,
			ThumbnailURL: r.ThumbnailURL,
			Caption:      r.Caption,
			Views:        r.Views,
			Likes:        r.Likes,
			Comments:     r.Comments,
			PostedAt:     r.PostedAt,
			Tags:         repository.SplitKeywords(r.Tags),
			Vibe:         r.Vibe,
			Quality:      r.Quality,
		})
	}
	return resp
}
