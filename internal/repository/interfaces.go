package repository

import "context"

// InfluencerRepository defines data access for profiles and their media.
type InfluencerRepository interface {
	GetInfluencerByUsername(ctx context.Context, username string) (*Influencer, error)
	SaveInfluencer(ctx context.Context, inf *Influencer) error

	ListPosts(ctx context.Context, influencerID uint, limit int) ([]Post, error)
	ListReels(ctx context.Context, influencerID uint, limit int) ([]Reel, error)
	GetPost(ctx context.Context, id uint) (*Post, error)
	GetReel(ctx context.Context, id uint) (*Reel, error)
	CreatePosts(ctx context.Context, posts []Post) error
	CreateReels(ctx context.Context, reels []Reel) error

	// ReplaceMedia deletes all posts and reels of an influencer and inserts
	// the given ones in a single transaction.
	ReplaceMedia(ctx context.Context, influencerID uint, posts []Post, reels []Reel) error
	DeleteReels(ctx context.Context, influencerID uint) (int64, error)

	// UpdatePostAnalysis persists a complete analysis label set on a post.
	UpdatePostAnalysis(ctx context.Context, id uint, keywords []string, vibe, quality string) error
	// UpdateReelAnalysis persists a complete analysis label set on a reel.
	UpdateReelAnalysis(ctx context.Context, id uint, tags []string, vibe, quality string) error
}
