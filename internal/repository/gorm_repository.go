package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// gormRepository implements InfluencerRepository on GORM/SQLite.
type gormRepository struct {
	db *gorm.DB
}

// Open opens (or creates) the SQLite database at path and migrates the
// schema.
func Open(path string) (InfluencerRepository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&Influencer{}, &Post{}, &Reel{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &gormRepository{db: db}, nil
}

func (r *gormRepository) GetInfluencerByUsername(ctx context.Context, username string) (*Influencer, error) {
	var inf Influencer
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&inf).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInfluencerNotFound
		}
		return nil, err
	}
	return &inf, nil
}

func (r *gormRepository) SaveInfluencer(ctx context.Context, inf *Influencer) error {
	return r.db.WithContext(ctx).Save(inf).Error
}

func (r *gormRepository) ListPosts(ctx context.Context, influencerID uint, limit int) ([]Post, error) {
	var posts []Post
	q := r.db.WithContext(ctx).Where("influencer_id = ?", influencerID).Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *gormRepository) ListReels(ctx context.Context, influencerID uint, limit int) ([]Reel, error) {
	var reels []Reel
	q := r.db.WithContext(ctx).Where("influencer_id = ?", influencerID).Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&reels).Error; err != nil {
		return nil, err
	}
	return reels, nil
}

func (r *gormRepository) GetPost(ctx context.Context, id uint) (*Post, error) {
	var post Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *gormRepository) GetReel(ctx context.Context, id uint) (*Reel, error) {
	var reel Reel
	if err := r.db.WithContext(ctx).First(&reel, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReelNotFound
		}
		return nil, err
	}
	return &reel, nil
}

func (r *gormRepository) CreatePosts(ctx context.Context, posts []Post) error {
	if len(posts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&posts).Error
}

func (r *gormRepository) CreateReels(ctx context.Context, reels []Reel) error {
	if len(reels) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&reels).Error
}

func (r *gormRepository) ReplaceMedia(ctx context.Context, influencerID uint, posts []Post, reels []Reel) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("influencer_id = ?", influencerID).Delete(&Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("influencer_id = ?", influencerID).Delete(&Reel{}).Error; err != nil {
			return err
		}
		if len(posts) > 0 {
			if err := tx.Create(&posts).Error; err != nil {
				return err
			}
		}
		if len(reels) > 0 {
			if err := tx.Create(&reels).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *gormRepository) DeleteReels(ctx context.Context, influencerID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("influencer_id = ?", influencerID).Delete(&Reel{})
	return res.RowsAffected, res.Error
}

func (r *gormRepository) UpdatePostAnalysis(ctx context.Context, id uint, keywords []string, vibe, quality string) error {
	res := r.db.WithContext(ctx).Model(&Post{}).Where("id = ?", id).Updates(map[string]interface{}{
		"keywords": JoinKeywords(keywords),
		"vibe":     vibe,
		"quality":  quality,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *gormRepository) UpdateReelAnalysis(ctx context.Context, id uint, tags []string, vibe, quality string) error {
	res := r.db.WithContext(ctx).Model(&Reel{}).Where("id = ?", id).Updates(map[string]interface{}{
		"tags":    JoinKeywords(tags),
		"vibe":    vibe,
		"quality": quality,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrReelNotFound
	}
	return nil
}
