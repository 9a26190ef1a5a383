package repository

import (
	"strings"
	"time"
)

// Influencer is a scraped profile with aggregate engagement figures.
type Influencer struct {
	ID                uint      `gorm:"primaryKey"          json:"id"`
	Name              string    `gorm:"not null"            json:"name"`
	Username          string    `gorm:"uniqueIndex;not null" json:"username"`
	ProfilePictureURL string    `gorm:"type:varchar(512)"   json:"profile_picture_url"`
	Followers         int64     `gorm:"default:0"           json:"followers"`
	Following         int64     `gorm:"default:0"           json:"following"`
	PostsCount        int64     `gorm:"default:0"           json:"posts_count"`
	AvgLikes          float64   `gorm:"default:0"           json:"avg_likes"`
	AvgComments       float64   `gorm:"default:0"           json:"avg_comments"`
	EngagementRate    float64   `gorm:"default:0"           json:"engagement_rate"`
	CreatedAt         time.Time `json:"created_at"`

	Posts []Post `gorm:"foreignKey:InfluencerID" json:"-"`
	Reels []Reel `gorm:"foreignKey:InfluencerID" json:"-"`
}

// Post is an image post. Keywords, Vibe, and Quality stay empty until the
// analysis engine has run against the post's media; a failed analysis leaves
// them empty rather than storing partial labels.
type Post struct {
	ID           uint       `gorm:"primaryKey"        json:"id"`
	InfluencerID uint       `gorm:"index;not null"    json:"influencer_id"`
	ImageURL     string     `gorm:"type:varchar(512)" json:"image_url"`
	Caption      string     `gorm:"type:text"         json:"caption"`
	Likes        int64      `gorm:"default:0"         json:"likes"`
	Comments     int64      `gorm:"default:0"         json:"comments"`
	PostedAt     *time.Time `json:"posted_at"`
	Keywords     string     `gorm:"type:varchar(128)" json:"keywords"` // comma-separated
	Vibe         string     `gorm:"type:varchar(32)"  json:"vibe"`
	Quality      string     `gorm:"type:varchar(32)"  json:"quality"`
}

// Reel is a video post represented by its thumbnail frame.
type Reel struct {
	ID           uint       `gorm:"primaryKey"        json:"id"`
	InfluencerID uint       `gorm:"index;not null"    json:"influencer_id"`
	ThumbnailURL string     `gorm:"type:varchar(512)" json:"thumbnail_url"`
	Caption      string     `gorm:"type:text"         json:"caption"`
	Views        int64      `gorm:"default:0"         json:"views"`
	Likes        int64      `gorm:"default:0"         json:"likes"`
	Comments     int64      `gorm:"default:0"         json:"comments"`
	PostedAt     *time.Time `json:"posted_at"`
	Tags         string     `gorm:"type:varchar(128)" json:"tags"` // comma-separated
	Vibe         string     `gorm:"type:varchar(32)"  json:"vibe"`
	Quality      string     `gorm:"type:varchar(32)"  json:"quality"`
}

// Analyzed reports whether the post already carries analysis labels.
func (p *Post) Analyzed() bool {
	return p.Vibe != ""
}

// Analyzed reports whether the reel already carries analysis labels.
func (r *Reel) Analyzed() bool {
	return r.Vibe != ""
}

// JoinKeywords encodes a keyword list into the stored CSV form.
func JoinKeywords(keywords []string) string {
	return strings.Join(keywords, ",")
}

// SplitKeywords decodes the stored CSV form, dropping empty entries.
func SplitKeywords(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
