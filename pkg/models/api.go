// Package models holds the transport DTOs shared by the service and HTTP
// layers.
package models

import "time"

// PostResponse is a post as served to the dashboard.
type PostResponse struct {
	ID       uint       `json:"id"`
	ImageURL string     `json:"image_url"`
	Caption  string     `json:"caption,omitempty"`
	Likes    int64      `json:"likes"`
	Comments int64      `json:"comments"`
	PostedAt *time.Time `json:"posted_at,omitempty"`
	Keywords []string   `json:"keywords,omitempty"`
	Vibe     string     `json:"vibe,omitempty"`
	Quality  string     `json:"quality,omitempty"`
}

// ReelResponse is a reel as served to the dashboard.
type ReelResponse struct {
	ID           uint       `json:"id"`
	ThumbnailURL string     `json:"thumbnail_url"`
	Caption      string     `json:"caption,omitempty"`
	Views        int64      `json:"views"`
	Likes        int64      `json:"likes"`
	Comments     int64      `json:"comments"`
	PostedAt     *time.Time `json:"posted_at,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Vibe         string     `json:"vibe,omitempty"`
	Quality      string     `json:"quality,omitempty"`
}

// InfluencerResponse is the full profile payload.
type InfluencerResponse struct {
	ID                uint           `json:"id"`
	Name              string         `json:"name"`
	Username          string         `json:"username"`
	ProfilePictureURL string         `json:"profile_picture_url,omitempty"`
	Followers         int64          `json:"followers"`
	Following         int64          `json:"following"`
	PostsCount        int64          `json:"posts_count"`
	AvgLikes          float64        `json:"avg_likes"`
	AvgComments       float64        `json:"avg_comments"`
	EngagementRate    float64        `json:"engagement_rate"`
	Posts             []PostResponse `json:"posts"`
	Reels             []ReelResponse `json:"reels"`
}

// AnalysisResponse reports the labels persisted for one post or reel.
type AnalysisResponse struct {
	ID       uint     `json:"id"`
	Keywords []string `json:"keywords"`
	Vibe     string   `json:"vibe"`
	Quality  string   `json:"quality"`
}

// BatchAnalysisResponse summarizes a pending-media analysis run.
type BatchAnalysisResponse struct {
	Username string `json:"username"`
	Analyzed int    `json:"analyzed"`
	Failed   int    `json:"failed"`
	Skipped  int    `json:"skipped"`
}

// RefreshResponse summarizes a scrape refresh.
type RefreshResponse struct {
	Username   string `json:"username"`
	PostsAdded int    `json:"posts_added"`
	ReelsAdded int    `json:"reels_added"`
	Followers  int64  `json:"followers"`
	Following  int64  `json:"following"`
	PostsCount int64  `json:"posts_count"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
