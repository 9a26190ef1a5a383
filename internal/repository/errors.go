package repository

import "errors"

var (
	// ErrInfluencerNotFound indicates no profile exists for the username.
	ErrInfluencerNotFound = errors.New("influencer not found")

	// ErrPostNotFound indicates the post does not exist.
	ErrPostNotFound = errors.New("post not found")

	// ErrReelNotFound indicates the reel does not exist.
	ErrReelNotFound = errors.New("reel not found")
)
