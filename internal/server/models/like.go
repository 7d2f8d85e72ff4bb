package models

import "time"

type Like struct {
	ID        string
	PostID    string
	UserID    string
	CreatedAt time.Time
}

type LikeWithUser struct {
	ID   string `json:"id"`
	User Author `json:"user"`
}

// LikeToggle is the outcome of liking or unliking a post.
type LikeToggle struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}
