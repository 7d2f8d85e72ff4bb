package models

import "time"

type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ViewCount int       `json:"viewCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostSummary is a list item. Content holds a preview, not the full text.
type PostSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	ViewCount    int       `json:"viewCount"`
	CommentCount int       `json:"commentCount"`
	LikeCount    int       `json:"likeCount"`
	Author       *Author   `json:"author,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type PostDetail struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Content      string              `json:"content"`
	ViewCount    int                 `json:"viewCount"`
	CommentCount int                 `json:"commentCount"`
	LikeCount    int                 `json:"likeCount"`
	Author       Author              `json:"author"`
	Comments     []CommentWithAuthor `json:"comments"`
	Likes        []LikeWithUser      `json:"likes"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// Preview cuts s to at most n runes.
func Preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
