// Package models defines server-side data models persisted in the database.
package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	ProfileImage *string   `json:"profileImage"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Author is the public projection of a user embedded in posts, comments,
// likes and notifications.
type Author struct {
	ID           string  `json:"id"`
	Username     string  `json:"username"`
	ProfileImage *string `json:"profileImage,omitempty"`
}

// Profile is a user as seen by themselves.
type Profile struct {
	ID                  string    `json:"id"`
	Email               string    `json:"email"`
	Username            string    `json:"username"`
	ProfileImage        *string   `json:"profileImage"`
	CreatedAt           time.Time `json:"createdAt"`
	UnreadNotifications int       `json:"unreadNotifications"`
}
