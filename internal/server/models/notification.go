package models

import "time"

type NotificationType string

const (
	NotificationTypeComment NotificationType = "COMMENT"
	NotificationTypeLike    NotificationType = "LIKE"
	NotificationTypeView    NotificationType = "VIEW"
)

type Notification struct {
	ID          string
	Type        NotificationType
	ActorID     string
	RecipientID string
	PostID      *string
	CommentID   *string
	LikeID      *string
	IsRead      bool
	CreatedAt   time.Time
}

type PostRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type CommentRef struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// NotificationView is a notification joined with what its recipient sees.
type NotificationView struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	IsRead    bool             `json:"isRead"`
	CreatedAt time.Time        `json:"createdAt"`
	Actor     Author           `json:"actor"`
	Post      *PostRef         `json:"post"`
	Comment   *CommentRef      `json:"comment"`
}
