package http

import (
	"context"

	"github.com/dmitrijs2005/blogkeeper/internal/pagination"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/services"
)

// The interfaces below are the parts of the services package the handlers
// call. Each is implemented by the matching *services.XService.

type AuthService interface {
	Register(ctx context.Context, email, username, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID string) error
}

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID string, username, profileImage *string) (*models.User, error)
	ListPosts(ctx context.Context, userID string, p pagination.Params) (pagination.Result[models.PostSummary], error)
}

type PostService interface {
	Create(ctx context.Context, authorID, title, content string) (*models.Post, error)
	List(ctx context.Context, p pagination.Params) (pagination.Result[models.PostSummary], error)
	Get(ctx context.Context, id, viewerID string) (*models.PostDetail, error)
	Update(ctx context.Context, id, userID string, title, content *string) (*models.Post, error)
	Delete(ctx context.Context, id, userID string) error
}

type CommentService interface {
	Create(ctx context.Context, authorID, postID, content string) (*models.CommentWithAuthor, error)
	ListByPost(ctx context.Context, postID string, p pagination.Params) (pagination.Result[models.CommentWithAuthor], error)
	Delete(ctx context.Context, id, userID string) error
}

type LikeService interface {
	Toggle(ctx context.Context, userID, postID string) (*models.LikeToggle, error)
}

type NotificationService interface {
	List(ctx context.Context, recipientID string, p pagination.Params, unreadOnly bool) (pagination.Result[models.NotificationView], error)
	UnreadCount(ctx context.Context, recipientID string) (int, error)
	MarkAsRead(ctx context.Context, id, userID string) (*models.NotificationView, error)
	MarkAllAsRead(ctx context.Context, recipientID string) error
}

// Services bundles everything the HTTP server dispatches to.
type Services struct {
	Auth          AuthService
	Users         UserService
	Posts         PostService
	Comments      CommentService
	Likes         LikeService
	Notifications NotificationService
}
