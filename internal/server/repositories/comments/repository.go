// Package comments declares the comment repository contract and its
// PostgreSQL implementation.
package comments

import (
	"context"

	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

// Repository persists comments. Lookups return common.ErrorNotFound when no row matches.
type Repository interface {
	Create(ctx context.Context, postID, authorID, content string) (*models.CommentWithAuthor, error)
	FindByID(ctx context.Context, id string) (*models.Comment, error)
	// ListByPost returns comments newest first. limit <= 0 returns all of them.
	ListByPost(ctx context.Context, postID string, limit, offset int) ([]models.CommentWithAuthor, error)
	CountByPost(ctx context.Context, postID string) (int, error)
	Delete(ctx context.Context, id string) error
	IsOwner(ctx context.Context, commentID, userID string) (bool, error)
}
