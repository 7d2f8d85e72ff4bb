// Package posts declares the post repository contract and its PostgreSQL
// implementation.
package posts

import (
	"context"

	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

// Repository persists posts. Lookups return common.ErrorNotFound when no row matches.
type Repository interface {
	Create(ctx context.Context, authorID, title, content string) (*models.Post, error)
	FindByID(ctx context.Context, id string) (*models.Post, error)
	// FindDetail returns the post with its author and counters. Comments and
	// likes are left empty.
	FindDetail(ctx context.Context, id string) (*models.PostDetail, error)
	List(ctx context.Context, limit, offset int) ([]models.PostSummary, error)
	Count(ctx context.Context) (int, error)
	ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]models.PostSummary, error)
	CountByAuthor(ctx context.Context, authorID string) (int, error)
	// Update changes only the non-nil fields and bumps updated_at.
	Update(ctx context.Context, id string, title, content *string) (*models.Post, error)
	Delete(ctx context.Context, id string) error
	IncrementViewCount(ctx context.Context, id string) error
	IsOwner(ctx context.Context, postID, userID string) (bool, error)
}
