// Package likes declares the like repository contract and its PostgreSQL
// implementation. A user likes a post at most once.
package likes

import (
	"context"

	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

type Repository interface {
	// Find returns common.ErrorNotFound when userID has not liked postID.
	Find(ctx context.Context, userID, postID string) (*models.Like, error)
	// Create returns common.ErrorAlreadyExists when the like is already there.
	Create(ctx context.Context, userID, postID string) (*models.Like, error)
	Delete(ctx context.Context, id string) error
	CountByPost(ctx context.Context, postID string) (int, error)
	ListByPost(ctx context.Context, postID string) ([]models.LikeWithUser, error)
}
