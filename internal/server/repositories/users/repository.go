// Package users declares the account repository contract and its
// PostgreSQL implementation.
package users

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

var (
	// ErrEmailTaken and ErrUsernameTaken wrap common.ErrorAlreadyExists.
	ErrEmailTaken    = fmt.Errorf("email %w", common.ErrorAlreadyExists)
	ErrUsernameTaken = fmt.Errorf("username %w", common.ErrorAlreadyExists)
)

// Repository persists accounts. Lookups return common.ErrorNotFound when no row matches.
type Repository interface {
	Create(ctx context.Context, email, username, passwordHash string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// Update changes only the non-nil fields and bumps updated_at.
	Update(ctx context.Context, id string, username, profileImage *string) (*models.User, error)
}
