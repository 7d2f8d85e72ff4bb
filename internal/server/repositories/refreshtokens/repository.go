// Package refreshtokens declares the server-side repository contract for
// managing refresh sessions in persistent storage.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking refresh tokens.
type Repository interface {
	// Create stores a new refresh token for userID that expires at expiresAt.
	Create(ctx context.Context, userID, token string, expiresAt time.Time) (*models.RefreshToken, error)

	// Find looks up a refresh token by its token string.
	// It returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a refresh token by its token string and reports whether
	// a row was removed. Deleting a missing token is not an error.
	Delete(ctx context.Context, token string) (bool, error)

	// DeleteAllForUser removes every refresh token owned by userID.
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)

	// DeleteExpired removes tokens with expires_at <= now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
