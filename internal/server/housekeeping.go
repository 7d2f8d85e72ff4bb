package server

import (
	"context"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/logging"
)

// expiredTokenRevoker is implemented by *services.AuthService.
type expiredTokenRevoker interface {
	RevokeExpiredRefreshTokens(ctx context.Context) (int64, error)
}

// runHousekeeping purges expired refresh sessions once per interval until
// ctx is done. A failed pass is logged and retried on the next tick.
func runHousekeeping(ctx context.Context, interval time.Duration, r expiredTokenRevoker, logger logging.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.RevokeExpiredRefreshTokens(ctx); err != nil && ctx.Err() == nil {
				logger.Error(ctx, "Refresh token housekeeping failed", "error", err)
			}
		}
	}
}
