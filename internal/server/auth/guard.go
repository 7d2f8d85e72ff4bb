package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
)

// AccessVerifier is the part of TokenIssuer the guard needs.
type AccessVerifier interface {
	VerifyAccess(token string) (*Claims, error)
}

// Guard turns an Authorization header into an Identity.
type Guard struct {
	verifier AccessVerifier
}

func NewGuard(v AccessVerifier) *Guard {
	return &Guard{verifier: v}
}

// Authenticate requires "Bearer <token>" and a valid access token.
// Failures are *common.AppError values with status 401.
func (g *Guard) Authenticate(header string) (Identity, error) {
	token, ok := bearerToken(header)
	if !ok {
		return Identity{}, common.Unauthorized("Access token required")
	}

	claims, err := g.verifier.VerifyAccess(token)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Identity{}, common.Unauthorized("Token expired")
		case errors.Is(err, ErrWrongTokenClass):
			return Identity{}, common.Unauthorized("Invalid token type")
		default:
			return Identity{}, common.Unauthorized("Invalid token")
		}
	}

	return claims.Identity(), nil
}

// Optional behaves like Authenticate but reports failure as ok == false
// instead of an error. A missing header is not a failure worth reporting.
func (g *Guard) Optional(header string) (Identity, bool) {
	id, err := g.Authenticate(header)
	if err != nil {
		return Identity{}, false
	}
	return id, true
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

type ctxKey string

const identityKey ctxKey = "identity"

// WithIdentity stores id in ctx for downstream services.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the identity put there by WithIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
