// Package auth contains password hashing, token issuing and the access
// guard used by the HTTP layer.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	// ErrInvalidSignature covers bad signatures, malformed tokens and expired
	// tokens. The underlying jwt error stays in the chain, so callers can still
	// tell expiry apart with errors.Is(err, jwt.ErrTokenExpired).
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrWrongTokenClass  = errors.New("wrong token class")
)

// Identity is what a verified token says about its holder.
type Identity struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Claims is the signed payload of both token classes. TokenID is only set
// on refresh tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Type     string `json:"type"`
	TokenID  string `json:"tokenId,omitempty"`
}

func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Email: c.Email, Username: c.Username}
}

// TokenIssuer signs and verifies access and refresh tokens with HS256.
// Each class has its own secret; a token signed for one class never
// verifies as the other.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenIssuer builds an issuer. A nil clock means time.Now.
func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, now func() time.Time) *TokenIssuer {
	if now == nil {
		now = time.Now
	}
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           now,
	}
}

func (i *TokenIssuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}

func (i *TokenIssuer) IssueAccess(id Identity) (string, error) {
	return i.sign(id, TypeAccess, "", i.accessSecret, i.accessTTL)
}

func (i *TokenIssuer) IssueRefresh(id Identity, tokenID string) (string, error) {
	return i.sign(id, TypeRefresh, tokenID, i.refreshSecret, i.refreshTTL)
}

func (i *TokenIssuer) VerifyAccess(token string) (*Claims, error) {
	return i.verify(token, TypeAccess, i.accessSecret)
}

func (i *TokenIssuer) VerifyRefresh(token string) (*Claims, error) {
	return i.verify(token, TypeRefresh, i.refreshSecret)
}

func (i *TokenIssuer) sign(id Identity, typ, tokenID string, secret []byte, ttl time.Duration) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:   id.UserID,
		Email:    id.Email,
		Username: id.Username,
		Type:     typ,
		TokenID:  tokenID,
	})

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (i *TokenIssuer) verify(tokenString, typ string, secret []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	if !token.Valid {
		return nil, ErrInvalidSignature
	}

	if claims.Type != typ {
		return nil, ErrWrongTokenClass
	}

	return claims, nil
}
