// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, login, refresh token rotation and
// revocation of server-stored refresh sessions.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
	usersrepo "github.com/dmitrijs2005/blogkeeper/internal/server/repositories/users"
)

const (
	msgInvalidCredentials  = "Invalid credentials"
	msgEmailRegistered     = "Email already registered"
	msgUsernameTaken       = "Username already taken"
	msgInvalidRefreshToken = "Invalid refresh token"
	msgRefreshNotFound     = "Refresh token not found"
	msgRefreshExpired      = "Refresh token expired"
)

// PasswordHasher is implemented by *auth.PasswordHasher.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenIssuer is implemented by *auth.TokenIssuer.
type TokenIssuer interface {
	IssueAccess(id auth.Identity) (string, error)
	IssueRefresh(id auth.Identity, tokenID string) (string, error)
	VerifyRefresh(token string) (*auth.Claims, error)
	RefreshTTL() time.Duration
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthResult is what Register and Login hand back to the caller.
type AuthResult struct {
	User   *models.User
	Tokens TokenPair
}

// AuthService owns account credentials and refresh sessions.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	tokens      TokenIssuer
	now         func() time.Time
	logger      logging.Logger
}

// NewAuthService constructs an AuthService. A nil clock means time.Now.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, tokens TokenIssuer,
	now func() time.Time, logger logging.Logger) *AuthService {
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		now:         now,
		logger:      logger,
	}
}

// Register creates an account and opens its first session. The account row
// and the refresh session are written in one transaction.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (*AuthResult, error) {
	repo := s.repomanager.Users(s.db)

	if err := ensureAbsent(repo.FindByEmail(ctx, email)); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.Conflict(msgEmailRegistered)
		}
		return nil, fmt.Errorf("error searching user by email: %w", err)
	}
	if err := ensureAbsent(repo.FindByUsername(ctx, username)); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.Conflict(msgUsernameTaken)
		}
		return nil, fmt.Errorf("error searching user by username: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	result, err := dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*AuthResult, error) {
		user, err := s.repomanager.Users(tx).Create(ctx, email, username, hash)
		switch {
		case errors.Is(err, usersrepo.ErrEmailTaken):
			return nil, common.Conflict(msgEmailRegistered)
		case errors.Is(err, usersrepo.ErrUsernameTaken):
			return nil, common.Conflict(msgUsernameTaken)
		case err != nil:
			return nil, fmt.Errorf("error creating user: %w", err)
		}

		pair, err := s.issue(ctx, tx, identityOf(user))
		if err != nil {
			return nil, err
		}
		return &AuthResult{User: user, Tokens: *pair}, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "New user registered", "user_id", result.User.ID)
	return result, nil
}

// Login verifies credentials and opens a new session. An unknown email and a
// wrong password fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repomanager.Users(s.db).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.Unauthorized(msgInvalidCredentials)
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.Unauthorized(msgInvalidCredentials)
	}

	pair, err := s.issue(ctx, s.db, identityOf(user))
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "User logged in", "user_id", user.ID)
	return &AuthResult{User: user, Tokens: *pair}, nil
}

// Refresh consumes a refresh token and returns a new pair. The old row is
// deleted and the new one inserted in one transaction; of two concurrent
// refreshes with the same token exactly one succeeds.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, common.Unauthorized(msgInvalidRefreshToken)
	}

	repo := s.repomanager.RefreshTokens(s.db)

	stored, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.Unauthorized(msgRefreshNotFound)
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}

	if stored.Expired(s.now()) {
		if _, err := repo.Delete(ctx, refreshToken); err != nil {
			return nil, fmt.Errorf("error deleting refresh token: %w", err)
		}
		return nil, common.Unauthorized(msgRefreshExpired)
	}

	id := claims.Identity()

	pair, err := dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*TokenPair, error) {
		deleted, err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken)
		if err != nil {
			return nil, fmt.Errorf("error deleting refresh token: %w", err)
		}
		if !deleted {
			return nil, common.Unauthorized(msgRefreshNotFound)
		}
		return s.issue(ctx, tx, id)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Token refreshed", "user_id", id.UserID)
	return pair, nil
}

// Logout ends the session identified by refreshToken. Unknown or unsigned
// tokens still log out successfully; only store failures are returned.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	claims, verifyErr := s.tokens.VerifyRefresh(refreshToken)

	if _, err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}

	if verifyErr != nil {
		s.logger.Debug(ctx, "Logout with invalid token")
		return nil
	}

	s.logger.Info(ctx, "User logged out", "user_id", claims.UserID)
	return nil
}

// LogoutAll revokes every refresh session of userID. Access tokens already
// issued stay valid until they expire.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	n, err := s.repomanager.RefreshTokens(s.db).DeleteAllForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("error deleting refresh tokens: %w", err)
	}

	s.logger.Info(ctx, "User logged out from all devices", "user_id", userID, "sessions", n)
	return nil
}

// RevokeExpiredRefreshTokens purges rows whose expiry has passed and returns
// how many were removed.
func (s *AuthService) RevokeExpiredRefreshTokens(ctx context.Context) (int64, error) {
	n, err := s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("error purging refresh tokens: %w", err)
	}
	if n > 0 {
		s.logger.Info(ctx, "Expired refresh tokens revoked", "count", n)
	}
	return n, nil
}

// --- helpers below ---

func (s *AuthService) issue(ctx context.Context, db dbx.DBTX, id auth.Identity) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(id)
	if err != nil {
		return nil, fmt.Errorf("error signing access token: %w", err)
	}

	refresh, err := s.tokens.IssueRefresh(id, uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("error signing refresh token: %w", err)
	}

	expiresAt := s.now().Add(s.tokens.RefreshTTL())
	if _, err := s.repomanager.RefreshTokens(db).Create(ctx, id.UserID, refresh, expiresAt); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func identityOf(u *models.User) auth.Identity {
	return auth.Identity{UserID: u.ID, Email: u.Email, Username: u.Username}
}

// ensureAbsent turns a lookup result into nil when nothing was found and
// common.ErrorAlreadyExists when something was.
func ensureAbsent[T any](_ T, err error) error {
	switch {
	case err == nil:
		return common.ErrorAlreadyExists
	case errors.Is(err, common.ErrorNotFound):
		return nil
	default:
		return err
	}
}
