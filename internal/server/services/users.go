package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/pagination"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
	usersrepo "github.com/dmitrijs2005/blogkeeper/internal/server/repositories/users"
)

const userPostPreviewLength = 200

// UserService serves a signed-in user's own profile and posts.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *UserService {
	return &UserService{db: db, repomanager: m, logger: logger}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	user, err := s.repomanager.Users(s.db).FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NotFound("User not found")
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	unread, err := s.repomanager.Notifications(s.db).Count(ctx, userID, true)
	if err != nil {
		return nil, fmt.Errorf("error counting notifications: %w", err)
	}

	return &models.Profile{
		ID:                  user.ID,
		Email:               user.Email,
		Username:            user.Username,
		ProfileImage:        user.ProfileImage,
		CreatedAt:           user.CreatedAt,
		UnreadNotifications: unread,
	}, nil
}

// UpdateProfile changes the non-nil fields. A username held by another
// account is a conflict; keeping one's own username is not.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, username, profileImage *string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	if username != nil {
		existing, err := repo.FindByUsername(ctx, *username)
		switch {
		case err == nil && existing.ID != userID:
			return nil, common.Conflict(msgUsernameTaken)
		case err != nil && !errors.Is(err, common.ErrorNotFound):
			return nil, fmt.Errorf("error searching user by username: %w", err)
		}
	}

	user, err := repo.Update(ctx, userID, username, profileImage)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return nil, common.NotFound("User not found")
	case errors.Is(err, usersrepo.ErrUsernameTaken):
		return nil, common.Conflict(msgUsernameTaken)
	case err != nil:
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	s.logger.Info(ctx, "User profile updated", "user_id", userID)
	return user, nil
}

// ListPosts returns one page of userID's posts with a short content preview.
func (s *UserService) ListPosts(ctx context.Context, userID string, p pagination.Params) (pagination.Result[models.PostSummary], error) {
	p = p.Normalize()
	repo := s.repomanager.Posts(s.db)

	items, err := repo.ListByAuthor(ctx, userID, p.Limit, p.Offset())
	if err != nil {
		return pagination.Result[models.PostSummary]{}, fmt.Errorf("error listing posts: %w", err)
	}
	total, err := repo.CountByAuthor(ctx, userID)
	if err != nil {
		return pagination.Result[models.PostSummary]{}, fmt.Errorf("error counting posts: %w", err)
	}

	for i := range items {
		items[i].Content = models.Preview(items[i].Content, userPostPreviewLength)
		items[i].Author = nil
	}

	return pagination.NewResult(items, p, total), nil
}
