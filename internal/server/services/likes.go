package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
)

type LikeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	notifier    Notifier
	logger      logging.Logger
}

func NewLikeService(db *sql.DB, m repomanager.RepositoryManager, n Notifier, logger logging.Logger) *LikeService {
	return &LikeService{db: db, repomanager: m, notifier: n, logger: logger}
}

// Toggle likes postID for userID, or removes the like if it is already there.
func (s *LikeService) Toggle(ctx context.Context, userID, postID string) (*models.LikeToggle, error) {
	post, err := s.repomanager.Posts(s.db).FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NotFound(msgPostNotFound)
		}
		return nil, fmt.Errorf("error searching post: %w", err)
	}

	repo := s.repomanager.Likes(s.db)

	liked, err := s.toggle(ctx, userID, post)
	if err != nil {
		return nil, err
	}

	count, err := repo.CountByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error counting likes: %w", err)
	}

	return &models.LikeToggle{Liked: liked, LikeCount: count}, nil
}

func (s *LikeService) toggle(ctx context.Context, userID string, post *models.Post) (bool, error) {
	repo := s.repomanager.Likes(s.db)

	existing, err := repo.Find(ctx, userID, post.ID)
	switch {
	case err == nil:
		if err := repo.Delete(ctx, existing.ID); err != nil && !errors.Is(err, common.ErrorNotFound) {
			return false, fmt.Errorf("error deleting like: %w", err)
		}
		s.logger.Info(ctx, "Post unliked", "post_id", post.ID, "user_id", userID)
		return false, nil
	case !errors.Is(err, common.ErrorNotFound):
		return false, fmt.Errorf("error searching like: %w", err)
	}

	like, err := repo.Create(ctx, userID, post.ID)
	if err != nil {
		// A concurrent request created it first.
		if errors.Is(err, common.ErrorAlreadyExists) {
			return true, nil
		}
		return false, fmt.Errorf("error creating like: %w", err)
	}

	s.notifier.NotifyLike(ctx, userID, post.AuthorID, post.ID, like.ID)

	s.logger.Info(ctx, "Post liked", "post_id", post.ID, "user_id", userID)
	return true, nil
}
