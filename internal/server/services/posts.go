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
)

const (
	postPreviewLength = 300

	msgPostNotFound = "Post not found"
)

// Notifier records notifications without failing the caller. It is
// implemented by *NotificationService.
type Notifier interface {
	NotifyComment(ctx context.Context, actorID, recipientID, postID, commentID string)
	NotifyLike(ctx context.Context, actorID, recipientID, postID, likeID string)
	NotifyView(ctx context.Context, actorID, recipientID, postID string)
}

type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	notifier    Notifier
	logger      logging.Logger
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager, n Notifier, logger logging.Logger) *PostService {
	return &PostService{db: db, repomanager: m, notifier: n, logger: logger}
}

func (s *PostService) Create(ctx context.Context, authorID, title, content string) (*models.Post, error) {
	post, err := s.repomanager.Posts(s.db).Create(ctx, authorID, title, content)
	if err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}
	s.logger.Info(ctx, "Post created", "post_id", post.ID, "author_id", authorID)
	return post, nil
}

// List returns one page of all posts, newest first, with content previews.
func (s *PostService) List(ctx context.Context, p pagination.Params) (pagination.Result[models.PostSummary], error) {
	p = p.Normalize()
	repo := s.repomanager.Posts(s.db)

	items, err := repo.List(ctx, p.Limit, p.Offset())
	if err != nil {
		return pagination.Result[models.PostSummary]{}, fmt.Errorf("error listing posts: %w", err)
	}
	total, err := repo.Count(ctx)
	if err != nil {
		return pagination.Result[models.PostSummary]{}, fmt.Errorf("error counting posts: %w", err)
	}

	for i := range items {
		items[i].Content = models.Preview(items[i].Content, postPreviewLength)
	}

	return pagination.NewResult(items, p, total), nil
}

// Get returns a post with its comments and likes and counts the view.
// viewerID is empty for anonymous readers; a known viewer other than the
// author triggers a VIEW notification.
func (s *PostService) Get(ctx context.Context, id, viewerID string) (*models.PostDetail, error) {
	repo := s.repomanager.Posts(s.db)

	detail, err := repo.FindDetail(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NotFound(msgPostNotFound)
		}
		return nil, fmt.Errorf("error searching post: %w", err)
	}

	if err := repo.IncrementViewCount(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NotFound(msgPostNotFound)
		}
		return nil, fmt.Errorf("error counting view: %w", err)
	}
	detail.ViewCount++

	if viewerID != "" && viewerID != detail.Author.ID {
		s.notifier.NotifyView(ctx, viewerID, detail.Author.ID, detail.ID)
	}

	comments, err := s.repomanager.Comments(s.db).ListByPost(ctx, id, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	likes, err := s.repomanager.Likes(s.db).ListByPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error listing likes: %w", err)
	}

	detail.Comments = nonNil(comments)
	detail.Likes = nonNil(likes)
	return detail, nil
}

// Update changes the non-nil fields of a post owned by userID.
func (s *PostService) Update(ctx context.Context, id, userID string, title, content *string) (*models.Post, error) {
	if err := s.checkOwner(ctx, id, userID, "You can only edit your own posts"); err != nil {
		return nil, err
	}

	post, err := s.repomanager.Posts(s.db).Update(ctx, id, title, content)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NotFound(msgPostNotFound)
		}
		return nil, fmt.Errorf("error updating post: %w", err)
	}

	s.logger.Info(ctx, "Post updated", "post_id", id, "user_id", userID)
	return post, nil
}

// Delete removes a post owned by userID together with its comments, likes
// and notifications.
func (s *PostService) Delete(ctx context.Context, id, userID string) error {
	if err := s.checkOwner(ctx, id, userID, "You can only delete your own posts"); err != nil {
		return err
	}

	if err := s.repomanager.Posts(s.db).Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NotFound(msgPostNotFound)
		}
		return fmt.Errorf("error deleting post: %w", err)
	}

	s.logger.Info(ctx, "Post deleted", "post_id", id, "user_id", userID)
	return nil
}

// checkOwner reports NotFound before Forbidden, so a missing post is never
// disguised as someone else's.
func (s *PostService) checkOwner(ctx context.Context, id, userID, forbidden string) error {
	repo := s.repomanager.Posts(s.db)

	if _, err := repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NotFound(msgPostNotFound)
		}
		return fmt.Errorf("error searching post: %w", err)
	}

	owner, err := repo.IsOwner(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("error checking post owner: %w", err)
	}
	if !owner {
		return common.Forbidden(forbidden)
	}
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
