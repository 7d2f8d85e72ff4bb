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

type CommentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	notifier    Notifier
	logger      logging.Logger
}

func NewCommentService(db *sql.DB, m repomanager.RepositoryManager, n Notifier, logger logging.Logger) *CommentService {
	return &CommentService{db: db, repomanager: m, notifier: n, logger: logger}
}

// Create adds a comment to postID and notifies the post author.
func (s *CommentService) Create(ctx context.Context, authorID, postID, content string) (*models.CommentWithAuthor, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment, err := s.repomanager.Comments(s.db).Create(ctx, postID, authorID, content)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NotFound(msgPostNotFound)
		}
		return nil, fmt.Errorf("error creating comment: %w", err)
	}

	s.notifier.NotifyComment(ctx, authorID, post.AuthorID, postID, comment.ID)

	s.logger.Info(ctx, "Comment created", "comment_id", comment.ID, "post_id", postID, "author_id", authorID)
	return comment, nil
}

// ListByPost returns one page of postID's comments, newest first.
func (s *CommentService) ListByPost(ctx context.Context, postID string, p pagination.Params) (pagination.Result[models.CommentWithAuthor], error) {
	if _, err := s.findPost(ctx, postID); err != nil {
		return pagination.Result[models.CommentWithAuthor]{}, err
	}

	p = p.Normalize()
	repo := s.repomanager.Comments(s.db)

	items, err := repo.ListByPost(ctx, postID, p.Limit, p.Offset())
	if err != nil {
		return pagination.Result[models.CommentWithAuthor]{}, fmt.Errorf("error listing comments: %w", err)
	}
	total, err := repo.CountByPost(ctx, postID)
	if err != nil {
		return pagination.Result[models.CommentWithAuthor]{}, fmt.Errorf("error counting comments: %w", err)
	}

	return pagination.NewResult(items, p, total), nil
}

// Delete removes a comment written by userID.
func (s *CommentService) Delete(ctx context.Context, id, userID string) error {
	repo := s.repomanager.Comments(s.db)

	if _, err := repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NotFound("Comment not found")
		}
		return fmt.Errorf("error searching comment: %w", err)
	}

	owner, err := repo.IsOwner(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("error checking comment owner: %w", err)
	}
	if !owner {
		return common.Forbidden("You can only delete your own comments")
	}

	if err := repo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NotFound("Comment not found")
		}
		return fmt.Errorf("error deleting comment: %w", err)
	}

	s.logger.Info(ctx, "Comment deleted", "comment_id", id, "user_id", userID)
	return nil
}

func (s *CommentService) findPost(ctx context.Context, postID string) (*models.Post, error) {
	post, err := s.repomanager.Posts(s.db).FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NotFound(msgPostNotFound)
		}
		return nil, fmt.Errorf("error searching post: %w", err)
	}
	return post, nil
}
