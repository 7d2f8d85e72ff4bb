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

// NotificationService lists notifications for their recipient and records
// new ones on behalf of the other services.
type NotificationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewNotificationService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *NotificationService {
	return &NotificationService{db: db, repomanager: m, logger: logger}
}

// List returns one page of recipientID's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, recipientID string, p pagination.Params, unreadOnly bool) (pagination.Result[models.NotificationView], error) {
	p = p.Normalize()
	repo := s.repomanager.Notifications(s.db)

	items, err := repo.List(ctx, recipientID, unreadOnly, p.Limit, p.Offset())
	if err != nil {
		return pagination.Result[models.NotificationView]{}, fmt.Errorf("error listing notifications: %w", err)
	}
	total, err := repo.Count(ctx, recipientID, unreadOnly)
	if err != nil {
		return pagination.Result[models.NotificationView]{}, fmt.Errorf("error counting notifications: %w", err)
	}

	return pagination.NewResult(items, p, total), nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	n, err := s.repomanager.Notifications(s.db).Count(ctx, recipientID, true)
	if err != nil {
		return 0, fmt.Errorf("error counting notifications: %w", err)
	}
	return n, nil
}

// MarkAsRead flags one notification as read. The notification must exist
// and belong to userID, checked in that order.
func (s *NotificationService) MarkAsRead(ctx context.Context, id, userID string) (*models.NotificationView, error) {
	repo := s.repomanager.Notifications(s.db)

	if _, err := repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NotFound("Notification not found")
		}
		return nil, fmt.Errorf("error searching notification: %w", err)
	}

	owner, err := repo.IsOwner(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("error checking notification owner: %w", err)
	}
	if !owner {
		return nil, common.Forbidden("You can only mark your own notifications as read")
	}

	if err := repo.MarkAsRead(ctx, id, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NotFound("Notification not found")
		}
		return nil, fmt.Errorf("error marking notification: %w", err)
	}

	view, err := repo.FindView(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading notification: %w", err)
	}
	return view, nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, recipientID string) error {
	n, err := s.repomanager.Notifications(s.db).MarkAllAsRead(ctx, recipientID)
	if err != nil {
		return fmt.Errorf("error marking notifications: %w", err)
	}
	s.logger.Info(ctx, "All notifications marked as read", "recipient_id", recipientID, "count", n)
	return nil
}

// The Notify* helpers are best-effort: a failure is logged and never
// reaches the caller. Self-notifications are skipped.

func (s *NotificationService) NotifyComment(ctx context.Context, actorID, recipientID, postID, commentID string) {
	if actorID == recipientID {
		return
	}
	n := &models.Notification{
		Type:        models.NotificationTypeComment,
		ActorID:     actorID,
		RecipientID: recipientID,
		PostID:      &postID,
		CommentID:   &commentID,
	}
	if _, err := s.repomanager.Notifications(s.db).Create(ctx, n); err != nil {
		s.logger.Error(ctx, "Failed to create comment notification", "error", err)
		return
	}
	s.logger.Info(ctx, "Comment notification created", "actor_id", actorID, "recipient_id", recipientID, "post_id", postID)
}

// NotifyLike records at most one LIKE per actor, recipient and post, so
// unlike/like cycles do not notify again.
func (s *NotificationService) NotifyLike(ctx context.Context, actorID, recipientID, postID, likeID string) {
	if actorID == recipientID {
		return
	}
	repo := s.repomanager.Notifications(s.db)

	exists, err := repo.Exists(ctx, models.NotificationTypeLike, actorID, recipientID, postID)
	if err != nil {
		s.logger.Error(ctx, "Failed to create like notification", "error", err)
		return
	}
	if exists {
		return
	}

	n := &models.Notification{
		Type:        models.NotificationTypeLike,
		ActorID:     actorID,
		RecipientID: recipientID,
		PostID:      &postID,
		LikeID:      &likeID,
	}
	if _, err := repo.Create(ctx, n); err != nil {
		s.logger.Error(ctx, "Failed to create like notification", "error", err)
		return
	}
	s.logger.Info(ctx, "Like notification created", "actor_id", actorID, "recipient_id", recipientID, "post_id", postID)
}

func (s *NotificationService) NotifyView(ctx context.Context, actorID, recipientID, postID string) {
	if actorID == recipientID {
		return
	}
	n := &models.Notification{
		Type:        models.NotificationTypeView,
		ActorID:     actorID,
		RecipientID: recipientID,
		PostID:      &postID,
	}
	if _, err := s.repomanager.Notifications(s.db).Create(ctx, n); err != nil {
		s.logger.Error(ctx, "Failed to create view notification", "error", err)
		return
	}
	s.logger.Debug(ctx, "View notification created", "actor_id", actorID, "recipient_id", recipientID, "post_id", postID)
}
