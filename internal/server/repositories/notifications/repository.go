// Package notifications declares the notification repository contract and
// its PostgreSQL implementation.
package notifications

import (
	"context"

	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, n *models.Notification) (*models.Notification, error)
	// Exists reports whether a notification of typ from actor to recipient
	// about postID is already stored.
	Exists(ctx context.Context, typ models.NotificationType, actorID, recipientID, postID string) (bool, error)
	FindByID(ctx context.Context, id string) (*models.Notification, error)
	FindView(ctx context.Context, id string) (*models.NotificationView, error)
	List(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]models.NotificationView, error)
	Count(ctx context.Context, recipientID string, unreadOnly bool) (int, error)
	IsOwner(ctx context.Context, id, recipientID string) (bool, error)
	// MarkAsRead returns common.ErrorNotFound when no row belongs to recipientID.
	MarkAsRead(ctx context.Context, id, recipientID string) error
	MarkAllAsRead(ctx context.Context, recipientID string) (int64, error)
}
