package notifications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

const notificationColumns = `id, type, actor_id, recipient_id, post_id, comment_id, like_id, is_read, created_at`

const viewSelect = `
	SELECT n.id, n.type, n.is_read, n.created_at,
	       a.id, a.username, a.profile_image,
	       p.id, p.title,
	       c.id, c.content
	FROM notifications n
	JOIN users a ON a.id = n.actor_id
	LEFT JOIN posts p ON p.id = n.post_id
	LEFT JOIN comments c ON c.id = n.comment_id
`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	query :=
		`INSERT INTO notifications (type, actor_id, recipient_id, post_id, comment_id, like_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING ` + notificationColumns

	row := r.db.QueryRowContext(ctx, query, string(n.Type), n.ActorID, n.RecipientID, n.PostID, n.CommentID, n.LikeID)
	return scanNotification(row)
}

func (r *PostgresRepository) Exists(ctx context.Context, typ models.NotificationType, actorID, recipientID, postID string) (bool, error) {
	query :=
		`SELECT EXISTS (
		     SELECT 1 FROM notifications
		     WHERE type = $1 AND actor_id = $2 AND recipient_id = $3 AND post_id = $4
		 )`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, string(typ), actorID, recipientID, postID).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	return scanNotification(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) FindView(ctx context.Context, id string) (*models.NotificationView, error) {
	v, err := scanView(r.db.QueryRowContext(ctx, viewSelect+` WHERE n.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) List(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]models.NotificationView, error) {
	query := viewSelect + ` WHERE n.recipient_id = $1`
	if unreadOnly {
		query += ` AND NOT n.is_read`
	}
	query += ` ORDER BY n.created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, recipientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.NotificationView, 0)
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context, recipientID string, unreadOnly bool) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1`
	if unreadOnly {
		query += ` AND NOT is_read`
	}

	var n int
	if err := r.db.QueryRowContext(ctx, query, recipientID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) IsOwner(ctx context.Context, id, recipientID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM notifications WHERE id = $1 AND recipient_id = $2)`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, id, recipientID).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

func (r *PostgresRepository) MarkAsRead(ctx context.Context, id, recipientID string) error {
	n, err := r.exec(ctx, `UPDATE notifications SET is_read = true WHERE id = $1 AND recipient_id = $2`, id, recipientID)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) MarkAllAsRead(ctx context.Context, recipientID string) (int64, error) {
	return r.exec(ctx, `UPDATE notifications SET is_read = true WHERE recipient_id = $1 AND NOT is_read`, recipientID)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNotification(row scanner) (*models.Notification, error) {
	n := &models.Notification{}
	var typ string
	err := row.Scan(&n.ID, &typ, &n.ActorID, &n.RecipientID, &n.PostID, &n.CommentID, &n.LikeID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	n.Type = models.NotificationType(typ)
	return n, nil
}

func scanView(row scanner) (*models.NotificationView, error) {
	v := &models.NotificationView{}
	var (
		typ                  string
		postID, postTitle    sql.NullString
		commentID, commentTx sql.NullString
	)
	err := row.Scan(&v.ID, &typ, &v.IsRead, &v.CreatedAt,
		&v.Actor.ID, &v.Actor.Username, &v.Actor.ProfileImage,
		&postID, &postTitle, &commentID, &commentTx)
	if err != nil {
		return nil, err
	}

	v.Type = models.NotificationType(typ)
	if postID.Valid {
		v.Post = &models.PostRef{ID: postID.String, Title: postTitle.String}
	}
	if commentID.Valid {
		v.Comment = &models.CommentRef{ID: commentID.String, Content: commentTx.String}
	}
	return v, nil
}
