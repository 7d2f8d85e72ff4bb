package likes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Find(ctx context.Context, userID, postID string) (*models.Like, error) {
	query := `SELECT id, post_id, user_id, created_at FROM likes WHERE user_id = $1 AND post_id = $2`
	return scanLike(r.db.QueryRowContext(ctx, query, userID, postID))
}

func (r *PostgresRepository) Create(ctx context.Context, userID, postID string) (*models.Like, error) {
	query :=
		`INSERT INTO likes (user_id, post_id)
		 VALUES ($1, $2)
		 RETURNING id, post_id, user_id, created_at`
	return scanLike(r.db.QueryRowContext(ctx, query, userID, postID))
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM likes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CountByPost(ctx context.Context, postID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM likes WHERE post_id = $1`, postID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) ListByPost(ctx context.Context, postID string) ([]models.LikeWithUser, error) {
	query :=
		`SELECT l.id, u.id, u.username
		 FROM likes l
		 JOIN users u ON u.id = l.user_id
		 WHERE l.post_id = $1
		 ORDER BY l.created_at`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.LikeWithUser, 0)
	for rows.Next() {
		var l models.LikeWithUser
		if err := rows.Scan(&l.ID, &l.User.ID, &l.User.Username); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func scanLike(row *sql.Row) (*models.Like, error) {
	l := &models.Like{}
	if err := row.Scan(&l.ID, &l.PostID, &l.UserID, &l.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		if _, ok := dbx.UniqueViolation(err); ok {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return l, nil
}
