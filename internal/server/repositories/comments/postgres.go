package comments

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

func (r *PostgresRepository) Create(ctx context.Context, postID, authorID, content string) (*models.CommentWithAuthor, error) {
	query :=
		`WITH c AS (
		     INSERT INTO comments (post_id, author_id, content)
		     VALUES ($1, $2, $3)
		     RETURNING id, author_id, content, created_at
		 )
		 SELECT c.id, c.content, c.created_at, u.id, u.username, u.profile_image
		 FROM c JOIN users u ON u.id = c.author_id`

	out, err := scanWithAuthor(r.db.QueryRowContext(ctx, query, postID, authorID, content))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `SELECT id, post_id, author_id, content, created_at FROM comments WHERE id = $1`

	c := &models.Comment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) ListByPost(ctx context.Context, postID string, limit, offset int) ([]models.CommentWithAuthor, error) {
	query :=
		`SELECT c.id, c.content, c.created_at, u.id, u.username, u.profile_image
		 FROM comments c
		 JOIN users u ON u.id = c.author_id
		 WHERE c.post_id = $1
		 ORDER BY c.created_at DESC`
	args := []any{postID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.CommentWithAuthor, 0)
	for rows.Next() {
		c, err := scanWithAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) CountByPost(ctx context.Context, postID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) IsOwner(ctx context.Context, commentID, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM comments WHERE id = $1 AND author_id = $2)`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, commentID, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWithAuthor(row scanner) (*models.CommentWithAuthor, error) {
	c := &models.CommentWithAuthor{}
	err := row.Scan(&c.ID, &c.Content, &c.CreatedAt, &c.Author.ID, &c.Author.Username, &c.Author.ProfileImage)
	if err != nil {
		return nil, err
	}
	return c, nil
}
