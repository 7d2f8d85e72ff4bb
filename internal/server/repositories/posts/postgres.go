package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

const postColumns = `id, author_id, title, content, view_count, created_at, updated_at`

const summarySelect = `
	SELECT p.id, p.title, p.content, p.view_count, p.created_at, p.updated_at,
	       u.id, u.username, u.profile_image,
	       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id),
	       (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id)
	FROM posts p
	JOIN users u ON u.id = p.author_id
`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, authorID, title, content string) (*models.Post, error) {
	query :=
		`INSERT INTO posts (author_id, title, content)
		 VALUES ($1, $2, $3)
		 RETURNING ` + postColumns

	return scanPost(r.db.QueryRowContext(ctx, query, authorID, title, content))
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	return scanPost(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) FindDetail(ctx context.Context, id string) (*models.PostDetail, error) {
	query := summarySelect + ` WHERE p.id = $1`

	s, err := scanSummary(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &models.PostDetail{
		ID:           s.ID,
		Title:        s.Title,
		Content:      s.Content,
		ViewCount:    s.ViewCount,
		CommentCount: s.CommentCount,
		LikeCount:    s.LikeCount,
		Author:       *s.Author,
		Comments:     []models.CommentWithAuthor{},
		Likes:        []models.LikeWithUser{},
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}, nil
}

func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]models.PostSummary, error) {
	query := summarySelect + ` ORDER BY p.created_at DESC LIMIT $1 OFFSET $2`
	return r.listSummaries(ctx, query, limit, offset)
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM posts`)
}

func (r *PostgresRepository) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]models.PostSummary, error) {
	query := summarySelect + ` WHERE p.author_id = $1 ORDER BY p.created_at DESC LIMIT $2 OFFSET $3`
	return r.listSummaries(ctx, query, authorID, limit, offset)
}

func (r *PostgresRepository) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM posts WHERE author_id = $1`, authorID)
}

func (r *PostgresRepository) Update(ctx context.Context, id string, title, content *string) (*models.Post, error) {
	query :=
		`UPDATE posts
		 SET title = COALESCE($2, title),
		     content = COALESCE($3, content),
		     updated_at = now()
		 WHERE id = $1
		 RETURNING ` + postColumns

	return scanPost(r.db.QueryRowContext(ctx, query, id, title, content))
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, `DELETE FROM posts WHERE id = $1`, id)
}

func (r *PostgresRepository) IncrementViewCount(ctx context.Context, id string) error {
	return r.execOne(ctx, `UPDATE posts SET view_count = view_count + 1 WHERE id = $1`, id)
}

func (r *PostgresRepository) IsOwner(ctx context.Context, postID, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1 AND author_id = $2)`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

func (r *PostgresRepository) listSummaries(ctx context.Context, query string, args ...any) ([]models.PostSummary, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.PostSummary, 0)
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
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

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*models.Post, error) {
	p := &models.Post{}
	err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.ViewCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func scanSummary(row scanner) (*models.PostSummary, error) {
	s := &models.PostSummary{Author: &models.Author{}}
	err := row.Scan(&s.ID, &s.Title, &s.Content, &s.ViewCount, &s.CreatedAt, &s.UpdatedAt,
		&s.Author.ID, &s.Author.Username, &s.Author.ProfileImage,
		&s.CommentCount, &s.LikeCount)
	if err != nil {
		return nil, err
	}
	return s, nil
}
