package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finchlabs/finch/internal/domain/entity"
	"github.com/finchlabs/finch/internal/domain/repository"
)

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

const commentColumns = `c.id, c.body, c.body_html, c.author_id, c.post_id, c.disabled, c.created_at, u.username, u.avatar_url`

func (r *CommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO comments (id, body, body_html, author_id, post_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING disabled, created_at
	`, c.ID, c.Body, c.BodyHTML, c.AuthorID, c.PostID)
	return row.Scan(&c.Disabled, &c.CreatedAt)
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	c, err := scanComment(r.pool.QueryRow(ctx, `
		SELECT `+commentColumns+`
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// SetDisabled writes the flag unconditionally; writing the current value
// again affects the same row and stays a no-op for callers.
func (r *CommentRepository) SetDisabled(ctx context.Context, id string, disabled bool) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE comments SET disabled = $1 WHERE id = $2
	`, disabled, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID string, includeDisabled bool, limit, offset int) ([]entity.Comment, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM comments
		WHERE post_id = $1 AND (NOT disabled OR $2)
	`, postID, includeDisabled).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+commentColumns+`
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1 AND (NOT c.disabled OR $2)
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT $3 OFFSET $4
	`, postID, includeDisabled, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var comments []entity.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func scanComment(row pgx.Row) (*entity.Comment, error) {
	c := &entity.Comment{Author: &entity.User{}}
	if err := row.Scan(
		&c.ID, &c.Body, &c.BodyHTML, &c.AuthorID, &c.PostID, &c.Disabled, &c.CreatedAt,
		&c.Author.Username, &c.Author.AvatarURL,
	); err != nil {
		return nil, err
	}
	c.Author.ID = c.AuthorID
	return c, nil
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
