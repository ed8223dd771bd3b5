package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finchlabs/finch/internal/domain/entity"
	"github.com/finchlabs/finch/internal/domain/repository"
)

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

const postColumns = `p.id, p.body, p.body_html, p.author_id, p.created_at, p.updated_at, u.username, u.avatar_url`

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO posts (id, body, body_html, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, p.ID, p.Body, p.BodyHTML, p.AuthorID)
	return row.Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	p, err := scanPost(r.pool.QueryRow(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PostRepository) Update(ctx context.Context, p *entity.Post) error {
	p.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE posts SET body = $1, body_html = $2, updated_at = $3 WHERE id = $4
	`, p.Body, p.BodyHTML, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostRepository) ListAll(ctx context.Context, limit, offset int) ([]entity.Post, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	posts, err := scanPosts(rows)
	return posts, total, err
}

// ListFollowed is the personalized feed: posts joined to the viewer's follow
// edges on followed-id = author-id. One query regardless of how many users
// the viewer follows; the self edge brings in the viewer's own posts.
func (r *PostRepository) ListFollowed(ctx context.Context, viewerID string, limit, offset int) ([]entity.Post, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM posts p
		JOIN follows f ON f.followed_id = p.author_id
		WHERE f.follower_id = $1
	`, viewerID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN follows f ON f.followed_id = p.author_id
		JOIN users u ON u.id = p.author_id
		WHERE f.follower_id = $1
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`, viewerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	posts, err := scanPosts(rows)
	return posts, total, err
}

func (r *PostRepository) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]entity.Post, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE author_id = $1`, authorID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.author_id = $1
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`, authorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	posts, err := scanPosts(rows)
	return posts, total, err
}

func scanPost(row pgx.Row) (*entity.Post, error) {
	p := &entity.Post{Author: &entity.User{}}
	if err := row.Scan(
		&p.ID, &p.Body, &p.BodyHTML, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt,
		&p.Author.Username, &p.Author.AvatarURL,
	); err != nil {
		return nil, err
	}
	p.Author.ID = p.AuthorID
	return p, nil
}

func scanPosts(rows pgx.Rows) ([]entity.Post, error) {
	var posts []entity.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
