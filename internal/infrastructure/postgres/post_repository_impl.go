package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-feed-service/internal/domain/entity"
	"github.com/oksasatya/go-feed-service/internal/domain/repository"
)

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func (r *PostRepository) Insert(ctx context.Context, p *entity.Post) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO posts (title, content, image_url, creator)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, p.Title, p.Content, p.ImageURL, p.Creator)

	return row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	p := &entity.Post{}

	row := r.pool.QueryRow(ctx, `
		SELECT id, title, content, image_url, creator, created_at, updated_at
		FROM posts
		WHERE id = $1
	`, id)

	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.ImageURL, &p.Creator,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return p, nil
}

func (r *PostRepository) Update(ctx context.Context, p *entity.Post) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE posts
		SET title = $1, content = $2, image_url = $3, updated_at = now()
		WHERE id = $4
		RETURNING updated_at
	`, p.Title, p.Content, p.ImageURL, p.ID)

	if err := row.Scan(&p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

// Delete removes the post row. Exactly one of two concurrent deletes for the
// same id observes RowsAffected == 1; the other gets ErrNotFound.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM posts
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostRepository) ListPage(ctx context.Context, offset, limit int) ([]entity.Post, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, content, image_url, creator, created_at, updated_at
		FROM posts
		ORDER BY created_at DESC, id DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]entity.Post, 0, limit)
	for rows.Next() {
		var p entity.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.ImageURL, &p.Creator,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *PostRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM posts`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
