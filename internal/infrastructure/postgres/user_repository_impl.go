package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-feed-service/internal/domain/entity"
	"github.com/oksasatya/go-feed-service/internal/domain/repository"
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, status)
		VALUES ($1, $2, $3, COALESCE(NULLIF($4, ''), 'I am new!'))
		RETURNING id, status, created_at, updated_at
	`, u.Email, u.Password, u.Name, u.Status)

	if err := row.Scan(&u.ID, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepository) getBy(ctx context.Context, column, value string) (*entity.User, error) {
	u := &entity.User{}

	row := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, name, status, created_at, updated_at
		FROM users
		WHERE `+column+` = $1
	`, value)

	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.Status,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return u, nil
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET status = $1, updated_at = now()
		WHERE id = $2
	`, status, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) AppendPost(ctx context.Context, userID, postID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_posts (user_id, post_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, post_id) DO NOTHING
	`, userID, postID)
	return err
}

func (r *UserRepository) RemovePost(ctx context.Context, userID, postID string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM user_posts
		WHERE user_id = $1 AND post_id = $2
	`, userID, postID)
	return err
}

func (r *UserRepository) PostIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT post_id
		FROM user_posts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var _ repository.UserRepository = (*UserRepository)(nil)
