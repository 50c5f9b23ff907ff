package repository

import (
	"context"

	"github.com/oksasatya/go-feed-service/internal/domain/entity"
)

// PostRepository defines the interface for post-related database operations.
// ListPage orders by creation time descending with the id as a tiebreak so
// that repeated reads with no intervening writes return identical pages.
type PostRepository interface {
	Insert(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	Update(ctx context.Context, p *entity.Post) error
	Delete(ctx context.Context, id string) error
	ListPage(ctx context.Context, offset, limit int) ([]entity.Post, error)
	Count(ctx context.Context) (int, error)
}
