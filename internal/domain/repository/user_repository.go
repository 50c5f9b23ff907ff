package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-feed-service/internal/domain/entity"
)

// Storage-level sentinels. The application layer translates these into its
// user-facing error taxonomy.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository defines the interface for user-related database operations.
// AppendPost/RemovePost maintain the user's owned-post set; they are invoked
// explicitly by the post coordinator, never as a storage-side cascade.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateStatus(ctx context.Context, id, status string) error
	AppendPost(ctx context.Context, userID, postID string) error
	RemovePost(ctx context.Context, userID, postID string) error
	PostIDs(ctx context.Context, userID string) ([]string, error)
}
