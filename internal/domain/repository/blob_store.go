package repository

import (
	"context"
	"io"
)

// BlobStore is the binary storage for post images, keyed by relative object
// path. Delete is allowed to fail on an already-absent object; callers treat
// release as best-effort.
type BlobStore interface {
	Put(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, objectPath string) error
}
