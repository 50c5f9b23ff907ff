package gcs

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/go-feed-service/internal/domain/repository"
	"github.com/oksasatya/go-feed-service/pkg/helpers"
)

// BlobStore stores post images in a GCS bucket, keyed by relative object path.
type BlobStore struct {
	Client *storage.Client
	Bucket string
}

func NewBlobStore(client *storage.Client, bucket string) *BlobStore {
	return &BlobStore{Client: client, Bucket: bucket}
}

func (s *BlobStore) Put(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if err := helpers.UploadObject(ctx, s.Client, s.Bucket, objectPath, contentType, r); err != nil {
		return "", err
	}
	return objectPath, nil
}

func (s *BlobStore) Delete(ctx context.Context, objectPath string) error {
	err := helpers.DeleteObject(ctx, s.Client, s.Bucket, objectPath)
	if errors.Is(err, storage.ErrObjectNotExist) {
		// already gone; release is idempotent
		return nil
	}
	return err
}

var _ repository.BlobStore = (*BlobStore)(nil)
