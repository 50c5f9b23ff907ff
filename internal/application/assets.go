package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-feed-service/internal/domain/repository"
)

// AssetManager ties image blobs to post records. The ordering rule it exists
// for: a blob referenced by a live post row is never deleted; release happens
// only after the row no longer references the path. A crash between the row
// write and the release leaves an unreferenced blob, which is a recoverable
// leak; the reverse order would leave a post pointing at nothing.
type AssetManager struct {
	Blobs  repository.BlobStore
	Logger *logrus.Logger
}

func NewAssetManager(blobs repository.BlobStore, logger *logrus.Logger) *AssetManager {
	return &AssetManager{Blobs: blobs, Logger: logger}
}

// Attach normalizes a storage-provided path into the externally servable
// canonical form. The blob itself is uploaded at the transport edge before
// the coordinator runs.
func (m *AssetManager) Attach(objectPath string) string {
	return CanonicalPath(objectPath)
}

// Swap canonicalizes the replacement path and releases the old blob. Callers
// invoke it only after the post record has been durably updated with the new
// path.
func (m *AssetManager) Swap(ctx context.Context, oldPath, newPath string) string {
	canonical := CanonicalPath(newPath)
	if oldPath != "" && oldPath != canonical {
		m.Release(ctx, oldPath)
	}
	return canonical
}

// Release best-effort deletes the blob. Failures (including already-absent
// objects) are logged and swallowed; asset release never fails the caller.
func (m *AssetManager) Release(ctx context.Context, objectPath string) {
	if objectPath == "" {
		return
	}
	if err := m.Blobs.Delete(ctx, objectPath); err != nil {
		if m.Logger != nil {
			m.Logger.WithError(err).WithField("object", objectPath).Warn("asset release failed")
		}
	}
}

// CanonicalPath normalizes path separators so stored paths are servable
// regardless of the uploading host's OS.
func CanonicalPath(objectPath string) string {
	return strings.ReplaceAll(objectPath, "\\", "/")
}
