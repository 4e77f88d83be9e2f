// AngelaMos | 2026
// storage.go

package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/angelamos/recipebox/internal/config"
)

// ObjectStorage is where uploaded recipe images live. Keys are
// slash-separated paths like "uploads/recipe/<uuid>.png".
type ObjectStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// New builds the backend selected by config: "minio" for S3-compatible
// object storage, "local" for an on-disk directory.
func New(cfg config.StorageConfig) (ObjectStorage, error) {
	switch cfg.Backend {
	case "minio":
		return NewMinioStorage(cfg.Minio)
	case "local":
		return NewLocalStorage(cfg.LocalDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
