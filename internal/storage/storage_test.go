// AngelaMos | 2026
// storage_test.go

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/recipebox/internal/config"
)

func configWithBackend(backend string) config.StorageConfig {
	return config.StorageConfig{
		Backend:  backend,
		LocalDir: "uploads",
	}
}

func TestNew_LocalBackend(t *testing.T) {
	store, err := New(config.StorageConfig{
		Backend:  "local",
		LocalDir: t.TempDir(),
	})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, store)
}

func TestNew_MinioBackendRequiresEndpoint(t *testing.T) {
	_, err := New(config.StorageConfig{
		Backend: "minio",
		Minio: config.MinioConfig{
			AccessKey: "key",
			SecretKey: "secret",
			Bucket:    "recipebox",
		},
	})
	assert.Error(t, err)
}
