// Package storage provides object storage for movie posters.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/cinelog/cinelog/internal/config"
	"github.com/cinelog/cinelog/internal/logger"
)

// PosterStore stores poster images in a MinIO-compatible object store,
// keyed by object path. The relational catalog only holds the key.
type PosterStore struct {
	client *minio.Client
	bucket string
}

// ErrNotConfigured is returned by NewPosterStore when no endpoint is set.
var ErrNotConfigured = fmt.Errorf("poster storage is not configured")

// NewPosterStore connects to the object store and ensures the poster bucket
// exists.
func NewPosterStore(ctx context.Context, cfg *config.StorageConfig) (*PosterStore, error) {
	if cfg.Endpoint == "" {
		return nil, ErrNotConfigured
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize poster storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check poster bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create poster bucket: %w", err)
		}
	}

	return &PosterStore{client: client, bucket: cfg.Bucket}, nil
}

// ObjectKey builds the storage key for a movie's poster, keeping uploads for
// different movies apart and successive uploads for one movie distinct.
func ObjectKey(movieID uint32, filename string) string {
	return fmt.Sprintf("posters/%d/%s%s", movieID, uuid.NewString(), path.Ext(filename))
}

// Put uploads a poster object.
func (s *PosterStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to store poster %s: %w", key, err)
	}
	return nil
}

// Remove deletes a poster object. A missing object is not an error: poster
// cleanup is idempotent, so removal after the fact must succeed quietly.
// Other storage failures are logged and swallowed, never failing the
// catalog operation that triggered the cleanup.
func (s *PosterStore) Remove(ctx context.Context, key string) {
	if key == "" {
		return
	}

	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err == nil {
		return
	}
	if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
		return
	}
	logger.Warn("poster cleanup failed",
		logger.String("object_key", key),
		logger.Err(err),
	)
}
