package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/tripwise/tripmedia/config"
)

// MinioStorage implements StorageClient against any S3 compatible backend.
type MinioStorage struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
	presignExpiry time.Duration
	logger        *zap.Logger
}

// NewMinioStorage connects to the configured S3 endpoint and ensures the media
// bucket exists.
func NewMinioStorage(cfg config.AppConfig, log *zap.Logger) (*MinioStorage, error) {
	client, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
		Region: cfg.StorageRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.StorageBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.StorageBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.StorageBucket, minio.MakeBucketOptions{Region: cfg.StorageRegion}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", cfg.StorageBucket, err)
		}
		log.Info("created media bucket", zap.String("bucket", cfg.StorageBucket))
	}

	log.Info("storage client initialized",
		zap.String("endpoint", cfg.StorageEndpoint),
		zap.String("bucket", cfg.StorageBucket),
	)

	return &MinioStorage{
		client:        client,
		bucket:        cfg.StorageBucket,
		publicBaseURL: strings.TrimRight(cfg.StoragePublicBaseURL, "/"),
		presignExpiry: time.Duration(cfg.PresignExpiryMinutes) * time.Minute,
		logger:        log,
	}, nil
}

// PresignPut signs a PUT for the given key. Content-Type is part of the
// signature, so the returned headers instruct the client to send it verbatim.
func (s *MinioStorage) PresignPut(ctx context.Context, key, contentType string, sizeBytes int64) (PresignedPut, error) {
	if key == "" {
		return PresignedPut{}, fmt.Errorf("%w: empty storage key", ErrInvalidRequest)
	}
	if sizeBytes <= 0 {
		return PresignedPut{}, fmt.Errorf("%w: non-positive size %d", ErrInvalidRequest, sizeBytes)
	}

	signed := http.Header{}
	signed.Set("Content-Type", contentType)

	u, err := s.client.PresignHeader(ctx, http.MethodPut, s.bucket, key, s.presignExpiry, nil, signed)
	if err != nil {
		return PresignedPut{}, fmt.Errorf("presign put for %q: %w", key, err)
	}

	return PresignedPut{
		StorageKey: key,
		URL:        u.String(),
		Headers:    map[string]string{"Content-Type": contentType},
	}, nil
}

// DeleteObject removes the object; S3 delete is a no-op for missing keys.
func (s *MinioStorage) DeleteObject(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object %q: %w", key, err)
	}
	return nil
}

// PublicURL derives the CDN address for a key, or "" when no public base is set.
func (s *MinioStorage) PublicURL(key string) string {
	if s.publicBaseURL == "" {
		return ""
	}
	return s.publicBaseURL + "/" + key
}
