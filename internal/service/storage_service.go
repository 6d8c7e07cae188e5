package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/ozodbekAI/service/internal/config"
	"go.uber.org/zap"
)

// StorageService uploads announcement and product images to MinIO. A nil
// client disables object storage; uploads then fail with a validation
// error instead of panicking.
type StorageService struct {
	client *minio.Client
	cfg    config.MinIOConfig
	logger *zap.Logger
}

func NewStorageService(client *minio.Client, cfg config.MinIOConfig, logger *zap.Logger) *StorageService {
	return &StorageService{client: client, cfg: cfg, logger: logger}
}

// EnsureBucket creates the configured bucket when it does not exist yet.
func (s *StorageService) EnsureBucket(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket: %w", err)
	}
	s.logger.Info("created storage bucket", zap.String("bucket", s.cfg.Bucket))
	return nil
}

// Upload stores a file under a date-partitioned object name and returns
// the public URL.
func (s *StorageService) Upload(ctx context.Context, prefix, fileName string, reader io.Reader, fileSize int64, contentType string) (string, error) {
	if s.client == nil {
		return "", validation("Object storage is not configured")
	}

	objectName := fmt.Sprintf("%s/%s/%s%s",
		prefix, time.Now().Format("2006/01/02"), uuid.New().String()[:8], filepath.Ext(fileName))

	_, err := s.client.PutObject(ctx, s.cfg.Bucket, objectName, reader, fileSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload file: %w", err)
	}

	scheme := "http"
	if s.cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.Endpoint, s.cfg.Bucket, objectName), nil
}
