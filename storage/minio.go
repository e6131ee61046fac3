package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"vidarc/config"
	"vidarc/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStorage stores derived media artifacts (thumbnail frames) in MinIO
// and streams them back for serving.
type ObjectStorage struct {
	client *minio.Client
	bucket string
}

// NewObjectStorage connects to MinIO and ensures the bucket exists.
func NewObjectStorage(cfg *config.Config) (*ObjectStorage, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.MinioBucket, err)
		}
		logger.Info("Created MinIO bucket", logger.String("bucket", cfg.MinioBucket))
	}

	return &ObjectStorage{client: client, bucket: cfg.MinioBucket}, nil
}

// PutThumbnail uploads a captured thumbnail frame and returns the path it is
// served from.
func (s *ObjectStorage) PutThumbnail(ctx context.Context, name string, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open thumbnail %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat thumbnail %s: %w", localPath, err)
	}

	objectName := "thumbnails/" + name
	_, err = s.client.PutObject(ctx, s.bucket, objectName, f, info.Size(), minio.PutObjectOptions{
		ContentType: "image/jpeg",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload thumbnail %s: %w", objectName, err)
	}

	return "/media/" + objectName, nil
}

// Open streams a stored object for serving. The caller must close the reader.
func (s *ObjectStorage) Open(ctx context.Context, objectName string) (io.ReadCloser, error) {
	object, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", objectName, err)
	}
	// GetObject is lazy; Stat forces the first request so missing objects
	// surface here instead of mid-stream.
	if _, err := object.Stat(); err != nil {
		object.Close()
		return nil, fmt.Errorf("object %s not available: %w", objectName, err)
	}
	return object, nil
}

// Check verifies connectivity with a small round-trip write.
func (s *ObjectStorage) Check(ctx context.Context) error {
	testObjectName := "test/connection.txt"
	testContent := "MinIO connection verification at " + time.Now().String()

	_, err := s.client.PutObject(ctx, s.bucket, testObjectName,
		strings.NewReader(testContent), int64(len(testContent)),
		minio.PutObjectOptions{ContentType: "text/plain"})
	if err != nil {
		return fmt.Errorf("failed to upload test object: %w", err)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, testObjectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove test object: %w", err)
	}
	return nil
}
