package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/campusfound/lostfound-backend/internal/config"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MaxImageSize caps uploads at 5 MB. The client validates too, but the
// server-side check is the one that counts.
const MaxImageSize = 5 * 1024 * 1024

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var (
	ErrUnsupportedImageType = errors.New("unsupported image format: use JPEG, PNG, WebP or GIF")
	ErrImageTooLarge        = errors.New("image exceeds the 5 MB limit")
)

// ValidateImage enforces the upload constraints independently of any
// client-side checks.
func ValidateImage(contentType string, size int64) error {
	if _, ok := allowedImageTypes[contentType]; !ok {
		return ErrUnsupportedImageType
	}
	if size <= 0 || size > MaxImageSize {
		return ErrImageTooLarge
	}
	return nil
}

// ImageStore uploads report images to a public-read MinIO bucket and hands
// back resolvable URLs.
type ImageStore struct {
	client         *minio.Client
	bucket         string
	publicEndpoint string
	useSSL         bool
}

func NewImageStore(cfg *config.Config) (*ImageStore, error) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	publicEndpoint := strings.TrimSuffix(strings.TrimSpace(cfg.MinIOPublicEndpoint), "/")
	if publicEndpoint == "" {
		publicEndpoint = cfg.MinIOEndpoint
	}

	store := &ImageStore{
		client:         client,
		bucket:         cfg.MinIOBucket,
		publicEndpoint: publicEndpoint,
		useSSL:         cfg.MinIOUseSSL,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, store.bucket)
	if err != nil {
		slog.Warn("could not verify image bucket, continuing", "bucket", store.bucket, "error", err)
		return store, nil
	}
	if !exists {
		if err := client.MakeBucket(ctx, store.bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", store.bucket, err)
		}
		policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Action":["s3:GetObject"],"Effect":"Allow","Principal":{"AWS":["*"]},"Resource":["arn:aws:s3:::%s/*"]}]}`, store.bucket)
		if err := client.SetBucketPolicy(ctx, store.bucket, policy); err != nil {
			slog.Error("failed to set public-read bucket policy", "bucket", store.bucket, "error", err)
		}
	}

	slog.Info("image store initialized", "bucket", store.bucket, "endpoint", cfg.MinIOEndpoint)
	return store, nil
}

// Upload validates and stores an image, returning its public URL.
func (s *ImageStore) Upload(ctx context.Context, reader io.Reader, filename, contentType string, size int64) (string, error) {
	if err := ValidateImage(contentType, size); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = allowedImageTypes[contentType]
	}
	key := fmt.Sprintf("reports/%s%s", uuid.New().String(), ext)

	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "max-age=3600",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	url := s.PublicURL(key)
	slog.Info("image uploaded", "key", key, "size", size)
	return url, nil
}

// PublicURL builds the externally resolvable URL for an object key.
func (s *ImageStore) PublicURL(key string) string {
	if strings.Contains(s.publicEndpoint, "://") {
		return fmt.Sprintf("%s/%s/%s", s.publicEndpoint, s.bucket, key)
	}
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.publicEndpoint, s.bucket, key)
}

// HealthCheck verifies the bucket is reachable.
func (s *ImageStore) HealthCheck(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("image store health check failed: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %q does not exist", s.bucket)
	}
	return nil
}
