// Package storage uploads user images to an S3-compatible object store.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"strings"

	// Decoders for the accepted upload formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"gardencircle/internal/config"
	"gardencircle/internal/models"
	"gardencircle/internal/observability"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const maxImageBytes = 10 << 20 // 10 MiB

// Store is the image storage surface handlers depend on.
type Store interface {
	UploadImage(ctx context.Context, fileName string, file io.Reader, size int64) (string, error)
	DeleteImage(ctx context.Context, objectName string) error
}

// MinioStore stores images in a MinIO (or any S3-compatible) bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore connects to the object store and makes sure the bucket exists.
func NewMinioStore(ctx context.Context, cfg *config.Config) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to object store: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &MinioStore{client: client, bucket: cfg.MinioBucket}, nil
}

var contentTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// UploadImage validates the payload is a real image, then stores it under a
// random object name. Returns the object path to persist on the post or
// profile.
func (s *MinioStore) UploadImage(ctx context.Context, fileName string, file io.Reader, size int64) (string, error) {
	if size <= 0 || size > maxImageBytes {
		return "", models.NewValidationError("Image must be between 1 byte and 10 MB")
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		observability.ImageUploads.WithLabelValues("error").Inc()
		return "", models.NewInternalError(err)
	}
	if int64(len(data)) > maxImageBytes {
		return "", models.NewValidationError("Image must be between 1 byte and 10 MB")
	}

	// DecodeConfig reads only the header, so oversized dimensions or
	// non-image payloads are rejected without decoding pixels.
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		observability.ImageUploads.WithLabelValues("rejected").Inc()
		return "", models.NewValidationError("File is not a supported image (jpeg, png, gif, webp)")
	}
	contentType, ok := contentTypes[format]
	if !ok {
		observability.ImageUploads.WithLabelValues("rejected").Inc()
		return "", models.NewValidationError("File is not a supported image (jpeg, png, gif, webp)")
	}

	objectName := fmt.Sprintf("images/%s.%s", uuid.New().String(), format)
	_, err = s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": fileName,
			},
		})
	if err != nil {
		observability.ImageUploads.WithLabelValues("error").Inc()
		return "", models.NewInternalError(fmt.Errorf("upload image: %w", err))
	}

	observability.ImageUploads.WithLabelValues("ok").Inc()
	return "/" + strings.TrimPrefix(objectName, "/"), nil
}

func (s *MinioStore) DeleteImage(ctx context.Context, objectName string) error {
	objectName = strings.TrimPrefix(objectName, "/")
	if objectName == "" {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return models.NewInternalError(fmt.Errorf("delete image: %w", err))
	}
	return nil
}
