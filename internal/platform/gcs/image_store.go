package gcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/kathalab/lesson-api/internal/config"
	"github.com/kathalab/lesson-api/internal/platform/logger"
	"google.golang.org/api/option"
)

// ErrNoBucket is returned when an ImageStore is built without a bucket name.
var ErrNoBucket = errors.New("gcs: bucket name is required")

const defaultUploadTimeout = 2 * time.Minute

// ObjectWriterFactory opens a writer for a single object. The returned writer
// must be closed for the upload to be committed.
type ObjectWriterFactory interface {
	NewWriter(ctx context.Context, bucket, key, contentType string) io.WriteCloser
}

// bucketWriters adapts *storage.Client to ObjectWriterFactory.
type bucketWriters struct {
	client *storage.Client
}

func (b bucketWriters) NewWriter(ctx context.Context, bucket, key, contentType string) io.WriteCloser {
	w := b.client.Bucket(bucket).Object(key).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	return w
}

// NewClient creates a Cloud Storage client with read/write scope using
// application default credentials.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*storage.Client, error) {
	client, err := storage.NewClient(ctx, append(opts, option.WithScopes(storage.ScopeReadWrite))...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return client, nil
}

// ImageStore uploads illustration bytes to a bucket.
type ImageStore struct {
	writers       ObjectWriterFactory
	bucket        string
	publicBaseURL string
	timeout       time.Duration
	logger        *slog.Logger
}

// NewImageStore builds an ImageStore on top of a storage client.
func NewImageStore(client *storage.Client, cfg config.StorageConfig, logger *slog.Logger) (*ImageStore, error) {
	if client == nil {
		return nil, errors.New("gcs: storage client cannot be nil")
	}
	return NewImageStoreWithWriters(bucketWriters{client: client}, cfg, logger)
}

// NewImageStoreWithWriters builds an ImageStore on an arbitrary writer factory.
func NewImageStoreWithWriters(
	writers ObjectWriterFactory,
	cfg config.StorageConfig,
	logger *slog.Logger,
) (*ImageStore, error) {
	if writers == nil {
		return nil, errors.New("gcs: writer factory cannot be nil")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, ErrNoBucket
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageStore{
		writers:       writers,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/"),
		timeout:       defaultUploadTimeout,
		logger:        logger.With(slog.String("component", "gcs_image_store")),
	}, nil
}

// Upload writes data under key and returns the object's public URL.
func (s *ImageStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return "", errors.New("gcs: object key is required")
	}
	if len(data) == 0 {
		return "", errors.New("gcs: refusing to upload an empty object")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	w := s.writers.NewWriter(ctx, s.bucket, key, contentType)
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		log.Error("failed to write illustration",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		log.Error("failed to commit illustration",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}

	log.Debug("illustration uploaded",
		slog.String("key", key),
		slog.Int("bytes", len(data)))
	return s.PublicURL(key), nil
}

// PublicURL returns the URL an uploaded object is served from.
func (s *ImageStore) PublicURL(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if s.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s", s.publicBaseURL, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key)
}
