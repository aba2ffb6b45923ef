// Package media stores uploaded images and attaches them to resources.
package media

import (
	"context"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lecturely/backend/internal/apperr"
	"github.com/lecturely/backend/pkg/storage"
)

// ObjectStore is the object storage the uploader writes to. Implemented by storage.S3.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, key, contentType string, body io.Reader, contentLength int64, publicRead bool) (string, error)
	DeleteObject(ctx context.Context, bucket, key string) error
	ImagesBucket() string
}

// Uploader validates and stores images.
type Uploader struct {
	store  ObjectStore
	logger *zap.Logger
}

// NewUploader creates an Uploader.
func NewUploader(store ObjectStore, logger *zap.Logger) *Uploader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Uploader{store: store, logger: logger}
}

// Image is an object written by Store.
type Image struct {
	Key  string
	Link string
}

// Store saves body as images/<targetKey>-<random>.<ext> and returns it. Every
// upload gets its own key, so a failed replacement never touches the image a
// resource already links to. Only the extensions in storage.ImageExtensions
// are accepted.
func (u *Uploader) Store(ctx context.Context, body io.Reader, size int64, originalName, targetKey string) (*Image, error) {
	ext, ok := storage.ImageExtension(originalName)
	if !ok {
		return nil, apperr.Validation("Only image files are allowed.")
	}
	key := storage.ImageKey(targetKey+"-"+uuid.NewString(), ext)
	link, err := u.store.Upload(ctx, u.store.ImagesBucket(), key, storage.ImageExtensions[ext], body, size, true)
	if err != nil {
		u.logger.Error("image upload failed", zap.String("key", key), zap.Error(err))
		return nil, apperr.Dependency("Something happened with the file.", err)
	}
	u.logger.Info("image stored", zap.String("key", key), zap.Int64("size", size))
	return &Image{Key: key, Link: link}, nil
}

// Discard removes an image written by Store whose link could not be attached.
func (u *Uploader) Discard(ctx context.Context, img *Image) {
	if err := u.store.DeleteObject(ctx, u.store.ImagesBucket(), img.Key); err != nil {
		u.logger.Warn("orphaned image left in bucket", zap.String("key", img.Key), zap.Error(err))
	}
}
