// Package storage holds the object stores that keep uploaded image bytes.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tactac/internal/config"
)

// ErrForeignURL is returned by Delete when the URL does not belong to the store.
var ErrForeignURL = errors.New("url does not belong to this store")

// Store persists objects and hands back their public URL.
type Store interface {
	// Put writes data under key and returns the URL clients fetch it from.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Delete removes the object previously returned by Put.
	Delete(ctx context.Context, url string) error
}

// New builds the backend selected by cfg.StorageBackend.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageBackend {
	case "local", "":
		return NewLocalStorage(cfg.UploadDir, cfg.PublicBaseURL)
	case "s3":
		return NewS3Client(cfg.S3Region, cfg.S3Bucket)
	case "gcs":
		return NewGCSClient(ctx, cfg.GCSProjectID, cfg.GCSBucket, cfg.GCSCredentialsFile)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}
}

// keyFromURL strips prefix from url, returning ErrForeignURL when it does not match.
func keyFromURL(url, prefix string) (string, error) {
	if !strings.HasPrefix(url, prefix) {
		return "", ErrForeignURL
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" || strings.Contains(key, "..") {
		return "", ErrForeignURL
	}
	return key, nil
}
