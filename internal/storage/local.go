package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"tactac/internal/middleware"
)

// LocalStorage keeps objects on disk under basePath and serves them below publicBase.
type LocalStorage struct {
	basePath   string
	publicBase string
}

// NewLocalStorage creates basePath if needed.
func NewLocalStorage(basePath, publicBase string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if publicBase == "" {
		publicBase = "/uploads"
	}
	return &LocalStorage{basePath: basePath, publicBase: publicBase}, nil
}

// Dir is the directory the server exposes as static files.
func (s *LocalStorage) Dir() string {
	return s.basePath
}

// MountPath is the URL path the files are served under.
func (s *LocalStorage) MountPath() string {
	u, err := url.Parse(s.publicBase)
	if err != nil || u.Path == "" {
		return "/uploads"
	}
	return u.Path
}

func (s *LocalStorage) Put(ctx context.Context, key string, data []byte, _ string) (string, error) {
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	middleware.Logger.DebugContext(ctx, "stored upload", slog.String("path", fullPath), slog.Int("bytes", len(data)))
	return s.publicBase + "/" + key, nil
}

// Delete removes the file behind url. A file that is already gone is not an error.
func (s *LocalStorage) Delete(_ context.Context, objectURL string) error {
	key, err := keyFromURL(objectURL, s.publicBase+"/")
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.basePath, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}
