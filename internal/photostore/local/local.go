package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vbonduro/stokosor/internal/ident"
	"github.com/vbonduro/stokosor/internal/photostore"
)

// DirStore keeps photos as files in one directory.
type DirStore struct {
	basePath string
	logger   *slog.Logger
}

func NewDirStore(basePath string, logger *slog.Logger) (*DirStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create photo directory: %w", err)
	}
	return &DirStore{basePath: basePath, logger: logger}, nil
}

// Save writes r to a new file named after prefix and a fresh id.
func (s *DirStore) Save(_ context.Context, prefix, mimeType string, r io.Reader) (string, error) {
	key := prefix + "_" + ident.NewID() + extension(mimeType)
	path := filepath.Join(s.basePath, key)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create photo file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		s.discard(path)
		return "", fmt.Errorf("failed to write photo file: %w", err)
	}
	if err := f.Close(); err != nil {
		s.discard(path)
		return "", fmt.Errorf("failed to close photo file: %w", err)
	}
	return key, nil
}

func (s *DirStore) discard(path string) {
	if err := os.Remove(path); err != nil {
		s.logger.Error("failed to remove partial photo", "path", path, "error", err)
	}
}

func (s *DirStore) Get(_ context.Context, storageKey string) (io.ReadCloser, string, error) {
	path, err := s.resolve(storageKey)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", fmt.Errorf("%s: %w", storageKey, photostore.ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to open photo: %w", err)
	}
	return f, mimeType(path), nil
}

func (s *DirStore) Delete(_ context.Context, storageKey string) error {
	path, err := s.resolve(storageKey)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", storageKey, photostore.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}

// resolve maps a key to a path inside basePath, refusing anything that
// would escape it.
func (s *DirStore) resolve(storageKey string) (string, error) {
	base, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("invalid photo directory: %w", err)
	}
	path, err := filepath.Abs(filepath.Join(base, storageKey))
	if err != nil {
		return "", fmt.Errorf("invalid photo key: %w", err)
	}
	if !strings.HasPrefix(path, base+string(filepath.Separator)) {
		return "", fmt.Errorf("photo key %q escapes the photo directory", storageKey)
	}
	return path, nil
}

func extension(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

func mimeType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
