// Package photostore keeps the photo files that places, containers and
// items refer to by storage key.
package photostore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/vbonduro/stokosor/internal/imaging"
)

// ErrNotFound is returned for a storage key with no photo behind it.
var ErrNotFound = errors.New("photo not found")

type PhotoStore interface {
	Save(ctx context.Context, prefix, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
}

// Import normalizes the image read from r and saves it under prefix,
// returning the key to record on the owning entity.
func Import(ctx context.Context, s PhotoStore, prefix string, r io.Reader) (string, error) {
	photo, err := imaging.Process(r)
	if err != nil {
		return "", err
	}
	key, err := s.Save(ctx, prefix, imaging.MIME, bytes.NewReader(photo.Data))
	if err != nil {
		return "", fmt.Errorf("failed to save photo: %w", err)
	}
	return key, nil
}
