package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vbonduro/stokosor/internal/hierarchy"
	"github.com/vbonduro/stokosor/internal/photostore"
	"github.com/vbonduro/stokosor/internal/photostore/local"
)

func (a *app) photoStore() (photostore.PhotoStore, error) {
	return local.NewDirStore(a.cfg.PhotoPath, a.logger)
}

func newPhotoCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "photo KEY",
		Short: "Write a stored photo to a file or stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			photos, err := a.photoStore()
			if err != nil {
				return err
			}
			rc, _, err := photos.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer func() { _ = rc.Close() }()

			if out == "" || out == "-" {
				_, err = io.Copy(cmd.OutOrStdout(), rc)
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			if _, err := io.Copy(f, rc); err != nil {
				_ = f.Close()
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", `output file ("-" for stdout)`)
	return cmd
}

// attachPhoto stores the image at path and passes its key to save. When
// save fails the stored file is removed again.
func (a *app) attachPhoto(ctx context.Context, prefix, path string, save func(key string) error) error {
	photos, err := a.photoStore()
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open photo: %w", err)
	}
	defer func() { _ = f.Close() }()

	key, err := photostore.Import(ctx, photos, prefix, f)
	if err != nil {
		return err
	}
	if err := save(key); err != nil {
		a.dropPhotos(ctx, key)
		return err
	}
	return nil
}

// dropPhotos deletes stored photos that no row refers to any more. The rows
// are already gone, so failures are only logged.
func (a *app) dropPhotos(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	photos, err := a.photoStore()
	if err != nil {
		a.logger.Warn("failed to open photo store", "error", err)
		return
	}
	for _, key := range keys {
		if err := photos.Delete(ctx, key); err != nil && !errors.Is(err, photostore.ErrNotFound) {
			a.logger.Warn("failed to delete photo", "key", key, "error", err)
			continue
		}
		a.logger.Debug("photo deleted", "key", key)
	}
}

// The collectors below read the caches, so they must run before the delete
// that cascades over the rows they describe.

func (a *app) placePhotos(placeID string) []string {
	var keys []string
	if p, ok := a.places.ByID(placeID); ok && p.Photo != nil {
		keys = append(keys, *p.Photo)
	}
	for _, z := range a.zones.ByPlace(placeID) {
		keys = append(keys, a.zonePhotos(z.ID)...)
	}
	return keys
}

func (a *app) zonePhotos(zoneID string) []string {
	var ids []string
	for _, c := range a.containers.ByZone(zoneID) {
		ids = append(ids, c.ID)
	}
	return a.containerPhotos(ids...)
}

// subtreePhotos covers id, every container nested in it and their items.
func (a *app) subtreePhotos(id string) []string {
	ids := []string{id}
	for _, c := range hierarchy.NewResolver(a.containers).Descendants(id) {
		ids = append(ids, c.ID)
	}
	return a.containerPhotos(ids...)
}

func (a *app) containerPhotos(ids ...string) []string {
	var keys []string
	for _, id := range ids {
		if c, ok := a.containers.ByID(id); ok && c.Photo != nil {
			keys = append(keys, *c.Photo)
		}
		for _, it := range a.items.ByContainer(id) {
			keys = append(keys, it.Photos...)
		}
	}
	return keys
}
