package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vbonduro/stokosor/internal/domain"
)

const placeColumns = `id, name, address, photo, created_at, updated_at`

type PlaceStore struct {
	db DBTX
}

func NewPlaceStore(db DBTX) *PlaceStore {
	return &PlaceStore{db: db}
}

func (s *PlaceStore) Insert(ctx context.Context, p domain.Place) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO places (`+placeColumns+`) VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Address, p.Photo, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create place: %w", err)
	}
	return nil
}

// GetByID returns nil when no place has the id.
func (s *PlaceStore) GetByID(ctx context.Context, id string) (*domain.Place, error) {
	p, err := scanPlace(s.db.QueryRowContext(ctx, `
		SELECT `+placeColumns+` FROM places WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get place: %w", err)
	}
	return &p, nil
}

func (s *PlaceStore) List(ctx context.Context, order Order) ([]domain.Place, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+placeColumns+` FROM places `+order.clause())
	if err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	return collect(rows, "place", scanPlace)
}

func (s *PlaceStore) Update(ctx context.Context, id string, patch domain.PlacePatch, updatedAt string) error {
	var a assignments
	setOpt(&a, "name", patch.Name)
	setOpt(&a, "address", patch.Address)
	setOpt(&a, "photo", patch.Photo)
	return update(ctx, s.db, "places", id, a, updatedAt)
}

// Delete removes the place; the schema cascades to its zones.
func (s *PlaceStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db, "places", id)
}

func (s *PlaceStore) DeleteAll(ctx context.Context) error {
	return deleteAll(ctx, s.db, "places")
}

func scanPlace(row rowScanner) (domain.Place, error) {
	var p domain.Place
	var address, photo sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &address, &photo, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return domain.Place{}, err
	}
	p.Address = stringPtr(address)
	p.Photo = stringPtr(photo)
	return p, nil
}
