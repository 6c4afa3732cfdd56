package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vbonduro/stokosor/internal/domain"
)

const zoneColumns = `id, place_id, name, icon, created_at, updated_at`

type ZoneStore struct {
	db DBTX
}

func NewZoneStore(db DBTX) *ZoneStore {
	return &ZoneStore{db: db}
}

func (s *ZoneStore) Insert(ctx context.Context, z domain.Zone) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO zones (`+zoneColumns+`) VALUES (?, ?, ?, ?, ?, ?)
	`, z.ID, z.PlaceID, z.Name, z.Icon, z.CreatedAt, z.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create zone: %w", err)
	}
	return nil
}

func (s *ZoneStore) GetByID(ctx context.Context, id string) (*domain.Zone, error) {
	z, err := scanZone(s.db.QueryRowContext(ctx, `
		SELECT `+zoneColumns+` FROM zones WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get zone: %w", err)
	}
	return &z, nil
}

func (s *ZoneStore) List(ctx context.Context, order Order) ([]domain.Zone, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+zoneColumns+` FROM zones `+order.clause())
	if err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}
	return collect(rows, "zone", scanZone)
}

func (s *ZoneStore) ListByPlace(ctx context.Context, placeID string) ([]domain.Zone, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+zoneColumns+` FROM zones WHERE place_id = ? `+ByRecent.clause(), placeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}
	return collect(rows, "zone", scanZone)
}

func (s *ZoneStore) Update(ctx context.Context, id string, patch domain.ZonePatch, updatedAt string) error {
	var a assignments
	setOpt(&a, "name", patch.Name)
	setOpt(&a, "icon", patch.Icon)
	return update(ctx, s.db, "zones", id, a, updatedAt)
}

// Delete removes the zone; the schema cascades to its containers.
func (s *ZoneStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db, "zones", id)
}

func (s *ZoneStore) DeleteAll(ctx context.Context) error {
	return deleteAll(ctx, s.db, "zones")
}

func scanZone(row rowScanner) (domain.Zone, error) {
	var z domain.Zone
	var icon sql.NullString
	if err := row.Scan(&z.ID, &z.PlaceID, &z.Name, &icon, &z.CreatedAt, &z.UpdatedAt); err != nil {
		return domain.Zone{}, err
	}
	z.Icon = stringPtr(icon)
	return z, nil
}
