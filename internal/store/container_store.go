package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vbonduro/stokosor/internal/domain"
)

const containerColumns = `id, zone_id, parent_container_id, name, type, qr_code, photo, created_at, updated_at`

// MaxDepth bounds every walk up the container chain.
const MaxDepth = 64

type ContainerStore struct {
	db DBTX
}

func NewContainerStore(db DBTX) *ContainerStore {
	return &ContainerStore{db: db}
}

func (s *ContainerStore) Insert(ctx context.Context, c domain.Container) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO containers (`+containerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.ZoneID, c.ParentID, c.Name, string(c.Type), c.QRCode, c.Photo, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}
	return nil
}

func (s *ContainerStore) GetByID(ctx context.Context, id string) (*domain.Container, error) {
	return s.getOne(ctx, "id", id)
}

func (s *ContainerStore) GetByQRCode(ctx context.Context, code string) (*domain.Container, error) {
	return s.getOne(ctx, "qr_code", code)
}

func (s *ContainerStore) getOne(ctx context.Context, column, value string) (*domain.Container, error) {
	c, err := scanContainer(s.db.QueryRowContext(ctx, `
		SELECT `+containerColumns+` FROM containers WHERE `+column+` = ?
	`, value))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get container: %w", err)
	}
	return &c, nil
}

func (s *ContainerStore) List(ctx context.Context, order Order) ([]domain.Container, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+containerColumns+` FROM containers `+order.clause())
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}
	return collect(rows, "container", scanContainer)
}

func (s *ContainerStore) ListByZone(ctx context.Context, zoneID string) ([]domain.Container, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+containerColumns+` FROM containers WHERE zone_id = ? `+ByRecent.clause(), zoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}
	return collect(rows, "container", scanContainer)
}

// Lineage returns id followed by its ancestors, nearest first. The walk
// stops after MaxDepth steps so a corrupted chain cannot loop forever.
func (s *ContainerStore) Lineage(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		WITH RECURSIVE lineage(id, parent_id, depth) AS (
			SELECT id, parent_container_id, 0 FROM containers WHERE id = ?
			UNION ALL
			SELECT c.id, c.parent_container_id, l.depth + 1
			FROM containers c JOIN lineage l ON c.id = l.parent_id
			WHERE l.depth < ?
		)
		SELECT id FROM lineage ORDER BY depth
	`, id, MaxDepth)
	if err != nil {
		return nil, fmt.Errorf("failed to walk container lineage: %w", err)
	}
	return collect(rows, "container lineage", func(row rowScanner) (string, error) {
		var ancestor string
		err := row.Scan(&ancestor)
		return ancestor, err
	})
}

func (s *ContainerStore) Update(ctx context.Context, id string, patch domain.ContainerPatch, updatedAt string) error {
	var a assignments
	setOpt(&a, "name", patch.Name)
	if t, ok := patch.Type.Get(); ok {
		a.add("type", string(t))
	}
	setOpt(&a, "photo", patch.Photo)
	return update(ctx, s.db, "containers", id, a, updatedAt)
}

// SetParent re-parents a container; nil makes it a root of its zone.
func (s *ContainerStore) SetParent(ctx context.Context, id string, parentID *string, updatedAt string) error {
	var a assignments
	a.add("parent_container_id", parentID)
	return update(ctx, s.db, "containers", id, a, updatedAt)
}

// Delete removes the container; the schema cascades to nested containers
// and items.
func (s *ContainerStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db, "containers", id)
}

func (s *ContainerStore) DeleteAll(ctx context.Context) error {
	return deleteAll(ctx, s.db, "containers")
}

func scanContainer(row rowScanner) (domain.Container, error) {
	var c domain.Container
	var parentID, photo sql.NullString
	var containerType string
	if err := row.Scan(&c.ID, &c.ZoneID, &parentID, &c.Name, &containerType, &c.QRCode, &photo, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return domain.Container{}, err
	}
	c.ParentID = stringPtr(parentID)
	c.Type = domain.ContainerType(containerType)
	if c.Type == "" {
		c.Type = domain.DefaultContainerType
	}
	c.Photo = stringPtr(photo)
	return c, nil
}
