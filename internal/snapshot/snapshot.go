// Package snapshot exports the whole inventory as a versioned document and
// restores it, replacing everything in the store.
package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vbonduro/stokosor/internal/domain"
	"github.com/vbonduro/stokosor/internal/ident"
	"github.com/vbonduro/stokosor/internal/store"
)

// FormatVersion is written into every exported document.
const FormatVersion = 1

// ErrInvalidDocument marks a document rejected before the store is touched.
var ErrInvalidDocument = errors.New("invalid snapshot document")

type Document struct {
	Version    int                `json:"version"`
	ExportDate string             `json:"exportDate"`
	Places     []domain.Place     `json:"places"`
	Zones      []domain.Zone      `json:"zones"`
	Containers []domain.Container `json:"containers"`
	Items      []domain.Item      `json:"items"`
}

// Counts reports how many rows of each kind a restore wrote.
type Counts struct {
	Places     int `json:"places"`
	Zones      int `json:"zones"`
	Containers int `json:"containers"`
	Items      int `json:"items"`
}

// Validate checks the document structure: a version and all four
// collections must be present.
func (d *Document) Validate() error {
	switch {
	case d.Version < 1:
		return fmt.Errorf("%w: missing version", ErrInvalidDocument)
	case d.Places == nil:
		return fmt.Errorf("%w: missing places", ErrInvalidDocument)
	case d.Zones == nil:
		return fmt.Errorf("%w: missing zones", ErrInvalidDocument)
	case d.Containers == nil:
		return fmt.Errorf("%w: missing containers", ErrInvalidDocument)
	case d.Items == nil:
		return fmt.Errorf("%w: missing items", ErrInvalidDocument)
	}
	return nil
}

type Service struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

func NewService(db *sql.DB, logger *slog.Logger) *Service {
	return &Service{db: db, logger: logger, now: time.Now}
}

// Full reads every table inside one transaction, so the document is a
// single point-in-time view. Collections are sorted by name.
func (s *Service) Full(ctx context.Context) (*Document, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	doc := &Document{
		Version:    FormatVersion,
		ExportDate: ident.Format(s.now()),
	}
	if doc.Places, err = store.NewPlaceStore(tx).List(ctx, store.ByName); err != nil {
		return nil, err
	}
	if doc.Zones, err = store.NewZoneStore(tx).List(ctx, store.ByName); err != nil {
		return nil, err
	}
	if doc.Containers, err = store.NewContainerStore(tx).List(ctx, store.ByName); err != nil {
		return nil, err
	}
	if doc.Items, err = store.NewItemStore(tx).List(ctx, store.ByName); err != nil {
		return nil, err
	}

	// An empty table still exports as [] so the document stays restorable.
	doc.Places = nonNil(doc.Places)
	doc.Zones = nonNil(doc.Zones)
	doc.Containers = nonNil(doc.Containers)
	doc.Items = nonNil(doc.Items)
	return doc, nil
}

// Restore replaces the whole store with doc, keeping its ids and
// timestamps. It runs in one transaction: on any failure nothing changes.
func (s *Service) Restore(ctx context.Context, doc *Document) (Counts, error) {
	if err := doc.Validate(); err != nil {
		return Counts{}, err
	}
	containers := make([]domain.Container, len(doc.Containers))
	for i, c := range doc.Containers {
		containers[i] = normalizeContainer(c)
	}
	if err := checkEntities(doc, containers); err != nil {
		return Counts{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Counts{}, fmt.Errorf("failed to begin restore: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Documents list containers by name, so a child may precede its parent.
	if _, err := tx.ExecContext(ctx, "PRAGMA defer_foreign_keys = ON"); err != nil {
		return Counts{}, fmt.Errorf("failed to defer foreign keys: %w", err)
	}

	places := store.NewPlaceStore(tx)
	zones := store.NewZoneStore(tx)
	containerRows := store.NewContainerStore(tx)
	items := store.NewItemStore(tx)

	for _, deleteAll := range []func(context.Context) error{items.DeleteAll, containerRows.DeleteAll, zones.DeleteAll, places.DeleteAll} {
		if err := deleteAll(ctx); err != nil {
			return Counts{}, err
		}
	}

	for _, p := range doc.Places {
		if err := places.Insert(ctx, p); err != nil {
			return Counts{}, fmt.Errorf("place %s: %w", p.ID, err)
		}
	}
	for _, z := range doc.Zones {
		if err := zones.Insert(ctx, z); err != nil {
			return Counts{}, fmt.Errorf("zone %s: %w", z.ID, err)
		}
	}
	for _, c := range containers {
		if err := containerRows.Insert(ctx, c); err != nil {
			return Counts{}, fmt.Errorf("container %s: %w", c.ID, err)
		}
	}
	for _, it := range doc.Items {
		if err := items.Insert(ctx, it); err != nil {
			return Counts{}, fmt.Errorf("item %s: %w", it.ID, err)
		}
	}

	// A deferred violation would fail COMMIT and leave the transaction open
	// on the pooled connection, so look for one first.
	if err := checkForeignKeys(ctx, tx); err != nil {
		return Counts{}, err
	}
	if err := tx.Commit(); err != nil {
		return Counts{}, fmt.Errorf("failed to commit restore: %w", err)
	}

	counts := Counts{
		Places:     len(doc.Places),
		Zones:      len(doc.Zones),
		Containers: len(doc.Containers),
		Items:      len(doc.Items),
	}
	s.logger.Info("snapshot restored",
		"places", counts.Places,
		"zones", counts.Zones,
		"containers", counts.Containers,
		"items", counts.Items,
	)
	return counts, nil
}

func checkForeignKeys(ctx context.Context, tx *sql.Tx) error {
	rows, err := tx.QueryContext(ctx, "PRAGMA foreign_key_check")
	if err != nil {
		return fmt.Errorf("failed to check foreign keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	if rows.Next() {
		var table, parent string
		var rowID sql.NullInt64
		var fkID int
		if err := rows.Scan(&table, &rowID, &parent, &fkID); err != nil {
			return fmt.Errorf("failed to scan foreign key violation: %w", err)
		}
		return fmt.Errorf("%w: a row of %s references a missing %s", ErrInvalidDocument, table, parent)
	}
	return rows.Err()
}

// normalizeContainer fills the fields older documents may lack.
func normalizeContainer(c domain.Container) domain.Container {
	if c.Type == "" {
		c.Type = domain.DefaultContainerType
	}
	if c.QRCode == "" {
		c.QRCode = ident.QRCode(c.ID)
	}
	if c.ParentID != nil && *c.ParentID == "" {
		c.ParentID = nil
	}
	return c
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
