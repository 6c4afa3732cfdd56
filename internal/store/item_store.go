package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vbonduro/stokosor/internal/domain"
)

const itemColumns = `id, container_id, name, photos, category, barcode, brand, model, serial_number,
	purchase_price, estimated_value, purchase_date, expiration_date, warranty_date, notes, tags,
	created_at, updated_at`

type ItemStore struct {
	db DBTX
}

func NewItemStore(db DBTX) *ItemStore {
	return &ItemStore{db: db}
}

func (s *ItemStore) Insert(ctx context.Context, it domain.Item) error {
	photos, err := pack(it.Photos)
	if err != nil {
		return fmt.Errorf("failed to pack photos: %w", err)
	}
	tags, err := pack(it.Tags)
	if err != nil {
		return fmt.Errorf("failed to pack tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, it.ID, it.ContainerID, it.Name, photos, string(it.Category), it.Barcode, it.Brand, it.Model,
		it.SerialNumber, it.PurchasePrice, it.EstimatedValue, it.PurchaseDate, it.ExpirationDate,
		it.WarrantyDate, it.Notes, tags, it.CreatedAt, it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

func (s *ItemStore) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	it, err := scanItem(s.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+` FROM items WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &it, nil
}

func (s *ItemStore) List(ctx context.Context, order Order) ([]domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM items `+order.clause())
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return collect(rows, "item", scanItem)
}

func (s *ItemStore) ListByContainer(ctx context.Context, containerID string) ([]domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+itemColumns+` FROM items WHERE container_id = ? `+ByRecent.clause(), containerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return collect(rows, "item", scanItem)
}

func (s *ItemStore) Update(ctx context.Context, id string, patch domain.ItemPatch, updatedAt string) error {
	var a assignments
	setOpt(&a, "name", patch.Name)
	if err := setPacked(&a, "photos", patch.Photos); err != nil {
		return err
	}
	if c, ok := patch.Category.Get(); ok {
		a.add("category", string(c))
	}
	setOpt(&a, "barcode", patch.Barcode)
	setOpt(&a, "brand", patch.Brand)
	setOpt(&a, "model", patch.Model)
	setOpt(&a, "serial_number", patch.SerialNumber)
	setOpt(&a, "purchase_price", patch.PurchasePrice)
	setOpt(&a, "estimated_value", patch.EstimatedValue)
	setOpt(&a, "purchase_date", patch.PurchaseDate)
	setOpt(&a, "expiration_date", patch.ExpirationDate)
	setOpt(&a, "warranty_date", patch.WarrantyDate)
	setOpt(&a, "notes", patch.Notes)
	if err := setPacked(&a, "tags", patch.Tags); err != nil {
		return err
	}
	return update(ctx, s.db, "items", id, a, updatedAt)
}

func (s *ItemStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db, "items", id)
}

func (s *ItemStore) DeleteAll(ctx context.Context) error {
	return deleteAll(ctx, s.db, "items")
}

func scanItem(row rowScanner) (domain.Item, error) {
	var it domain.Item
	var (
		category                               string
		photos, tags                           sql.NullString
		barcode, brand, model, serial, notes   sql.NullString
		purchaseDate, expirationDate, warranty sql.NullString
		purchasePrice, estimatedValue          decimal.NullDecimal
	)
	err := row.Scan(&it.ID, &it.ContainerID, &it.Name, &photos, &category, &barcode, &brand, &model,
		&serial, &purchasePrice, &estimatedValue, &purchaseDate, &expirationDate, &warranty, &notes,
		&tags, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return domain.Item{}, err
	}

	if it.Photos, err = unpack(photos); err != nil {
		return domain.Item{}, fmt.Errorf("failed to unpack photos: %w", err)
	}
	if it.Tags, err = unpack(tags); err != nil {
		return domain.Item{}, fmt.Errorf("failed to unpack tags: %w", err)
	}
	it.Category = domain.Category(category)
	it.Barcode = stringPtr(barcode)
	it.Brand = stringPtr(brand)
	it.Model = stringPtr(model)
	it.SerialNumber = stringPtr(serial)
	it.PurchasePrice = decimalPtr(purchasePrice)
	it.EstimatedValue = decimalPtr(estimatedValue)
	it.PurchaseDate = stringPtr(purchaseDate)
	it.ExpirationDate = stringPtr(expirationDate)
	it.WarrantyDate = stringPtr(warranty)
	it.Notes = stringPtr(notes)
	return it, nil
}
