package domain

import "github.com/shopspring/decimal"

// Place is the root of the hierarchy: a house, a flat, a garage.
type Place struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   *string `json:"address,omitempty"`
	Photo     *string `json:"photo,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// Zone is a named area within a Place.
type Zone struct {
	ID        string  `json:"id"`
	PlaceID   string  `json:"place_id"`
	Name      string  `json:"name"`
	Icon      *string `json:"icon,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// Container holds items and, possibly, other containers of the same zone.
// ParentID is nil for a root container of its zone.
type Container struct {
	ID        string        `json:"id"`
	ZoneID    string        `json:"zone_id"`
	ParentID  *string       `json:"parent_container_id,omitempty"`
	Name      string        `json:"name"`
	Type      ContainerType `json:"type"`
	QRCode    string        `json:"qr_code"`
	Photo     *string       `json:"photo,omitempty"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
}

// IsRoot reports whether c has no parent container.
func (c Container) IsRoot() bool {
	return c.ParentID == nil || *c.ParentID == ""
}

// Item is a tracked object stored in exactly one Container.
// Photos and Tags are nil rather than empty.
type Item struct {
	ID             string           `json:"id"`
	ContainerID    string           `json:"container_id"`
	Name           string           `json:"name"`
	Photos         []string         `json:"photos,omitempty"`
	Category       Category         `json:"category"`
	Barcode        *string          `json:"barcode,omitempty"`
	Brand          *string          `json:"brand,omitempty"`
	Model          *string          `json:"model,omitempty"`
	SerialNumber   *string          `json:"serial_number,omitempty"`
	PurchasePrice  *decimal.Decimal `json:"purchase_price,omitempty"`
	EstimatedValue *decimal.Decimal `json:"estimated_value,omitempty"`
	PurchaseDate   *string          `json:"purchase_date,omitempty"`
	ExpirationDate *string          `json:"expiration_date,omitempty"`
	WarrantyDate   *string          `json:"warranty_date,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
	Tags           []string         `json:"tags,omitempty"`
	CreatedAt      string           `json:"created_at"`
	UpdatedAt      string           `json:"updated_at"`
}

// NewPlace holds the caller-supplied fields of a place to create.
type NewPlace struct {
	Name    string
	Address *string
	Photo   *string
}

// NewZone holds the caller-supplied fields of a zone to create.
type NewZone struct {
	PlaceID string
	Name    string
	Icon    *string
}

// NewContainer holds the caller-supplied fields of a container to create.
// An empty Type defaults to ContainerBox.
type NewContainer struct {
	ZoneID   string
	ParentID *string
	Name     string
	Type     ContainerType
	Photo    *string
}

// NewItem holds the caller-supplied fields of an item to create. A product
// lookup prefill is converted into this shape without special handling.
type NewItem struct {
	ContainerID    string
	Name           string
	Photos         []string
	Category       Category
	Barcode        *string
	Brand          *string
	Model          *string
	SerialNumber   *string
	PurchasePrice  *decimal.Decimal
	EstimatedValue *decimal.Decimal
	PurchaseDate   *string
	ExpirationDate *string
	WarrantyDate   *string
	Notes          *string
	Tags           []string
}

// Prefill is the record produced by barcode/ISBN lookup services.
type Prefill struct {
	Name     string
	Brand    *string
	Barcode  string
	Category Category
}

// NewItem seeds an item for containerID from the prefill.
func (p Prefill) NewItem(containerID string) NewItem {
	item := NewItem{
		ContainerID: containerID,
		Name:        p.Name,
		Category:    p.Category,
		Brand:       p.Brand,
	}
	if p.Barcode != "" {
		barcode := p.Barcode
		item.Barcode = &barcode
	}
	return item
}
