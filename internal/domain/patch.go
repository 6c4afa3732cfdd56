package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Opt is one field of a patch. The zero value leaves the field untouched;
// a set Opt overwrites it, and for pointer or slice fields a nil value clears it.
type Opt[T any] struct {
	value T
	set   bool
}

// Set returns an Opt that overwrites the field with v.
func Set[T any](v T) Opt[T] {
	return Opt[T]{value: v, set: true}
}

// Some returns an Opt that overwrites a nullable field with v.
func Some[T any](v T) Opt[*T] {
	return Opt[*T]{value: &v, set: true}
}

// Null returns an Opt that clears a nullable field.
func Null[T any]() Opt[*T] {
	return Opt[*T]{set: true}
}

// Get returns the value and whether the field is part of the patch.
func (o Opt[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether the field is part of the patch.
func (o Opt[T]) IsSet() bool {
	return o.set
}

func (o Opt[T]) applyTo(dst *T) {
	if o.set {
		*dst = o.value
	}
}

// PlacePatch is a partial update of a Place.
type PlacePatch struct {
	Name    Opt[string]
	Address Opt[*string]
	Photo   Opt[*string]
}

// Validate rejects a patch that would blank the name.
func (p PlacePatch) Validate() error {
	return validateNameOpt(p.Name)
}

// Apply copies the set fields of p onto pl.
func (p PlacePatch) Apply(pl *Place) {
	p.Name.applyTo(&pl.Name)
	p.Address.applyTo(&pl.Address)
	p.Photo.applyTo(&pl.Photo)
}

// ZonePatch is a partial update of a Zone.
type ZonePatch struct {
	Name Opt[string]
	Icon Opt[*string]
}

func (p ZonePatch) Validate() error {
	return validateNameOpt(p.Name)
}

func (p ZonePatch) Apply(z *Zone) {
	p.Name.applyTo(&z.Name)
	p.Icon.applyTo(&z.Icon)
}

// ContainerPatch is a partial update of a Container. Zone, parent and QR
// code are not patchable; see the container repository Move operation.
type ContainerPatch struct {
	Name  Opt[string]
	Type  Opt[ContainerType]
	Photo Opt[*string]
}

func (p ContainerPatch) Validate() error {
	if err := validateNameOpt(p.Name); err != nil {
		return err
	}
	if t, ok := p.Type.Get(); ok && !t.Valid() {
		return invalidf("unknown container type %q", t)
	}
	return nil
}

func (p ContainerPatch) Apply(c *Container) {
	p.Name.applyTo(&c.Name)
	p.Type.applyTo(&c.Type)
	p.Photo.applyTo(&c.Photo)
}

// ItemPatch is a partial update of an Item. Setting Photos or Tags to an
// empty slice clears them.
type ItemPatch struct {
	Name           Opt[string]
	Photos         Opt[[]string]
	Category       Opt[Category]
	Barcode        Opt[*string]
	Brand          Opt[*string]
	Model          Opt[*string]
	SerialNumber   Opt[*string]
	PurchasePrice  Opt[*decimal.Decimal]
	EstimatedValue Opt[*decimal.Decimal]
	PurchaseDate   Opt[*string]
	ExpirationDate Opt[*string]
	WarrantyDate   Opt[*string]
	Notes          Opt[*string]
	Tags           Opt[[]string]
}

func (p ItemPatch) Validate() error {
	if err := validateNameOpt(p.Name); err != nil {
		return err
	}
	if c, ok := p.Category.Get(); ok && !c.Valid() {
		return invalidf("unknown category %q", c)
	}
	return nil
}

func (p ItemPatch) Apply(it *Item) {
	p.Name.applyTo(&it.Name)
	if photos, ok := p.Photos.Get(); ok {
		it.Photos = Compact(photos)
	}
	p.Category.applyTo(&it.Category)
	p.Barcode.applyTo(&it.Barcode)
	p.Brand.applyTo(&it.Brand)
	p.Model.applyTo(&it.Model)
	p.SerialNumber.applyTo(&it.SerialNumber)
	p.PurchasePrice.applyTo(&it.PurchasePrice)
	p.EstimatedValue.applyTo(&it.EstimatedValue)
	p.PurchaseDate.applyTo(&it.PurchaseDate)
	p.ExpirationDate.applyTo(&it.ExpirationDate)
	p.WarrantyDate.applyTo(&it.WarrantyDate)
	p.Notes.applyTo(&it.Notes)
	if tags, ok := p.Tags.Get(); ok {
		it.Tags = Compact(tags)
	}
}

// Compact drops repeated values, keeping first-seen order, and returns nil
// for an empty collection so that empty and absent are stored the same way.
func Compact(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// ValidateName rejects blank names.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return invalidf("name is required")
	}
	return nil
}

func validateNameOpt(o Opt[string]) error {
	if name, ok := o.Get(); ok {
		return ValidateName(name)
	}
	return nil
}
