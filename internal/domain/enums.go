package domain

import "fmt"

// Category classifies an item.
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryAppliances  Category = "appliances"
	CategoryFurniture   Category = "furniture"
	CategoryClothing    Category = "clothing"
	CategoryBooks       Category = "books"
	CategoryDocuments   Category = "documents"
	CategoryFood        Category = "food"
	CategoryHousehold   Category = "household"
	CategoryTools       Category = "tools"
	CategoryLeisure     Category = "leisure"
	CategoryDecoration  Category = "decoration"
	CategoryOther       Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryElectronics, CategoryAppliances, CategoryFurniture, CategoryClothing,
	CategoryBooks, CategoryDocuments, CategoryFood, CategoryHousehold,
	CategoryTools, CategoryLeisure, CategoryDecoration, CategoryOther,
}

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory validates s as a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrInvalid, s)
	}
	return c, nil
}

// ContainerType describes the physical kind of a container.
type ContainerType string

const (
	ContainerFurniture ContainerType = "furniture"
	ContainerDrawer    ContainerType = "drawer"
	ContainerShelf     ContainerType = "shelf"
	ContainerCabinet   ContainerType = "cabinet"
	ContainerBox       ContainerType = "box"
	ContainerBag       ContainerType = "bag"
	ContainerBasket    ContainerType = "basket"
	ContainerBin       ContainerType = "bin"
	ContainerFolder    ContainerType = "folder"
	ContainerOther     ContainerType = "other"
)

// DefaultContainerType is stored when no type is given.
const DefaultContainerType = ContainerBox

// ContainerTypes lists every container type in display order.
var ContainerTypes = []ContainerType{
	ContainerFurniture, ContainerDrawer, ContainerShelf, ContainerCabinet, ContainerBox,
	ContainerBag, ContainerBasket, ContainerBin, ContainerFolder, ContainerOther,
}

// Valid reports whether t is one of ContainerTypes.
func (t ContainerType) Valid() bool {
	for _, known := range ContainerTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseContainerType validates s as a ContainerType. Empty means the default.
func ParseContainerType(s string) (ContainerType, error) {
	if s == "" {
		return DefaultContainerType, nil
	}
	t := ContainerType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown container type %q", ErrInvalid, s)
	}
	return t, nil
}
