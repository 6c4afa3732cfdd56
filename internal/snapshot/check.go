package snapshot

import (
	"fmt"

	"github.com/vbonduro/stokosor/internal/domain"
	"github.com/vbonduro/stokosor/internal/hierarchy"
)

// checkEntities applies the rules the repositories enforce on create to
// every entity of a document. containers must already be normalized.
func checkEntities(doc *Document, containers []domain.Container) error {
	for _, p := range doc.Places {
		if err := domain.ValidateName(p.Name); err != nil {
			return rejected("place", p.ID, err)
		}
	}
	for _, z := range doc.Zones {
		if err := domain.ValidateName(z.Name); err != nil {
			return rejected("zone", z.ID, err)
		}
	}
	for _, c := range containers {
		if err := domain.ValidateName(c.Name); err != nil {
			return rejected("container", c.ID, err)
		}
		if !c.Type.Valid() {
			return rejected("container", c.ID, fmt.Errorf("%w: unknown container type %q", domain.ErrInvalid, c.Type))
		}
	}
	for _, it := range doc.Items {
		if err := domain.ValidateName(it.Name); err != nil {
			return rejected("item", it.ID, err)
		}
		if !it.Category.Valid() {
			return rejected("item", it.ID, fmt.Errorf("%w: unknown category %q", domain.ErrInvalid, it.Category))
		}
	}
	return checkForest(containers)
}

// checkForest rejects a parent in another zone and any parent chain that
// comes back to a container it already passed. Parents absent from the
// document are left to the foreign key check.
func checkForest(containers []domain.Container) error {
	index := hierarchy.NewIndex(containers)
	for _, c := range containers {
		if c.IsRoot() {
			continue
		}
		if parent, ok := index.Container(*c.ParentID); ok && parent.ZoneID != c.ZoneID {
			return rejected("container", c.ID, fmt.Errorf("%w: parent %s belongs to another zone", domain.ErrInvalid, parent.ID))
		}

		seen := map[string]bool{c.ID: true}
		for cur := c; !cur.IsRoot(); {
			parent, ok := index.Container(*cur.ParentID)
			if !ok {
				break
			}
			if seen[parent.ID] {
				return rejected("container", c.ID, fmt.Errorf("%w: parent chain loops through %s", domain.ErrInvalid, parent.ID))
			}
			seen[parent.ID] = true
			cur = parent
		}
	}
	return nil
}

func rejected(kind, id string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrInvalidDocument, kind, id, err)
}
