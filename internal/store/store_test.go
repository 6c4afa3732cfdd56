package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vbonduro/stokosor/internal/db"
	"github.com/vbonduro/stokosor/internal/domain"
	"github.com/vbonduro/stokosor/internal/ident"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func ptr[T any](v T) *T { return &v }

// seed creates Home > Garage and returns both.
func seed(t *testing.T, d *sql.DB) (domain.Place, domain.Zone) {
	t.Helper()
	ctx := context.Background()
	place := domain.Place{ID: ident.NewID(), Name: "Home", CreatedAt: "2024-01-01T00:00:00.000Z", UpdatedAt: "2024-01-01T00:00:00.000Z"}
	require.NoError(t, NewPlaceStore(d).Insert(ctx, place))
	zone := domain.Zone{ID: ident.NewID(), PlaceID: place.ID, Name: "Garage", CreatedAt: place.CreatedAt, UpdatedAt: place.UpdatedAt}
	require.NoError(t, NewZoneStore(d).Insert(ctx, zone))
	return place, zone
}

func newContainer(zoneID string, parentID *string, name, updatedAt string) domain.Container {
	id := ident.NewID()
	return domain.Container{
		ID:        id,
		ZoneID:    zoneID,
		ParentID:  parentID,
		Name:      name,
		Type:      domain.ContainerBox,
		QRCode:    ident.QRCode(id),
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	}
}
