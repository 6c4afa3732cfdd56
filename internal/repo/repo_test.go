package repo

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vbonduro/stokosor/internal/db"
	"github.com/vbonduro/stokosor/internal/domain"
	"github.com/vbonduro/stokosor/internal/store"
)

var errStore = errors.New("disk on fire")

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type repos struct {
	db         *sql.DB
	places     *PlaceRepo
	zones      *ZoneRepo
	containers *ContainerRepo
	items      *ItemRepo
}

func newTestRepos(t *testing.T) repos {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	return repos{
		db:         d,
		places:     NewPlaceRepo(store.NewPlaceStore(d), discardLogger()),
		zones:      NewZoneRepo(store.NewZoneStore(d), discardLogger()),
		containers: NewContainerRepo(store.NewContainerStore(d), discardLogger()),
		items:      NewItemRepo(store.NewItemStore(d), discardLogger()),
	}
}

// garage builds Garage > Shelf Unit > Bin A > Bag 1 > Screwdriver.
type garage struct {
	place       domain.Place
	zone        domain.Zone
	binA, bag1  domain.Container
	screwdriver domain.Item
}

func seedGarage(t *testing.T, r repos) garage {
	t.Helper()
	ctx := context.Background()
	var g garage
	var err error

	g.place, err = r.places.Create(ctx, domain.NewPlace{Name: "Garage"})
	require.NoError(t, err)
	g.zone, err = r.zones.Create(ctx, domain.NewZone{PlaceID: g.place.ID, Name: "Shelf Unit"})
	require.NoError(t, err)
	g.binA, err = r.containers.Create(ctx, domain.NewContainer{ZoneID: g.zone.ID, Name: "Bin A", Type: domain.ContainerBin})
	require.NoError(t, err)
	g.bag1, err = r.containers.Create(ctx, domain.NewContainer{ZoneID: g.zone.ID, ParentID: &g.binA.ID, Name: "Bag 1", Type: domain.ContainerBag})
	require.NoError(t, err)
	g.screwdriver, err = r.items.Create(ctx, domain.NewItem{ContainerID: g.bag1.ID, Name: "Screwdriver", Category: domain.CategoryTools})
	require.NoError(t, err)
	return g
}

func ptr[T any](v T) *T { return &v }
