package catalog

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vbonduro/stokosor/internal/db"
	"github.com/vbonduro/stokosor/internal/domain"
	"github.com/vbonduro/stokosor/internal/repo"
	"github.com/vbonduro/stokosor/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"))
}

type fixture struct {
	db         *sql.DB
	catalog    *Catalog
	places     *repo.PlaceRepo
	zones      *repo.ZoneRepo
	containers *repo.ContainerRepo
	items      *repo.ItemRepo

	garage      domain.Place
	shelfUnit   domain.Zone
	binA, bag1  domain.Container
	screwdriver domain.Item
}

func newCatalog(d *sql.DB) (*Catalog, *repo.PlaceRepo, *repo.ZoneRepo, *repo.ContainerRepo, *repo.ItemRepo) {
	logger := slog.New(slog.DiscardHandler)
	places := repo.NewPlaceRepo(store.NewPlaceStore(d), logger)
	zones := repo.NewZoneRepo(store.NewZoneStore(d), logger)
	containers := repo.NewContainerRepo(store.NewContainerStore(d), logger)
	items := repo.NewItemRepo(store.NewItemStore(d), logger)
	return New(places, zones, containers, items, logger), places, zones, containers, items
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	f := &fixture{db: d}
	f.catalog, f.places, f.zones, f.containers, f.items = newCatalog(d)
	ctx := context.Background()

	f.garage, err = f.places.Create(ctx, domain.NewPlace{Name: "Garage"})
	require.NoError(t, err)
	f.shelfUnit, err = f.zones.Create(ctx, domain.NewZone{PlaceID: f.garage.ID, Name: "Shelf Unit"})
	require.NoError(t, err)
	f.binA, err = f.containers.Create(ctx, domain.NewContainer{ZoneID: f.shelfUnit.ID, Name: "Bin A", Type: domain.ContainerBin})
	require.NoError(t, err)
	f.bag1, err = f.containers.Create(ctx, domain.NewContainer{ZoneID: f.shelfUnit.ID, ParentID: &f.binA.ID, Name: "Bag 1", Type: domain.ContainerBag})
	require.NoError(t, err)
	f.screwdriver, err = f.items.Create(ctx, domain.NewItem{ContainerID: f.bag1.ID, Name: "Screwdriver", Category: domain.CategoryTools})
	require.NoError(t, err)
	return f
}

func ptr[T any](v T) *T { return &v }

func TestItemFullPath(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "Garage › Shelf Unit › Bin A › Bag 1", f.catalog.ItemFullPath(f.screwdriver))
}

func TestRefreshLoadsEverything(t *testing.T) {
	f := newFixture(t)

	fresh, places, zones, containers, items := newCatalog(f.db)
	require.NoError(t, fresh.Refresh(context.Background()))

	assert.Len(t, places.All(), 1)
	assert.Len(t, zones.All(), 1)
	assert.Len(t, containers.All(), 2)
	assert.Len(t, items.All(), 1)
	assert.Equal(t, "Garage › Shelf Unit › Bin A › Bag 1", fresh.ItemFullPath(f.screwdriver))
}

type failingItems struct{ *repo.ItemRepo }

func (failingItems) FetchAll(context.Context) ([]domain.Item, error) {
	return nil, errors.New("items unavailable")
}

func TestRefreshReportsFailure(t *testing.T) {
	f := newFixture(t)

	broken := New(f.places, f.zones, f.containers, failingItems{f.items}, slog.New(slog.DiscardHandler))
	err := broken.Refresh(context.Background())
	assert.ErrorContains(t, err, "items unavailable")
}

func TestResolveScan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, ok, err := f.catalog.ResolveScan(ctx, "  "+f.bag1.QRCode+"\n")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, f.bag1.ID, got.ID)

	_, ok, err = f.catalog.ResolveScan(ctx, "https://example.com")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = f.catalog.ResolveScan(ctx, "STOKOSOR:unknown")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolveScanFallsBackToStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A second catalog that has never fetched anything.
	cold, _, _, containers, _ := newCatalog(f.db)
	require.Empty(t, containers.All())

	got, ok, err := cold.ResolveScan(ctx, f.binA.QRCode)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, f.binA.ID, got.ID)

	cached, ok := containers.ByQRCode(f.binA.QRCode)
	require.True(t, ok)
	assert.Equal(t, f.binA.Name, cached.Name)
}

func TestDeleteContainerPurgesCachedSubtree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.catalog.DeleteContainer(ctx, f.binA.ID))

	assert.Empty(t, f.containers.All())
	assert.Empty(t, f.items.All())

	fresh, _, _, containers, items := newCatalog(f.db)
	require.NoError(t, fresh.Refresh(ctx))
	assert.Empty(t, containers.All())
	assert.Empty(t, items.All())
}

func TestDeleteContainer_NotFound(t *testing.T) {
	f := newFixture(t)

	err := f.catalog.DeleteContainer(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, f.containers.All(), 2)
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.items.Create(ctx, domain.NewItem{ContainerID: f.binA.ID, Name: "Drill", Brand: ptr("Makita"), Category: domain.CategoryTools, Tags: []string{"Power"}})
	require.NoError(t, err)
	_, err = f.items.Create(ctx, domain.NewItem{ContainerID: f.binA.ID, Name: "Rice", Notes: ptr("basmati, opened"), Category: domain.CategoryFood})
	require.NoError(t, err)

	tools := domain.CategoryTools
	food := domain.CategoryFood
	tests := []struct {
		name     string
		query    string
		category *domain.Category
		want     []string
	}{
		{"name", "SCREW", nil, []string{"Screwdriver"}},
		{"brand", "makita", nil, []string{"Drill"}},
		{"tag", "power", nil, []string{"Drill"}},
		{"notes", "basmati", nil, []string{"Rice"}},
		{"category only", "", &tools, []string{"Drill", "Screwdriver"}},
		{"query and category", "r", &food, []string{"Rice"}},
		{"nothing to search", "   ", nil, nil},
		{"no match", "hammer", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var names []string
			for _, r := range f.catalog.Search(tt.query, tt.category) {
				names = append(names, r.Item.Name)
			}
			assert.ElementsMatch(t, tt.want, names)
		})
	}
}

func TestSearchReportsPath(t *testing.T) {
	f := newFixture(t)

	results := f.catalog.Search("screwdriver", nil)
	require.Len(t, results, 1)
	assert.Equal(t, "Garage › Shelf Unit › Bin A › Bag 1", results[0].Path)
}

func TestSearchIsCapped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < SearchLimit+5; i++ {
		_, err := f.items.Create(ctx, domain.NewItem{ContainerID: f.binA.ID, Name: "Nail", Category: domain.CategoryTools})
		require.NoError(t, err)
	}

	assert.Len(t, f.catalog.Search("nail", nil), SearchLimit)
}
