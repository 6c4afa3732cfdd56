package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/stokosor/internal/domain"
	"github.com/vbonduro/stokosor/internal/store"
)

// failingPlaceStore fails every call.
type failingPlaceStore struct {
	calls int
}

func (s *failingPlaceStore) Insert(context.Context, domain.Place) error {
	s.calls++
	return errStore
}

func (s *failingPlaceStore) List(context.Context, store.Order) ([]domain.Place, error) {
	s.calls++
	return nil, errStore
}

func (s *failingPlaceStore) Update(context.Context, string, domain.PlacePatch, string) error {
	s.calls++
	return errStore
}

func (s *failingPlaceStore) Delete(context.Context, string) error {
	s.calls++
	return errStore
}

func TestPlaceRepoCreate(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	first, err := r.places.Create(ctx, domain.NewPlace{Name: "Home", Address: ptr("1 Main St")})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)

	second, err := r.places.Create(ctx, domain.NewPlace{Name: "Cabin"})
	require.NoError(t, err)

	all := r.places.All()
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "new places are prepended")

	got, ok := r.places.ByID(first.ID)
	require.True(t, ok)
	assert.Equal(t, first, got)
}

func TestPlaceRepoCreate_InvalidNeverReachesStore(t *testing.T) {
	s := &failingPlaceStore{}
	places := NewPlaceRepo(s, discardLogger())

	_, err := places.Create(context.Background(), domain.NewPlace{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalid)
	assert.Zero(t, s.calls)
}

func TestPlaceRepoStoreFailureLeavesCacheUnchanged(t *testing.T) {
	s := &failingPlaceStore{}
	places := NewPlaceRepo(s, discardLogger())
	places.cache.ReplaceAll([]domain.Place{{ID: "p1", Name: "Home"}})
	ctx := context.Background()

	_, err := places.Create(ctx, domain.NewPlace{Name: "Cabin"})
	assert.ErrorIs(t, err, errStore)
	assert.ErrorIs(t, places.Update(ctx, "p1", domain.PlacePatch{Name: domain.Set("House")}), errStore)
	assert.ErrorIs(t, places.Delete(ctx, "p1"), errStore)
	_, err = places.FetchAll(ctx)
	assert.ErrorIs(t, err, errStore)

	assert.Equal(t, []domain.Place{{ID: "p1", Name: "Home"}}, places.All())
}

func TestPlaceRepoUpdateTouchesOnlyPatchedFields(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	p, err := r.places.Create(ctx, domain.NewPlace{Name: "Home", Address: ptr("1 Main St"), Photo: ptr("home.jpg")})
	require.NoError(t, err)
	r.places.now = func() string { return "2099-01-01T00:00:00.000Z" }

	require.NoError(t, r.places.Update(ctx, p.ID, domain.PlacePatch{Address: domain.Null[string]()}))

	got, ok := r.places.ByID(p.ID)
	require.True(t, ok)
	assert.Equal(t, "Home", got.Name)
	assert.Nil(t, got.Address)
	assert.Equal(t, "home.jpg", *got.Photo)
	assert.Equal(t, "2099-01-01T00:00:00.000Z", got.UpdatedAt)
	assert.Equal(t, p.CreatedAt, got.CreatedAt)
}

func TestPlaceRepoUpdate_NotFound(t *testing.T) {
	r := newTestRepos(t)

	err := r.places.Update(context.Background(), "missing", domain.PlacePatch{Name: domain.Set("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPlaceRepoCacheMatchesStore(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	home, err := r.places.Create(ctx, domain.NewPlace{Name: "Home"})
	require.NoError(t, err)
	cabin, err := r.places.Create(ctx, domain.NewPlace{Name: "Cabin"})
	require.NoError(t, err)
	_, err = r.places.Create(ctx, domain.NewPlace{Name: "Office"})
	require.NoError(t, err)

	require.NoError(t, r.places.Update(ctx, home.ID, domain.PlacePatch{Name: domain.Set("House"), Address: domain.Some("2 Side St")}))
	require.NoError(t, r.places.Delete(ctx, cabin.ID))

	cached := r.places.All()
	fresh, err := NewPlaceRepo(store.NewPlaceStore(r.db), discardLogger()).FetchAll(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, fresh, cached)
}
