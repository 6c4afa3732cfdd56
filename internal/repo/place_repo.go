package repo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vbonduro/stokosor/internal/domain"
	"github.com/vbonduro/stokosor/internal/ident"
	"github.com/vbonduro/stokosor/internal/store"
)

// placeStore is the subset of store.PlaceStore that PlaceRepo requires.
type placeStore interface {
	Insert(ctx context.Context, p domain.Place) error
	List(ctx context.Context, order store.Order) ([]domain.Place, error)
	Update(ctx context.Context, id string, patch domain.PlacePatch, updatedAt string) error
	Delete(ctx context.Context, id string) error
}

type PlaceRepo struct {
	store  placeStore
	cache  *Cache[domain.Place]
	logger *slog.Logger
	now    func() string
}

func NewPlaceRepo(s placeStore, logger *slog.Logger) *PlaceRepo {
	return &PlaceRepo{
		store:  s,
		cache:  NewCache(func(p domain.Place) string { return p.ID }),
		logger: logger,
		now:    ident.Now,
	}
}

// FetchAll reloads every place, most recently updated first.
func (r *PlaceRepo) FetchAll(ctx context.Context) ([]domain.Place, error) {
	places, err := r.store.List(ctx, store.ByRecent)
	if err != nil {
		return nil, err
	}
	r.cache.ReplaceAll(places)
	r.logger.Debug("places fetched", "count", len(places))
	return places, nil
}

func (r *PlaceRepo) Create(ctx context.Context, in domain.NewPlace) (domain.Place, error) {
	if err := in.Validate(); err != nil {
		return domain.Place{}, err
	}

	now := r.now()
	p := domain.Place{
		ID:        ident.NewID(),
		Name:      in.Name,
		Address:   in.Address,
		Photo:     in.Photo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.store.Insert(ctx, p); err != nil {
		return domain.Place{}, err
	}
	r.cache.Prepend(p)
	r.logger.Info("place created", "id", p.ID, "name", p.Name)
	return p, nil
}

// Update persists the fields present in patch and mirrors them in the cache.
func (r *PlaceRepo) Update(ctx context.Context, id string, patch domain.PlacePatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	now := r.now()
	if err := r.store.Update(ctx, id, patch, now); err != nil {
		return err
	}
	r.cache.Update(id, func(p *domain.Place) {
		patch.Apply(p)
		p.UpdatedAt = now
	})
	return nil
}

// Delete removes the place. Zones, containers and items go with it in the
// store, but their cached copies stay until the caller refetches them.
func (r *PlaceRepo) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete place %s: %w", id, err)
	}
	r.cache.Remove(id)
	r.logger.Info("place deleted", "id", id)
	return nil
}

func (r *PlaceRepo) ByID(id string) (domain.Place, bool) {
	return r.cache.Find(id)
}

func (r *PlaceRepo) All() []domain.Place {
	return r.cache.All()
}
