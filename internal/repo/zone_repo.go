package repo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vbonduro/stokosor/internal/domain"
	"github.com/vbonduro/stokosor/internal/ident"
	"github.com/vbonduro/stokosor/internal/store"
)

// zoneStore is the subset of store.ZoneStore that ZoneRepo requires.
type zoneStore interface {
	Insert(ctx context.Context, z domain.Zone) error
	List(ctx context.Context, order store.Order) ([]domain.Zone, error)
	ListByPlace(ctx context.Context, placeID string) ([]domain.Zone, error)
	Update(ctx context.Context, id string, patch domain.ZonePatch, updatedAt string) error
	Delete(ctx context.Context, id string) error
}

type ZoneRepo struct {
	store  zoneStore
	cache  *Cache[domain.Zone]
	logger *slog.Logger
	now    func() string
}

func NewZoneRepo(s zoneStore, logger *slog.Logger) *ZoneRepo {
	return &ZoneRepo{
		store:  s,
		cache:  NewCache(func(z domain.Zone) string { return z.ID }),
		logger: logger,
		now:    ident.Now,
	}
}

func (r *ZoneRepo) FetchAll(ctx context.Context) ([]domain.Zone, error) {
	zones, err := r.store.List(ctx, store.ByRecent)
	if err != nil {
		return nil, err
	}
	r.cache.ReplaceAll(zones)
	r.logger.Debug("zones fetched", "count", len(zones))
	return zones, nil
}

// FetchByPlace reloads the zones of one place, leaving other places' cached
// zones alone.
func (r *ZoneRepo) FetchByPlace(ctx context.Context, placeID string) ([]domain.Zone, error) {
	zones, err := r.store.ListByPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}
	r.cache.ReplaceScope(func(z domain.Zone) bool { return z.PlaceID == placeID }, zones)
	r.logger.Debug("zones merged", "place_id", placeID, "count", len(zones))
	return zones, nil
}

func (r *ZoneRepo) Create(ctx context.Context, in domain.NewZone) (domain.Zone, error) {
	if err := in.Validate(); err != nil {
		return domain.Zone{}, err
	}

	now := r.now()
	z := domain.Zone{
		ID:        ident.NewID(),
		PlaceID:   in.PlaceID,
		Name:      in.Name,
		Icon:      in.Icon,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.store.Insert(ctx, z); err != nil {
		return domain.Zone{}, err
	}
	r.cache.Prepend(z)
	r.logger.Info("zone created", "id", z.ID, "place_id", z.PlaceID, "name", z.Name)
	return z, nil
}

func (r *ZoneRepo) Update(ctx context.Context, id string, patch domain.ZonePatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	now := r.now()
	if err := r.store.Update(ctx, id, patch, now); err != nil {
		return err
	}
	r.cache.Update(id, func(z *domain.Zone) {
		patch.Apply(z)
		z.UpdatedAt = now
	})
	return nil
}

func (r *ZoneRepo) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete zone %s: %w", id, err)
	}
	r.cache.Remove(id)
	r.logger.Info("zone deleted", "id", id)
	return nil
}

func (r *ZoneRepo) ByID(id string) (domain.Zone, bool) {
	return r.cache.Find(id)
}

func (r *ZoneRepo) ByPlace(placeID string) []domain.Zone {
	return r.cache.Filter(func(z domain.Zone) bool { return z.PlaceID == placeID })
}

func (r *ZoneRepo) All() []domain.Zone {
	return r.cache.All()
}
