package repo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vbonduro/stokosor/internal/domain"
	"github.com/vbonduro/stokosor/internal/ident"
	"github.com/vbonduro/stokosor/internal/store"
)

// itemStore is the subset of store.ItemStore that ItemRepo requires.
type itemStore interface {
	Insert(ctx context.Context, it domain.Item) error
	List(ctx context.Context, order store.Order) ([]domain.Item, error)
	ListByContainer(ctx context.Context, containerID string) ([]domain.Item, error)
	Update(ctx context.Context, id string, patch domain.ItemPatch, updatedAt string) error
	Delete(ctx context.Context, id string) error
}

type ItemRepo struct {
	store  itemStore
	cache  *Cache[domain.Item]
	logger *slog.Logger
	now    func() string
}

func NewItemRepo(s itemStore, logger *slog.Logger) *ItemRepo {
	return &ItemRepo{
		store:  s,
		cache:  NewCache(func(it domain.Item) string { return it.ID }),
		logger: logger,
		now:    ident.Now,
	}
}

func (r *ItemRepo) FetchAll(ctx context.Context) ([]domain.Item, error) {
	items, err := r.store.List(ctx, store.ByRecent)
	if err != nil {
		return nil, err
	}
	r.cache.ReplaceAll(items)
	r.logger.Debug("items fetched", "count", len(items))
	return items, nil
}

// FetchByContainer reloads the items of one container, leaving other
// containers' cached items alone.
func (r *ItemRepo) FetchByContainer(ctx context.Context, containerID string) ([]domain.Item, error) {
	items, err := r.store.ListByContainer(ctx, containerID)
	if err != nil {
		return nil, err
	}
	r.cache.ReplaceScope(func(it domain.Item) bool { return it.ContainerID == containerID }, items)
	r.logger.Debug("items merged", "container_id", containerID, "count", len(items))
	return items, nil
}

func (r *ItemRepo) Create(ctx context.Context, in domain.NewItem) (domain.Item, error) {
	if err := in.Validate(); err != nil {
		return domain.Item{}, err
	}

	now := r.now()
	it := domain.Item{
		ID:             ident.NewID(),
		ContainerID:    in.ContainerID,
		Name:           in.Name,
		Photos:         domain.Compact(in.Photos),
		Category:       in.Category,
		Barcode:        in.Barcode,
		Brand:          in.Brand,
		Model:          in.Model,
		SerialNumber:   in.SerialNumber,
		PurchasePrice:  domain.StoredAmount(in.PurchasePrice),
		EstimatedValue: domain.StoredAmount(in.EstimatedValue),
		PurchaseDate:   in.PurchaseDate,
		ExpirationDate: in.ExpirationDate,
		WarrantyDate:   in.WarrantyDate,
		Notes:          in.Notes,
		Tags:           domain.Compact(in.Tags),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := r.store.Insert(ctx, it); err != nil {
		return domain.Item{}, err
	}
	r.cache.Prepend(it)
	r.logger.Info("item created", "id", it.ID, "container_id", it.ContainerID, "name", it.Name)
	return it, nil
}

func (r *ItemRepo) Update(ctx context.Context, id string, patch domain.ItemPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	if d, ok := patch.PurchasePrice.Get(); ok {
		patch.PurchasePrice = domain.Set(domain.StoredAmount(d))
	}
	if d, ok := patch.EstimatedValue.Get(); ok {
		patch.EstimatedValue = domain.Set(domain.StoredAmount(d))
	}
	now := r.now()
	if err := r.store.Update(ctx, id, patch, now); err != nil {
		return err
	}
	r.cache.Update(id, func(it *domain.Item) {
		patch.Apply(it)
		it.UpdatedAt = now
	})
	return nil
}

func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete item %s: %w", id, err)
	}
	r.cache.Remove(id)
	r.logger.Info("item deleted", "id", id)
	return nil
}

// PurgeContainers drops cached items held by any of containerIDs, as after
// a container subtree was deleted.
func (r *ItemRepo) PurgeContainers(containerIDs ...string) int {
	held := make(map[string]bool, len(containerIDs))
	for _, id := range containerIDs {
		held[id] = true
	}
	return r.cache.RemoveWhere(func(it domain.Item) bool { return held[it.ContainerID] })
}

func (r *ItemRepo) ByID(id string) (domain.Item, bool) {
	return r.cache.Find(id)
}

func (r *ItemRepo) ByContainer(containerID string) []domain.Item {
	return r.cache.Filter(func(it domain.Item) bool { return it.ContainerID == containerID })
}

func (r *ItemRepo) All() []domain.Item {
	return r.cache.All()
}
