package repo

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/vbonduro/stokosor/internal/domain"
	"github.com/vbonduro/stokosor/internal/hierarchy"
	"github.com/vbonduro/stokosor/internal/ident"
	"github.com/vbonduro/stokosor/internal/store"
)

// containerStore is the subset of store.ContainerStore that ContainerRepo requires.
type containerStore interface {
	Insert(ctx context.Context, c domain.Container) error
	GetByID(ctx context.Context, id string) (*domain.Container, error)
	GetByQRCode(ctx context.Context, code string) (*domain.Container, error)
	List(ctx context.Context, order store.Order) ([]domain.Container, error)
	ListByZone(ctx context.Context, zoneID string) ([]domain.Container, error)
	Lineage(ctx context.Context, id string) ([]string, error)
	Update(ctx context.Context, id string, patch domain.ContainerPatch, updatedAt string) error
	SetParent(ctx context.Context, id string, parentID *string, updatedAt string) error
	Delete(ctx context.Context, id string) error
}

type ContainerRepo struct {
	store  containerStore
	cache  *Cache[domain.Container]
	logger *slog.Logger
	now    func() string
}

func NewContainerRepo(s containerStore, logger *slog.Logger) *ContainerRepo {
	return &ContainerRepo{
		store:  s,
		cache:  NewCache(func(c domain.Container) string { return c.ID }),
		logger: logger,
		now:    ident.Now,
	}
}

func (r *ContainerRepo) FetchAll(ctx context.Context) ([]domain.Container, error) {
	containers, err := r.store.List(ctx, store.ByRecent)
	if err != nil {
		return nil, err
	}
	r.cache.ReplaceAll(containers)
	r.logger.Debug("containers fetched", "count", len(containers))
	return containers, nil
}

// FetchByZone reloads the containers of one zone, leaving other zones'
// cached containers alone.
func (r *ContainerRepo) FetchByZone(ctx context.Context, zoneID string) ([]domain.Container, error) {
	containers, err := r.store.ListByZone(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	r.cache.ReplaceScope(func(c domain.Container) bool { return c.ZoneID == zoneID }, containers)
	r.logger.Debug("containers merged", "zone_id", zoneID, "count", len(containers))
	return containers, nil
}

// Create stores a new container with a fresh QR code. A parent, when given,
// must already exist in the same zone.
func (r *ContainerRepo) Create(ctx context.Context, in domain.NewContainer) (domain.Container, error) {
	if err := in.Validate(); err != nil {
		return domain.Container{}, err
	}
	if in.ParentID != nil {
		if err := r.checkParent(ctx, in.ZoneID, *in.ParentID); err != nil {
			return domain.Container{}, err
		}
	}

	containerType := in.Type
	if containerType == "" {
		containerType = domain.DefaultContainerType
	}
	now := r.now()
	id := ident.NewID()
	c := domain.Container{
		ID:        id,
		ZoneID:    in.ZoneID,
		ParentID:  in.ParentID,
		Name:      in.Name,
		Type:      containerType,
		QRCode:    ident.QRCode(id),
		Photo:     in.Photo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.store.Insert(ctx, c); err != nil {
		return domain.Container{}, err
	}
	r.cache.Prepend(c)
	r.logger.Info("container created", "id", c.ID, "zone_id", c.ZoneID, "name", c.Name)
	return c, nil
}

func (r *ContainerRepo) Update(ctx context.Context, id string, patch domain.ContainerPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	now := r.now()
	if err := r.store.Update(ctx, id, patch, now); err != nil {
		return err
	}
	r.cache.Update(id, func(c *domain.Container) {
		patch.Apply(c)
		c.UpdatedAt = now
	})
	return nil
}

// Move re-parents a container within its zone; a nil parent makes it a
// root. Moves that would put a container inside itself are rejected.
func (r *ContainerRepo) Move(ctx context.Context, id string, parentID *string) error {
	c, err := r.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("container %s: %w", id, domain.ErrNotFound)
	}

	if parentID != nil {
		if err := r.checkParent(ctx, c.ZoneID, *parentID); err != nil {
			return err
		}
		lineage, err := r.store.Lineage(ctx, *parentID)
		if err != nil {
			return err
		}
		if slices.Contains(lineage, id) {
			return fmt.Errorf("%w: container %s cannot be moved inside itself", domain.ErrInvalid, id)
		}
	}

	now := r.now()
	if err := r.store.SetParent(ctx, id, parentID, now); err != nil {
		return err
	}
	r.cache.Update(id, func(c *domain.Container) {
		c.ParentID = parentID
		c.UpdatedAt = now
	})
	if parentID != nil {
		r.logger.Info("container moved", "id", id, "parent_id", *parentID)
	} else {
		r.logger.Info("container moved to zone root", "id", id)
	}
	return nil
}

func (r *ContainerRepo) checkParent(ctx context.Context, zoneID, parentID string) error {
	parent, err := r.store.GetByID(ctx, parentID)
	if err != nil {
		return err
	}
	if parent == nil {
		return fmt.Errorf("%w: parent container %s does not exist", domain.ErrInvalid, parentID)
	}
	if parent.ZoneID != zoneID {
		return fmt.Errorf("%w: parent container %s belongs to another zone", domain.ErrInvalid, parentID)
	}
	return nil
}

// Delete removes the container. Nested containers and items go with it in
// the store; PurgeSubtree drops their cached copies when the caller wants.
func (r *ContainerRepo) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete container %s: %w", id, err)
	}
	r.cache.Remove(id)
	r.logger.Info("container deleted", "id", id)
	return nil
}

// PurgeSubtree drops the cached descendants of id, and id itself, returning
// the removed container ids.
func (r *ContainerRepo) PurgeSubtree(id string) []string {
	removed := []string{id}
	for _, c := range hierarchy.NewIndex(r.cache.All()).Descendants(id) {
		removed = append(removed, c.ID)
	}
	r.cache.RemoveWhere(func(c domain.Container) bool { return slices.Contains(removed, c.ID) })
	return removed
}

func (r *ContainerRepo) ByID(id string) (domain.Container, bool) {
	return r.cache.Find(id)
}

// ByQRCode resolves a scanned code against the cache.
func (r *ContainerRepo) ByQRCode(code string) (domain.Container, bool) {
	return r.cache.FindFunc(func(c domain.Container) bool { return c.QRCode == code })
}

// LoadByQRCode reads the container with code from the store and merges it
// into the cache. The bool is false when no container has that code.
func (r *ContainerRepo) LoadByQRCode(ctx context.Context, code string) (domain.Container, bool, error) {
	c, err := r.store.GetByQRCode(ctx, code)
	if err != nil {
		return domain.Container{}, false, err
	}
	if c == nil {
		return domain.Container{}, false, nil
	}
	r.cache.ReplaceScope(func(domain.Container) bool { return false }, []domain.Container{*c})
	r.logger.Debug("container loaded by qr code", "id", c.ID)
	return *c, true, nil
}

func (r *ContainerRepo) ByZone(zoneID string) []domain.Container {
	return r.cache.Filter(func(c domain.Container) bool { return c.ZoneID == zoneID })
}

func (r *ContainerRepo) All() []domain.Container {
	return r.cache.All()
}
