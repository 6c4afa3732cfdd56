// Package catalog answers questions that span all four repositories: where
// an item lives, what matches a search, what a scanned code points to and
// how the inventory adds up.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vbonduro/stokosor/internal/domain"
	"github.com/vbonduro/stokosor/internal/hierarchy"
	"github.com/vbonduro/stokosor/internal/ident"
)

// SearchLimit caps the number of search results.
const SearchLimit = 50

type placeRepository interface {
	FetchAll(ctx context.Context) ([]domain.Place, error)
	All() []domain.Place
}

type zoneRepository interface {
	FetchAll(ctx context.Context) ([]domain.Zone, error)
	All() []domain.Zone
}

type containerRepository interface {
	FetchAll(ctx context.Context) ([]domain.Container, error)
	All() []domain.Container
	ByQRCode(code string) (domain.Container, bool)
	LoadByQRCode(ctx context.Context, code string) (domain.Container, bool, error)
	Delete(ctx context.Context, id string) error
	PurgeSubtree(id string) []string
}

type itemRepository interface {
	FetchAll(ctx context.Context) ([]domain.Item, error)
	All() []domain.Item
	PurgeContainers(containerIDs ...string) int
}

type Catalog struct {
	places     placeRepository
	zones      zoneRepository
	containers containerRepository
	items      itemRepository
	logger     *slog.Logger
}

func New(
	places placeRepository,
	zones zoneRepository,
	containers containerRepository,
	items itemRepository,
	logger *slog.Logger,
) *Catalog {
	return &Catalog{
		places:     places,
		zones:      zones,
		containers: containers,
		items:      items,
		logger:     logger,
	}
}

// Refresh reloads all four repositories concurrently. The first failure
// cancels the rest.
func (c *Catalog) Refresh(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := c.places.FetchAll(ctx)
		return err
	})
	g.Go(func() error {
		_, err := c.zones.FetchAll(ctx)
		return err
	})
	g.Go(func() error {
		_, err := c.containers.FetchAll(ctx)
		return err
	})
	g.Go(func() error {
		_, err := c.items.FetchAll(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to refresh catalog: %w", err)
	}
	c.logger.Debug("catalog refreshed")
	return nil
}

// Locator builds a path renderer over the current caches.
func (c *Catalog) Locator() *hierarchy.Locator {
	return hierarchy.NewLocator(c.places.All(), c.zones.All(), c.containers.All())
}

// ItemFullPath renders where it is stored, e.g. "Garage › Shelf Unit › Bin A".
func (c *Catalog) ItemFullPath(it domain.Item) string {
	return c.Locator().ItemPath(it)
}

// ResolveScan maps a scanned QR payload to a container. The cache answers
// first; a miss falls back to the store, so a container created since the
// last refresh still resolves.
func (c *Catalog) ResolveScan(ctx context.Context, code string) (domain.Container, bool, error) {
	id, ok := ident.ParseQRCode(code)
	if !ok {
		return domain.Container{}, false, nil
	}
	code = ident.QRCode(id)
	if found, ok := c.containers.ByQRCode(code); ok {
		return found, true, nil
	}
	found, ok, err := c.containers.LoadByQRCode(ctx, code)
	if err != nil {
		return domain.Container{}, false, fmt.Errorf("failed to resolve %s: %w", code, err)
	}
	return found, ok, nil
}

// DeleteContainer deletes a container and drops the cached copies of
// everything the store removed with it.
func (c *Catalog) DeleteContainer(ctx context.Context, id string) error {
	if err := c.containers.Delete(ctx, id); err != nil {
		return err
	}
	purged := c.containers.PurgeSubtree(id)
	items := c.items.PurgeContainers(purged...)
	c.logger.Debug("purged cached subtree", "container_id", id, "containers", len(purged), "items", items)
	return nil
}

type SearchResult struct {
	Item domain.Item `json:"item"`
	Path string      `json:"path"`
}

// Search matches query, case-insensitively, against the name, notes, tags,
// barcode, brand and model of cached items. category narrows the result;
// with neither a query nor a category there is nothing to search for.
func (c *Catalog) Search(query string, category *domain.Category) []SearchResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" && category == nil {
		return nil
	}

	locator := c.Locator()
	var results []SearchResult
	for _, it := range c.items.All() {
		if category != nil && it.Category != *category {
			continue
		}
		if query != "" && !matches(it, query) {
			continue
		}
		results = append(results, SearchResult{Item: it, Path: locator.ItemPath(it)})
		if len(results) == SearchLimit {
			break
		}
	}
	return results
}

func matches(it domain.Item, query string) bool {
	contains := func(s string) bool { return strings.Contains(strings.ToLower(s), query) }
	optional := func(s *string) bool { return s != nil && contains(*s) }

	if contains(it.Name) || optional(it.Notes) || optional(it.Barcode) || optional(it.Brand) || optional(it.Model) {
		return true
	}
	for _, tag := range it.Tags {
		if contains(tag) {
			return true
		}
	}
	return false
}
