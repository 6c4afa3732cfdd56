// Package repo holds the cached entity repositories. Each repository owns a
// Cache that is filled by fetches and kept in step with every confirmed write.
package repo

import "sync"

// Cache is an ordered in-memory copy of one entity table. Fetches of
// disjoint scopes merge without clobbering each other, so it is safe to
// fetch several scopes concurrently.
type Cache[T any] struct {
	mu      sync.RWMutex
	entries []T
	idOf    func(T) string
}

func NewCache[T any](idOf func(T) string) *Cache[T] {
	return &Cache[T]{idOf: idOf}
}

// ReplaceAll swaps the whole content for fresh.
func (c *Cache[T]) ReplaceAll(fresh []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append([]T(nil), fresh...)
}

// ReplaceScope drops every entry matched by inScope, plus any entry that
// fresh supersedes by id, and appends fresh after the survivors. Only the
// fetched scope keeps its store order; the cache as a whole is not sorted
// by updated_at after a scoped merge.
func (c *Cache[T]) ReplaceScope(inScope func(T) bool, fresh []T) {
	ids := make(map[string]struct{}, len(fresh))
	for _, v := range fresh {
		ids[c.idOf(v)] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	merged := make([]T, 0, len(fresh)+len(c.entries))
	for _, v := range c.entries {
		if _, superseded := ids[c.idOf(v)]; superseded || inScope(v) {
			continue
		}
		merged = append(merged, v)
	}
	c.entries = append(merged, fresh...)
}

func (c *Cache[T]) Prepend(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append([]T{v}, c.entries...)
}

// Update runs fn on the cached entry with id and reports whether it exists.
func (c *Cache[T]) Update(id string, fn func(*T)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.entries {
		if c.idOf(c.entries[i]) == id {
			fn(&c.entries[i])
			return true
		}
	}
	return false
}

// RemoveWhere drops every entry matched by pred and returns how many went.
func (c *Cache[T]) RemoveWhere(pred func(T) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.entries[:0]
	for _, v := range c.entries {
		if !pred(v) {
			kept = append(kept, v)
		}
	}
	removed := len(c.entries) - len(kept)
	clear(c.entries[len(kept):])
	c.entries = kept
	return removed
}

func (c *Cache[T]) Remove(id string) bool {
	return c.RemoveWhere(func(v T) bool { return c.idOf(v) == id }) > 0
}

func (c *Cache[T]) Find(id string) (T, bool) {
	return c.FindFunc(func(v T) bool { return c.idOf(v) == id })
}

// FindFunc returns the first entry matched by pred.
func (c *Cache[T]) FindFunc(pred func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, v := range c.entries {
		if pred(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Filter returns the entries matched by pred in cache order.
func (c *Cache[T]) Filter(pred func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []T
	for _, v := range c.entries {
		if pred(v) {
			out = append(out, v)
		}
	}
	return out
}

// All returns a copy of every entry in cache order.
func (c *Cache[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T(nil), c.entries...)
}

func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
