package repo

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	id    string
	scope string
	rev   int
}

func newEntryCache() *Cache[entry] {
	return NewCache(func(e entry) string { return e.id })
}

func inScope(scope string) func(entry) bool {
	return func(e entry) bool { return e.scope == scope }
}

func TestCacheReplaceScopeKeepsOtherScopes(t *testing.T) {
	c := newEntryCache()
	c.ReplaceAll([]entry{{"a1", "a", 1}, {"b1", "b", 1}, {"a2", "a", 1}})

	c.ReplaceScope(inScope("a"), []entry{{"a3", "a", 2}, {"a4", "a", 2}})

	assert.Equal(t, []entry{{"b1", "b", 1}, {"a3", "a", 2}, {"a4", "a", 2}}, c.All())
}

func TestCacheReplaceScopeSupersedesMovedEntries(t *testing.T) {
	c := newEntryCache()
	c.ReplaceAll([]entry{{"x", "a", 1}})

	// x moved from scope a to b in the store.
	c.ReplaceScope(inScope("b"), []entry{{"x", "b", 2}})

	all := c.All()
	require.Len(t, all, 1)
	assert.Equal(t, "b", all[0].scope)
}

func TestCacheReplaceScopeWithNothingClearsScope(t *testing.T) {
	c := newEntryCache()
	c.ReplaceAll([]entry{{"a1", "a", 1}, {"b1", "b", 1}})

	c.ReplaceScope(inScope("a"), nil)

	assert.Equal(t, []entry{{"b1", "b", 1}}, c.All())
}

func TestCacheConcurrentDisjointScopes(t *testing.T) {
	c := newEntryCache()

	var wg sync.WaitGroup
	for s := 0; s < 8; s++ {
		wg.Add(1)
		go func(scope string) {
			defer wg.Done()
			fresh := make([]entry, 5)
			for i := range fresh {
				fresh[i] = entry{id: fmt.Sprintf("%s-%d", scope, i), scope: scope}
			}
			c.ReplaceScope(inScope(scope), fresh)
		}(fmt.Sprintf("s%d", s))
	}
	wg.Wait()

	assert.Equal(t, 40, c.Len())
}

func TestCachePrependUpdateRemove(t *testing.T) {
	c := newEntryCache()
	c.Prepend(entry{"a", "s", 1})
	c.Prepend(entry{"b", "s", 1})

	assert.Equal(t, "b", c.All()[0].id)

	assert.True(t, c.Update("a", func(e *entry) { e.rev = 2 }))
	assert.False(t, c.Update("missing", func(e *entry) { e.rev = 9 }))
	got, ok := c.Find("a")
	require.True(t, ok)
	assert.Equal(t, 2, got.rev)

	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))
	_, ok = c.Find("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestCacheAllReturnsCopy(t *testing.T) {
	c := newEntryCache()
	c.ReplaceAll([]entry{{"a", "s", 1}})

	all := c.All()
	all[0].rev = 99

	got, _ := c.Find("a")
	assert.Equal(t, 1, got.rev)
}
