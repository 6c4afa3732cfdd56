// Package hierarchy answers tree questions about containers: which are the
// roots of a zone, what a container holds, and the chain of containers
// leading to it. It works purely over an in-memory container set.
package hierarchy

import (
	"strings"

	"github.com/vbonduro/stokosor/internal/domain"
)

// Separator joins the names of a location path.
const Separator = " › "

// JoinPath joins the non-empty names with Separator.
func JoinPath(names ...string) string {
	kept := names[:0:0]
	for _, n := range names {
		if n != "" {
			kept = append(kept, n)
		}
	}
	return strings.Join(kept, Separator)
}

// Names returns the container names of path in order.
func Names(path []domain.Container) []string {
	names := make([]string, len(path))
	for i, c := range path {
		names[i] = c.Name
	}
	return names
}

// Index is a read-only view over a container set, built once and queried
// many times.
type Index struct {
	ordered []domain.Container
	byID    map[string]domain.Container
}

func NewIndex(containers []domain.Container) *Index {
	byID := make(map[string]domain.Container, len(containers))
	for _, c := range containers {
		byID[c.ID] = c
	}
	return &Index{ordered: containers, byID: byID}
}

func (x *Index) Container(id string) (domain.Container, bool) {
	c, ok := x.byID[id]
	return c, ok
}

// Roots returns the containers of zoneID that have no parent.
func (x *Index) Roots(zoneID string) []domain.Container {
	var out []domain.Container
	for _, c := range x.ordered {
		if c.ZoneID == zoneID && c.IsRoot() {
			out = append(out, c)
		}
	}
	return out
}

// Children returns the containers directly inside id.
func (x *Index) Children(id string) []domain.Container {
	var out []domain.Container
	for _, c := range x.ordered {
		if c.ParentID != nil && *c.ParentID == id {
			out = append(out, c)
		}
	}
	return out
}

// AncestorPath returns the chain from the outermost container down to id,
// inclusive. A missing link ends the chain early; a container seen twice
// means the parent links loop, and the walk stops there.
func (x *Index) AncestorPath(id string) []domain.Container {
	var reversed []domain.Container
	seen := make(map[string]bool)
	for cur, ok := x.byID[id]; ok && !seen[cur.ID]; {
		seen[cur.ID] = true
		reversed = append(reversed, cur)
		if cur.IsRoot() {
			break
		}
		cur, ok = x.byID[*cur.ParentID]
	}

	path := make([]domain.Container, len(reversed))
	for i, c := range reversed {
		path[len(reversed)-1-i] = c
	}
	return path
}

// Descendants returns every container transitively inside id, breadth
// first, excluding id itself.
func (x *Index) Descendants(id string) []domain.Container {
	children := make(map[string][]domain.Container)
	for _, c := range x.ordered {
		if !c.IsRoot() {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}

	var out []domain.Container
	seen := map[string]bool{id: true}
	queue := []string{id}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		for _, c := range children[next] {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			out = append(out, c)
			queue = append(queue, c.ID)
		}
	}
	return out
}

// Source supplies the current container set, typically a repository cache.
type Source interface {
	All() []domain.Container
}

// Resolver answers hierarchy queries against whatever Source holds at the
// time of the call. It never reaches the store.
type Resolver struct {
	src Source
}

func NewResolver(src Source) *Resolver {
	return &Resolver{src: src}
}

// Index snapshots the source for a batch of queries.
func (r *Resolver) Index() *Index {
	return NewIndex(r.src.All())
}

func (r *Resolver) RootContainers(zoneID string) []domain.Container {
	return r.Index().Roots(zoneID)
}

func (r *Resolver) Children(id string) []domain.Container {
	return r.Index().Children(id)
}

func (r *Resolver) AncestorPath(id string) []domain.Container {
	return r.Index().AncestorPath(id)
}

func (r *Resolver) Descendants(id string) []domain.Container {
	return r.Index().Descendants(id)
}
