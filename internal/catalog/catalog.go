// Package catalog holds the in-memory registry of cosmetic item definitions,
// indexed by id, category and content pack. The server process owns the one
// authoritative instance; clients hold read-only mirrors synchronized out of
// band.
package catalog

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/aethergame/vanitycore/internal/domain"
)

// snapshot is one immutable generation of the catalog. Readers load the
// current snapshot atomically; writers build a replacement and swap it in,
// so a reader sees either the old or the new catalog, never a partial one.
type snapshot struct {
	ordered    []domain.Item
	byID       map[string]int // index into ordered
	byCategory map[domain.Category][]int
	byPack     map[string][]int
}

// Catalog is the multiply-indexed item registry. The zero value is not
// usable; construct with New.
type Catalog struct {
	current atomic.Pointer[snapshot]
	writeMu sync.Mutex // serializes ReloadAll / MergeProperties
	gen     atomic.Uint64
}

// New returns an empty catalog.
func New() *Catalog {
	c := &Catalog{}
	c.current.Store(buildSnapshot(nil))
	return c
}

func buildSnapshot(items []domain.Item) *snapshot {
	s := &snapshot{
		ordered:    items,
		byID:       make(map[string]int, len(items)),
		byCategory: make(map[domain.Category][]int),
		byPack:     make(map[string][]int),
	}
	for i, it := range items {
		s.byID[it.ID] = i
		s.byCategory[it.Category] = append(s.byCategory[it.Category], i)
		s.byPack[it.Pack] = append(s.byPack[it.Pack], i)
	}
	return s
}

// Generation returns a counter incremented on every catalog mutation.
// Consumers caching derived data (the effect dispatcher) key off it.
func (c *Catalog) Generation() uint64 {
	return c.gen.Load()
}

// ReloadAll atomically replaces the entire catalog with defs, prepended with
// the built-in seed set when includeSeed is true. Definitions with an empty
// id or category are skipped with a diagnostic; a duplicate id keeps the
// first occurrence. A single bad entry never aborts the reload.
func (c *Catalog) ReloadAll(defs []domain.Item, includeSeed bool) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	var source []domain.Item
	if includeSeed {
		source = append(source, SeedItems()...)
	}
	source = append(source, defs...)

	accepted := make([]domain.Item, 0, len(source))
	seen := make(map[string]bool, len(source))
	skipped := 0
	for _, def := range source {
		if def.ID == "" || def.Category == "" {
			slog.Warn("Skipping malformed item definition", "id", def.ID, "category", def.Category)
			skipped++
			continue
		}
		if seen[def.ID] {
			slog.Warn("Skipping duplicate item definition", "id", def.ID)
			skipped++
			continue
		}
		seen[def.ID] = true
		if def.Pack == "" {
			def.Pack = domain.PackBase
		}
		accepted = append(accepted, def.Clone())
	}

	c.current.Store(buildSnapshot(accepted))
	c.gen.Add(1)
	slog.Info("Catalog reloaded", "items", len(accepted), "skipped", skipped, "seed", includeSeed)
}

// MergeProperties layers overrides on top of the properties of an existing
// definition and swaps the result into all indices, preserving the item's id,
// category, pack and list position. Unknown ids are ignored: the catalog
// accepts overrides from multiple, possibly-stale configuration sources, so
// a dangling override is best-effort layering, not an error.
func (c *Catalog) MergeProperties(id string, overrides map[string]string) {
	if len(overrides) == 0 {
		return
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	old := c.current.Load()
	idx, ok := old.byID[id]
	if !ok {
		slog.Debug("Property override for unknown item ignored", "id", id)
		return
	}

	items := make([]domain.Item, len(old.ordered))
	for i, it := range old.ordered {
		items[i] = it.Clone()
	}
	items[idx].Props = items[idx].Props.Merge(domain.NewProps(overrides))

	c.current.Store(buildSnapshot(items))
	c.gen.Add(1)
}

// Get returns a copy of the definition for id.
func (c *Catalog) Get(id string) (domain.Item, bool) {
	s := c.current.Load()
	idx, ok := s.byID[id]
	if !ok {
		return domain.Item{}, false
	}
	return s.ordered[idx].Clone(), true
}

// ByCategory returns copies of every definition in the category, in catalog
// order. Never nil, only empty.
func (c *Catalog) ByCategory(cat domain.Category) []domain.Item {
	s := c.current.Load()
	return cloneIndexed(s, s.byCategory[cat])
}

// ByPack returns copies of every definition in the content pack, in catalog
// order. Never nil, only empty.
func (c *Catalog) ByPack(pack string) []domain.Item {
	s := c.current.Load()
	return cloneIndexed(s, s.byPack[pack])
}

// All returns copies of every definition in catalog order.
func (c *Catalog) All() []domain.Item {
	s := c.current.Load()
	out := make([]domain.Item, 0, len(s.ordered))
	for _, it := range s.ordered {
		out = append(out, it.Clone())
	}
	return out
}

// AllCategories returns every category with at least one definition, in
// first-seen catalog order.
func (c *Catalog) AllCategories() []domain.Category {
	s := c.current.Load()
	out := make([]domain.Category, 0, len(s.byCategory))
	seen := make(map[domain.Category]bool, len(s.byCategory))
	for _, it := range s.ordered {
		if !seen[it.Category] {
			seen[it.Category] = true
			out = append(out, it.Category)
		}
	}
	return out
}

// AllPacks returns every content pack with at least one definition, in
// first-seen catalog order.
func (c *Catalog) AllPacks() []string {
	s := c.current.Load()
	out := make([]string, 0, len(s.byPack))
	seen := make(map[string]bool, len(s.byPack))
	for _, it := range s.ordered {
		if !seen[it.Pack] {
			seen[it.Pack] = true
			out = append(out, it.Pack)
		}
	}
	return out
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	return len(c.current.Load().ordered)
}

func cloneIndexed(s *snapshot, idxs []int) []domain.Item {
	out := make([]domain.Item, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, s.ordered[i].Clone())
	}
	return out
}
