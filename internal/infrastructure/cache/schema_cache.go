// Package cache keeps field definitions in memory between registry reads.
package cache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"pnodev/internal/metadata"
	"pnodev/internal/seed"
	"pnodev/pkg/logger"
)

var _ seed.FieldRegistry = (*FieldCache)(nil)

// InvalidationListener is called after entries of kind are dropped. An empty
// kind means everything was dropped.
type InvalidationListener func(kind metadata.FieldKind)

// FieldCache memoizes ListFields per filter. Writers must call Invalidate
// after changing fields.
type FieldCache struct {
	source seed.FieldRegistry

	mu      sync.RWMutex
	entries map[string]cacheEntry

	listenersMu sync.RWMutex
	listeners   []InvalidationListener
}

type cacheEntry struct {
	kind metadata.FieldKind
	defs []metadata.FieldDefinition
}

// NewFieldCache wraps source.
func NewFieldCache(source seed.FieldRegistry) *FieldCache {
	return &FieldCache{
		source:  source,
		entries: make(map[string]cacheEntry),
	}
}

// ListFields serves from cache or loads from the source.
func (c *FieldCache) ListFields(ctx context.Context, filter metadata.FieldFilter) ([]metadata.FieldDefinition, error) {
	key := filterKey(filter)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return cloneDefs(entry.defs), nil
	}

	defs, err := c.source.ListFields(ctx, filter)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{kind: filter.Kind, defs: cloneDefs(defs)}
	c.mu.Unlock()

	logger.Debug(ctx, "field cache filled", "key", key, "fields", len(defs))
	return defs, nil
}

// Invalidate drops entries for kind. Entries loaded without a kind filter
// are dropped too since they may contain kind.
func (c *FieldCache) Invalidate(kind metadata.FieldKind) {
	c.mu.Lock()
	for key, entry := range c.entries {
		if entry.kind == kind || entry.kind == "" {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
	c.notify(kind)
}

// InvalidateAll clears the cache.
func (c *FieldCache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
	c.notify("")
}

// Len returns the number of cached filters.
func (c *FieldCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// AddListener registers a callback for invalidations.
func (c *FieldCache) AddListener(l InvalidationListener) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	c.listeners = append(c.listeners, l)
}

func (c *FieldCache) notify(kind metadata.FieldKind) {
	c.listenersMu.RLock()
	listeners := append([]InvalidationListener(nil), c.listeners...)
	c.listenersMu.RUnlock()
	for _, l := range listeners {
		l(kind)
	}
}

func filterKey(f metadata.FieldFilter) string {
	types := make([]string, len(f.ExcludeTypes))
	for i, t := range f.ExcludeTypes {
		types[i] = string(t)
	}
	sort.Strings(types)
	where := ""
	if f.Where != nil {
		where = f.Where.String()
	}
	return fmt.Sprintf("%s|%t|%s|%s", f.Kind, f.OnlyGenerated, strings.Join(types, ","), where)
}

func cloneDefs(defs []metadata.FieldDefinition) []metadata.FieldDefinition {
	out := make([]metadata.FieldDefinition, len(defs))
	for i, d := range defs {
		d.Options = append([]metadata.Option(nil), d.Options...)
		out[i] = d
	}
	return out
}
