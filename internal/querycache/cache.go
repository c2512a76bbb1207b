// Package querycache caches metadata query results under hierarchical keys
// so a mutation can invalidate everything below a prefix.
package querycache

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Key is an ordered tuple such as {"views", ref, "schema", "public"}.
type Key []string

func (k Key) String() string {
	return strings.Join(k, "\x1f")
}

// HasPrefix reports whether prefix matches the leading elements of k.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

// EntityTypeList is the key of the entity-type listing for a project.
func EntityTypeList(ref string) Key {
	return Key{"entity-types", ref, "list"}
}

// ViewListBySchema is the key of every view listing in a schema.
func ViewListBySchema(ref, schema string) Key {
	return Key{"views", ref, "schema", schema}
}

// View is the key of a single view by id.
func View(ref string, id int64) Key {
	return Key{"views", ref, "view", strconv.FormatInt(id, 10)}
}

// Columns is the key of the column listing of a table or view. It sits
// below View so dropping the view drops its columns too.
func Columns(ref string, id int64) Key {
	return append(View(ref, id), "columns")
}

// Cache is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	// generation increments on every invalidation so an in-flight load
	// that started before it is not stored.
	generation uint64
	group      singleflight.Group
}

type entry struct {
	key   Key
	value any
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

// Fetch returns the cached value for key, or runs load once for all
// concurrent callers and caches its result. Errors are not cached.
func (c *Cache) Fetch(ctx context.Context, key Key, load func(context.Context) (any, error)) (any, error) {
	id := key.String()
	c.mu.RLock()
	e, ok := c.entries[id]
	gen := c.generation
	c.mu.RUnlock()
	if ok {
		return e.value, nil
	}

	// Loads are shared per generation so a Fetch issued after Invalidate
	// never joins a load that started before it.
	flight := id + "#" + strconv.FormatUint(gen, 10)
	v, err, _ := c.group.Do(flight, func() (any, error) {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.generation == gen {
			c.entries[id] = entry{key: append(Key(nil), key...), value: value}
		}
		c.mu.Unlock()
		return value, nil
	})
	return v, err
}

// Peek returns the cached value without loading.
func (c *Cache) Peek(key Key) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key.String()]
	return e.value, ok
}

// Invalidate drops every entry whose key starts with prefix. It returns
// ctx.Err() if the context is already done.
func (c *Cache) Invalidate(ctx context.Context, prefix Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	for id, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			delete(c.entries, id)
		}
	}
	return nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
