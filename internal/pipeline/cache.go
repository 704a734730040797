package pipeline

import (
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/opgen/internal/emit"
)

// ResultCache remembers finished results keyed by document content and
// generation options. Generation is deterministic, so a hit is
// byte-identical to a fresh run.
type ResultCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

type cacheEntry struct {
	res    *Result
	stored time.Time
}

func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// CacheKey identifies a run by its input bytes, file name and options.
func CacheKey(data []byte, filename string, opts emit.Options, goOpts emit.GoOptions) string {
	return ContentHashHex(data) + ":" + ContentHashHex(fmt.Appendf(nil, "%s\x00%+v\x00%+v", filename, opts, goOpts))
}

func (c *ResultCache) Get(key string) (*Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || time.Since(e.stored) > c.ttl {
		return nil, false
	}
	return e.res, true
}

func (c *ResultCache) Put(key string, res *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{res: res, stored: time.Now()}
}

// Cleanup removes expired entries.
func (c *ResultCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if now.Sub(e.stored) > c.ttl {
			delete(c.entries, k)
		}
	}
}

func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
