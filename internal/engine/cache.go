package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/couchcryptid/climate-risk-engine/internal/observability"
)

// Analyzer is the analysis entry point exposed to transport adapters.
type Analyzer interface {
	Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResult, error)
}

// CachedAnalyzer wraps an Analyzer with an in-memory LRU cache keyed by a
// digest of the request. Analyses are pure functions of their inputs, so
// the ambient system's recompute-on-change pattern (same hazard, variable,
// and time selection issued repeatedly) hits the cache instead of
// re-walking the tree.
type CachedAnalyzer struct {
	inner   Analyzer
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedAnalyzer creates a cache decorator around an analyzer.
func NewCachedAnalyzer(inner Analyzer, maxEntries int, metrics *observability.Metrics) *CachedAnalyzer {
	return &CachedAnalyzer{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedAnalyzer) Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResult, error) {
	key, ok := requestDigest(req)
	if !ok {
		return c.inner.Analyze(ctx, req)
	}
	if result, hit := c.cache.get(key); hit {
		c.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return result, nil
	}
	c.metrics.CacheLookups.WithLabelValues("miss").Inc()

	result, err := c.inner.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}
	c.cache.put(key, result)
	return result, nil
}

// requestDigest produces a deterministic key for a request. Serialization
// failure (should not happen for JSON-shaped requests) just bypasses the
// cache.
func requestDigest(req *AnalyzeRequest) (string, bool) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", false
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), true
}

// lruCache is a simple thread-safe LRU cache for analysis results.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value *AnalyzeResult
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (*AnalyzeResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value *AnalyzeResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
