package content

import (
	"context"
	"encoding/json"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ridgeline/pkg/cache"
	"github.com/matzehuels/ridgeline/pkg/observability"
)

// CachedStore serves List from a cache, falling back to the wrapped store
// on a miss. Entries live for [cache.TTLContent].
type CachedStore struct {
	Store  Store
	Cache  cache.Cache
	Keyer  cache.Keyer
	Source string // Distinguishes backends sharing one cache
	Logger *log.Logger
}

// NewCachedStore wraps s. A nil keyer uses the default keyer; a nil logger
// uses the default logger.
func NewCachedStore(s Store, c cache.Cache, keyer cache.Keyer, source string, logger *log.Logger) *CachedStore {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &CachedStore{Store: s, Cache: c, Keyer: keyer, Source: source, Logger: logger}
}

// List returns the cached records of cat or loads and caches them.
func (s *CachedStore) List(ctx context.Context, cat Category) ([]Record, error) {
	if err := checkCategory(cat); err != nil {
		return nil, err
	}
	key := s.Keyer.ContentKey(s.Source, string(cat))
	if data, hit, err := s.Cache.Get(ctx, key); err == nil && hit {
		var recs []Record
		if err := json.Unmarshal(data, &recs); err == nil {
			observability.Cache().OnCacheHit(ctx, "content")
			return recs, nil
		}
		// If deserialization fails, fall through to reload
	}
	observability.Cache().OnCacheMiss(ctx, "content")

	recs, err := s.Store.List(ctx, cat)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(recs); err == nil {
		if err := s.Cache.Set(ctx, key, data, cache.TTLContent); err != nil {
			s.Logger.Warn("content cache write failed", "category", cat, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "content", len(data))
		}
	}
	return recs, nil
}

// Categories returns the wrapped store's categories.
func (s *CachedStore) Categories() []Category { return s.Store.Categories() }

// Close closes the wrapped store. The cache is owned by the caller.
func (s *CachedStore) Close() error { return s.Store.Close() }

var _ Store = (*CachedStore)(nil)
