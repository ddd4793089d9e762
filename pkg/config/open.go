package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ridgeline/pkg/cache"
	"github.com/matzehuels/ridgeline/pkg/content"
)

// appName names the cache and config directories.
const appName = "ridgeline"

// DefaultCacheDir returns the cache directory using XDG standard
// (~/.cache/ridgeline/).
func DefaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// CacheDir returns the configured file cache directory.
func (c CacheConfig) CacheDir() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	return DefaultCacheDir()
}

// OpenCache builds the configured artifact cache.
func (c CacheConfig) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case CacheRedis:
		rc, err := cache.NewRedisCache(ctx, c.RedisURL)
		if err != nil {
			return nil, err
		}
		rc.SetScope(c.Prefix)
		return rc, nil
	case CacheMemory:
		return cache.NewMemoryCache(), nil
	case CacheNone:
		return cache.NewNullCache(), nil
	}
	dir, err := c.CacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// Keyer returns the cache keyer, scoped when a prefix is configured.
func (c CacheConfig) Keyer() cache.Keyer {
	if c.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Prefix)
}

// OpenStore builds the configured content store. Non-embedded sources are
// fronted by c so repeated listings skip the backend.
func (c Config) OpenStore(ctx context.Context, ch cache.Cache, logger *log.Logger) (content.Store, error) {
	var (
		store content.Store
		err   error
	)
	switch c.Content.Source {
	case ContentTOML:
		store, err = content.OpenTOML(c.Content.Path)
	case ContentMongo:
		store, err = content.NewMongoStore(ctx, c.Content.MongoURI, c.Content.MongoDatabase)
	default:
		return content.DefaultStore(), nil
	}
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return store, nil
	}
	return content.NewCachedStore(store, ch, c.Cache.Keyer(), c.Content.Source, logger), nil
}
