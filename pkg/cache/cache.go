// Package cache provides byte-oriented caching for rendered backdrop
// artifacts and content registry snapshots.
//
// Backends: [FileCache] (JSON files, the CLI default), [RedisCache] (shared
// by server replicas), [MemoryCache] (single-process server) and
// [NullCache] (caching disabled).
//
// Keys are produced by a [Keyer]. [DefaultKeyer] hashes the inputs that
// determine an artifact; [ScopedKeyer] prefixes them for isolation.
package cache

import (
	"context"
	"errors"
	"time"
)

// Default time-to-live values.
const (
	// TTLArtifact applies to rendered backdrop frames. Renders are fully
	// determined by their key, so entries only expire to bound storage.
	TTLArtifact = 7 * 24 * time.Hour

	// TTLContent applies to content registry snapshots.
	TTLContent = 10 * time.Minute
)

// ErrClosed is returned by operations on a closed cache.
var ErrClosed = errors.New("cache closed")

// Cache is a key/value store for opaque byte payloads.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop every ridgeline entry
// at once. It returns how many entries were removed.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// NullCache always misses and discards writes.
type NullCache struct{}

// NewNullCache returns a [NullCache] as a [Cache].
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)         { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
