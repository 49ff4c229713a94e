package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is a generic key-value cache with TTL support.
//
// TTL semantics for Set:
//   - Positive duration: item expires after this duration
//   - Zero: use the cache's configured default TTL
//   - Negative: item never expires
type Cache[V any] interface {
	// Get retrieves a value by key.
	// Returns ErrNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key string) (V, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error

	// Delete removes a key from the cache. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Option configures a cache backend.
type Option func(*options)

type options struct {
	prefix     string
	defaultTTL time.Duration
	maxEntries int
}

func buildOptions(opts []Option) options {
	o := options{defaultTTL: time.Hour}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDefaultTTL sets the expiration used when Set is called with a zero TTL.
// Default: 1 hour.
func WithDefaultTTL(d time.Duration) Option {
	return func(o *options) {
		if d != 0 {
			o.defaultTTL = d
		}
	}
}

// WithPrefix namespaces keys as "{prefix}:{key}".
// Only the Redis backend stores keys with the prefix.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithMaxEntries caps the in-memory cache size. When full, expired entries
// are dropped first, then the entry closest to expiry.
// Zero means unlimited.
func WithMaxEntries(n int) Option {
	return func(o *options) {
		o.maxEntries = max(n, 0)
	}
}

// Marshaler serializes cache values for backends that store bytes.
type Marshaler[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

type jsonMarshaler[V any] struct{}

func (jsonMarshaler[V]) Marshal(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func (jsonMarshaler[V]) Unmarshal(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}

// ReadThrough loads missing values through a callback and stores them.
// Concurrent misses for the same key share a single load.
type ReadThrough[V any] struct {
	cache Cache[V]
	group singleflight.Group
}

// NewReadThrough wraps c.
func NewReadThrough[V any](c Cache[V]) *ReadThrough[V] {
	return &ReadThrough[V]{cache: c}
}

// Cache returns the wrapped cache.
func (rt *ReadThrough[V]) Cache() Cache[V] {
	return rt.cache
}

type loaded[V any] struct {
	val V
	ttl time.Duration
}

// GetOrLoad returns the cached value for key, or calls load on a miss.
// load returns the value, the TTL to cache it with and an error; failed
// loads are not cached. Cache write failures are ignored.
func (rt *ReadThrough[V]) GetOrLoad(ctx context.Context, key string, load func(ctx context.Context) (V, time.Duration, error)) (V, error) {
	if v, err := rt.cache.Get(ctx, key); err == nil {
		return v, nil
	}

	res, err, _ := rt.group.Do(key, func() (any, error) {
		val, ttl, err := load(ctx)
		if err != nil {
			return nil, err
		}
		_ = rt.cache.Set(ctx, key, val, ttl)
		return loaded[V]{val: val, ttl: ttl}, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(loaded[V]).val, nil
}

// Forget drops key from the cache.
func (rt *ReadThrough[V]) Forget(ctx context.Context, key string) error {
	rt.group.Forget(key)
	return rt.cache.Delete(ctx, key)
}
