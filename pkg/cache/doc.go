// Package cache provides a generic key-value cache with in-memory and Redis backends.
//
// Both backends implement [Cache]. [ReadThrough] adds load-on-miss with
// [golang.org/x/sync/singleflight], so concurrent misses for the same key
// hit the source once:
//
//	users := cache.NewReadThrough[model.User](cache.NewMemory[model.User](
//	    cache.WithDefaultTTL(5 * time.Minute),
//	))
//
//	u, err := users.GetOrLoad(ctx, "user:42", func(ctx context.Context) (model.User, time.Duration, error) {
//	    u, err := repo.Find(ctx, 42)
//	    if err != nil {
//	        return model.User{}, 0, err
//	    }
//	    return *u, 0, nil
//	})
//
// The Redis backend is built on [github.com/redis/go-redis/v9] and stores
// JSON by default; pass a [Marshaler] to change the encoding.
package cache
