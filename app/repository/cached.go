package repository

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/dmitrymomot/webkernel/app/model"
	"github.com/dmitrymomot/webkernel/pkg/cache"
	"github.com/dmitrymomot/webkernel/pkg/logger"
)

// Cached decorates a UserStore with a read-through cache for Find.
// Writes go to the store first and then drop the cached entry.
type Cached struct {
	store  UserStore
	users  *cache.ReadThrough[model.User]
	logger *slog.Logger
	ttl    time.Duration
}

// NewCached wraps store. A zero ttl uses the cache's default.
func NewCached(store UserStore, c cache.Cache[model.User], ttl time.Duration, l *slog.Logger) *Cached {
	if l == nil {
		l = logger.NewNope()
	}
	return &Cached{store: store, users: cache.NewReadThrough(c), logger: l, ttl: ttl}
}

func userKey(id int64) string {
	return "user:" + strconv.FormatInt(id, 10)
}

func (c *Cached) Find(ctx context.Context, id int64) (*model.User, error) {
	u, err := c.users.GetOrLoad(ctx, userKey(id), func(ctx context.Context) (model.User, time.Duration, error) {
		u, err := c.store.Find(ctx, id)
		if err != nil {
			return model.User{}, 0, err
		}
		return *u, c.ttl, nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindAll is not cached; listing must reflect inserts immediately.
func (c *Cached) FindAll(ctx context.Context) ([]model.User, error) {
	return c.store.FindAll(ctx)
}

func (c *Cached) Save(ctx context.Context, u *model.User) error {
	if err := c.store.Save(ctx, u); err != nil {
		return err
	}
	c.forget(ctx, u.ID)
	return nil
}

func (c *Cached) Delete(ctx context.Context, id int64) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}
	c.forget(ctx, id)
	return nil
}

func (c *Cached) forget(ctx context.Context, id int64) {
	if err := c.users.Forget(ctx, userKey(id)); err != nil {
		c.logger.WarnContext(ctx, "failed to invalidate cached user",
			slog.Int64("user_id", id),
			slog.String("error", err.Error()),
		)
	}
}

var _ UserStore = (*Cached)(nil)
