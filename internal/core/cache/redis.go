// Package cache is a Redis read-through cache. Keys are grouped into
// namespaces whose generation counter is bumped on every write, so one INCR
// invalidates all lists of a namespace.
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

type Cache struct {
	RDB    *redis.Client
	Prefix string
	sf     singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}))
}

func NewWithClient(rdb *redis.Client) *Cache {
	return &Cache{RDB: rdb, Prefix: "salon:"}
}

func (c *Cache) Ping(ctx context.Context) error { return c.RDB.Ping(ctx).Err() }

func (c *Cache) Close() error { return c.RDB.Close() }

// GetOrLoad returns the bytes under key, calling load on a miss.
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	b, _, err := c.getOrLoad(ctx, key, ttl, load)
	return b, err
}

// getOrLoad also reports whether the value came from Redis.
func (c *Cache) getOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, bool, error) {
	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, true, nil
	}
	// 同一 key 的并发未命中只回源一次
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = c.RDB.Set(ctx, key, b, ttl).Err()
		return b, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]byte), false, nil
}

// Version returns the current generation of namespace ns, 0 when unset or
// unreachable.
func (c *Cache) Version(ctx context.Context, ns string) int64 {
	v, err := c.RDB.Get(ctx, c.Prefix+ns+":ver").Int64()
	if err != nil {
		return 0
	}
	return v
}

func (c *Cache) Bump(ctx context.Context, ns string) error {
	return c.RDB.Incr(ctx, c.Prefix+ns+":ver").Err()
}

// Key builds <prefix><ns>:v<generation>:<suffix>.
func (c *Cache) Key(ctx context.Context, ns, suffix string) string {
	return c.Prefix + ns + ":v" + strconv.FormatInt(c.Version(ctx, ns), 10) + ":" + suffix
}
