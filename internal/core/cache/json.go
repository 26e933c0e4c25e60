package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Typed caches JSON-encoded values of T inside one namespace. A Typed built
// on a nil Cache always calls load.
type Typed[T any] struct {
	c   *Cache
	ns  string
	ttl time.Duration
}

func NewTyped[T any](c *Cache, ns string, ttl time.Duration) *Typed[T] {
	return &Typed[T]{c: c, ns: ns, ttl: ttl}
}

func (t *Typed[T]) Enabled() bool { return t.c != nil }

// Get returns the value cached under suffix in the current generation.
// hit is true when Redis served it.
func (t *Typed[T]) Get(ctx context.Context, suffix string, load func(context.Context) (T, error)) (v T, hit bool, err error) {
	if t.c == nil {
		v, err = load(ctx)
		return v, false, err
	}
	b, hit, err := t.c.getOrLoad(ctx, t.c.Key(ctx, t.ns, suffix), t.ttl, func(ctx context.Context) ([]byte, error) {
		v, e := load(ctx)
		if e != nil {
			return nil, e
		}
		return json.Marshal(v)
	})
	if err != nil {
		return v, false, err
	}
	if err = json.Unmarshal(b, &v); err != nil {
		return v, false, err
	}
	return v, hit, nil
}

// Invalidate drops every value of the namespace by moving to a new
// generation. Old keys expire through their TTL.
func (t *Typed[T]) Invalidate(ctx context.Context) error {
	if t.c == nil {
		return nil
	}
	return t.c.Bump(ctx, t.ns)
}
