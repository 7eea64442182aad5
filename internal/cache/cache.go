// Package cache provides a small read-through cache for hot listings, backed
// by Redis. Values are stored as JSON under a key prefix. Cache failures are
// never fatal: a failed read falls through to the loader and a failed write
// is dropped.
//
// Concurrent misses on the same key are collapsed with singleflight so that
// only one loader call reaches the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Store is the byte-level backend used by Loader.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Redis is a Store on top of a go-redis client.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis wraps a client built from opts. Keys are namespaced by prefix.
func NewRedis(opts *redis.Options, prefix string) *Redis {
	return &Redis{client: redis.NewClient(opts), prefix: prefix}
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the client's connections.
func (r *Redis) Close() error { return r.client.Close() }

// Get returns the value at key. A missing key is (nil, false, nil).
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Set stores val at key for ttl.
func (r *Redis) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+key, val, ttl).Err()
}

// Delete removes keys.
func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.prefix + k
	}
	return r.client.Del(ctx, full...).Err()
}

// Loader is a read-through cache in front of a Store. A nil *Loader, or one
// without a Store, always calls the fill function.
type Loader struct {
	Store Store
	TTL   time.Duration

	// OnError, when set, receives cache errors that were swallowed.
	OnError func(op string, err error)

	group singleflight.Group
}

// Invalidate drops keys. Errors are reported through OnError only.
func (l *Loader) Invalidate(ctx context.Context, keys ...string) {
	if l == nil || l.Store == nil {
		return
	}
	if err := l.Store.Delete(ctx, keys...); err != nil {
		l.report("delete", err)
	}
}

func (l *Loader) report(op string, err error) {
	if l.OnError != nil {
		l.OnError(op, err)
	}
}

// Fetch returns the cached value at key or calls fill, stores its result and
// returns it. Concurrent misses for the same key share one fill call.
func Fetch[T any](ctx context.Context, l *Loader, key string, fill func(context.Context) (T, error)) (T, error) {
	if l == nil || l.Store == nil {
		return fill(ctx)
	}

	if b, ok, err := l.Store.Get(ctx, key); err != nil {
		l.report("get", err)
	} else if ok {
		var v T
		uerr := json.Unmarshal(b, &v)
		if uerr == nil {
			return v, nil
		}
		l.report("decode", uerr)
	}

	res, err, _ := l.group.Do(key, func() (any, error) {
		v, err := fill(ctx)
		if err != nil {
			return v, err
		}
		if b, err := json.Marshal(v); err != nil {
			l.report("encode", err)
		} else if err := l.Store.Set(ctx, key, b, l.TTL); err != nil {
			l.report("set", err)
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}
