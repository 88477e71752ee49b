package cache

import (
	"context"
	"errors"
)

// CatalogCache stores JSON encoded catalogue reads under short string keys.
type CatalogCache interface {
	Get(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error
}

// IdempotencyStore is a short-lived lock table keyed by scope and key. Only
// the token returned by TryLock can release a lock.
type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (token string, ok bool, err error)
	Release(ctx context.Context, scope, key, token string) error
}

var ErrCacheMiss = errors.New("cache miss")
