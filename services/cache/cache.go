package cache

import (
	"context"
	"time"
)

// Cache is the small key/value surface the rates provider needs: a string store
// with per-entry TTL. Backed by redis when one is configured, an in-process
// TTL cache otherwise.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string, ttl time.Duration)
	Delete(ctx context.Context, key string)
}
