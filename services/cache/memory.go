package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type MemoryCache struct {
	store *gocache.Cache
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		store: gocache.New(gocache.NoExpiration, 5*time.Minute),
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	value, found := m.store.Get(key)
	if !found {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

func (m *MemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) {
	m.store.Set(key, value, ttl)
}

func (m *MemoryCache) Delete(_ context.Context, key string) {
	m.store.Delete(key)
}
