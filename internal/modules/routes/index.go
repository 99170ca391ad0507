// README: Route index backends: Redis set for deployments, in-memory for tests and single-node runs.
package routes

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

const redisRouteKey = "routes:names"

type RedisIndex struct {
	client *redis.Client
}

func NewRedisIndex(client *redis.Client) *RedisIndex {
	return &RedisIndex{client: client}
}

func (i *RedisIndex) Add(ctx context.Context, name string) error {
	return i.client.SAdd(ctx, redisRouteKey, name).Err()
}

func (i *RedisIndex) All(ctx context.Context) ([]string, error) {
	return i.client.SMembers(ctx, redisRouteKey).Result()
}

type MemoryIndex struct {
	mu    sync.RWMutex
	names map[string]struct{}
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{names: make(map[string]struct{})}
}

func (i *MemoryIndex) Add(ctx context.Context, name string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.names[name] = struct{}{}
	return nil
}

func (i *MemoryIndex) All(ctx context.Context) ([]string, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]string, 0, len(i.names))
	for n := range i.names {
		out = append(out, n)
	}
	return out, nil
}
