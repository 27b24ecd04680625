package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"pilot-pulse/internal/domain"
)

// TrendCache guarda la ultima agregacion calculada hasta que llega una respuesta nueva.
type TrendCache interface {
	Get(ctx context.Context) (domain.PulseTrends, bool)
	Set(ctx context.Context, trends domain.PulseTrends) error
	Invalidate(ctx context.Context) error
}

type memoryTrendCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	value   *domain.PulseTrends
	expires time.Time
}

func NewMemoryTrendCache(ttl time.Duration) TrendCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &memoryTrendCache{ttl: ttl}
}

func (c *memoryTrendCache) Get(_ context.Context) (domain.PulseTrends, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.value == nil {
		return domain.PulseTrends{}, false
	}
	if time.Now().UTC().After(c.expires) {
		c.value = nil
		return domain.PulseTrends{}, false
	}
	return *c.value, true
}

func (c *memoryTrendCache) Set(_ context.Context, trends domain.PulseTrends) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = &trends
	c.expires = time.Now().UTC().Add(c.ttl)
	return nil
}

func (c *memoryTrendCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = nil
	return nil
}

type redisKVClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisTrendCache struct {
	client redisKVClient
	key    string
	ttl    time.Duration
}

func NewRedisTrendCache(client *redis.Client, ttl time.Duration) TrendCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &redisTrendCache{
		client: client,
		key:    "pulse:trends",
		ttl:    ttl,
	}
}

// Get trata cualquier error de Redis o payload corrupto como cache miss.
func (c *redisTrendCache) Get(ctx context.Context) (domain.PulseTrends, bool) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	payload, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		return domain.PulseTrends{}, false
	}
	var trends domain.PulseTrends
	if err := json.Unmarshal(payload, &trends); err != nil {
		return domain.PulseTrends{}, false
	}
	return trends, true
}

func (c *redisTrendCache) Set(ctx context.Context, trends domain.PulseTrends) error {
	payload, err := json.Marshal(trends)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return c.client.Set(ctx, c.key, payload, c.ttl).Err()
}

func (c *redisTrendCache) Invalidate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	err := c.client.Del(ctx, c.key).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
