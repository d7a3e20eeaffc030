package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"agentdash/internal/logging"
	"agentdash/internal/types"
)

const (
	threadCacheGenerationKey = "agentdash:threads:gen"
	threadCachePagePrefix    = "agentdash:threads:page:"
	defaultThreadCacheTTL    = 30 * time.Second
)

// CachedThreadStore serves thread list pages from Redis. Writes bump a
// generation counter so every cached page becomes unreachable at once.
// Redis failures degrade to the underlying store.
type CachedThreadStore struct {
	next   ThreadStore
	client *redis.Client
	ttl    time.Duration
	logger logging.Logger
}

func NewCachedThreadStore(next ThreadStore, client *redis.Client, ttl time.Duration, logger logging.Logger) *CachedThreadStore {
	if ttl <= 0 {
		ttl = defaultThreadCacheTTL
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &CachedThreadStore{next: next, client: client, ttl: ttl, logger: logger}
}

func (c *CachedThreadStore) ListThreads(ctx context.Context, page, limit int) ([]*types.Thread, error) {
	generation, err := c.generation(ctx)
	if err != nil {
		c.logger.Warn("thread_cache_unavailable", logging.F("error", err))
		return c.next.ListThreads(ctx, page, limit)
	}
	key := threadPageKey(generation, page, limit)
	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var threads []*types.Thread
		if err := json.Unmarshal(raw, &threads); err == nil {
			return threads, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("thread_cache_get_failed", logging.F("key", key), logging.F("error", err))
	}

	threads, err := c.next.ListThreads(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(threads); err == nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.Warn("thread_cache_set_failed", logging.F("key", key), logging.F("error", err))
		}
	}
	return threads, nil
}

func (c *CachedThreadStore) GetThread(ctx context.Context, threadID string) (*types.Thread, error) {
	return c.next.GetThread(ctx, threadID)
}

func (c *CachedThreadStore) CreateThread(ctx context.Context, thread *types.Thread) (*types.Thread, error) {
	created, err := c.next.CreateThread(ctx, thread)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return created, nil
}

func (c *CachedThreadStore) DeleteThread(ctx context.Context, threadID string) error {
	if err := c.next.DeleteThread(ctx, threadID); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachedThreadStore) ListMessages(ctx context.Context, threadID string, query MessageQuery) ([]*types.Message, error) {
	return c.next.ListMessages(ctx, threadID, query)
}

func (c *CachedThreadStore) CreateMessage(ctx context.Context, message *types.Message) (*types.Message, error) {
	created, err := c.next.CreateMessage(ctx, message)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return created, nil
}

func (c *CachedThreadStore) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *CachedThreadStore) generation(ctx context.Context) (int64, error) {
	generation, err := c.client.Get(ctx, threadCacheGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return generation, err
}

func (c *CachedThreadStore) invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, threadCacheGenerationKey).Err(); err != nil {
		c.logger.Warn("thread_cache_invalidate_failed", logging.F("error", err))
	}
}

func threadPageKey(generation int64, page, limit int) string {
	return fmt.Sprintf("%s%d:%d:%d", threadCachePagePrefix, generation, page, limit)
}
