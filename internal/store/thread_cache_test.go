package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentdash/internal/types"
)

type countingThreadStore struct {
	threads   []*types.Thread
	listCalls int
}

func (s *countingThreadStore) ListThreads(ctx context.Context, page, limit int) ([]*types.Thread, error) {
	s.listCalls++
	return s.threads, nil
}

func (s *countingThreadStore) GetThread(ctx context.Context, threadID string) (*types.Thread, error) {
	for _, thread := range s.threads {
		if thread.ThreadID == threadID {
			return thread, nil
		}
	}
	return nil, ErrNotFound
}

func (s *countingThreadStore) CreateThread(ctx context.Context, thread *types.Thread) (*types.Thread, error) {
	s.threads = append([]*types.Thread{thread}, s.threads...)
	return thread, nil
}

func (s *countingThreadStore) DeleteThread(ctx context.Context, threadID string) error {
	return nil
}

func (s *countingThreadStore) ListMessages(ctx context.Context, threadID string, query MessageQuery) ([]*types.Message, error) {
	return nil, nil
}

func (s *countingThreadStore) CreateMessage(ctx context.Context, message *types.Message) (*types.Message, error) {
	return message, nil
}

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return client, mr
}

func TestCachedThreadStore_ServesRepeatListsFromRedis(t *testing.T) {
	client, _ := setupTestRedis(t)
	next := &countingThreadStore{threads: []*types.Thread{{ThreadID: "t1", Name: "One"}}}
	cache := NewCachedThreadStore(next, client, time.Minute, nil)
	ctx := context.Background()

	first, err := cache.ListThreads(ctx, 1, 100)
	require.NoError(t, err)
	second, err := cache.ListThreads(ctx, 1, 100)
	require.NoError(t, err)

	assert.Equal(t, 1, next.listCalls)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ThreadID, second[0].ThreadID)
}

func TestCachedThreadStore_WritesInvalidate(t *testing.T) {
	client, _ := setupTestRedis(t)
	next := &countingThreadStore{threads: []*types.Thread{{ThreadID: "t1"}}}
	cache := NewCachedThreadStore(next, client, time.Minute, nil)
	ctx := context.Background()

	_, err := cache.ListThreads(ctx, 1, 100)
	require.NoError(t, err)
	_, err = cache.CreateThread(ctx, &types.Thread{ThreadID: "t2"})
	require.NoError(t, err)

	threads, err := cache.ListThreads(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, next.listCalls)
	require.Len(t, threads, 2)
	assert.Equal(t, "t2", threads[0].ThreadID)
}

func TestCachedThreadStore_ExpiresWithTTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	next := &countingThreadStore{}
	cache := NewCachedThreadStore(next, client, 5*time.Second, nil)
	ctx := context.Background()

	_, err := cache.ListThreads(ctx, 1, 10)
	require.NoError(t, err)
	mr.FastForward(6 * time.Second)
	_, err = cache.ListThreads(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, next.listCalls)
}

func TestCachedThreadStore_FallsBackWhenRedisDown(t *testing.T) {
	client, mr := setupTestRedis(t)
	next := &countingThreadStore{threads: []*types.Thread{{ThreadID: "t1"}}}
	cache := NewCachedThreadStore(next, client, time.Minute, nil)
	mr.Close()

	threads, err := cache.ListThreads(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Len(t, threads, 1)
	assert.Error(t, cache.Ping(context.Background()))
}
