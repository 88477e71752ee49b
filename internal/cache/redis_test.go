package cache

import (
	"context"
	"testing"
	"time"

	"github.com/GeoAziz/cyberfeast/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestCache_SetGet(t *testing.T) {
	client, _ := setupTestRedis(t)
	c := NewRedisCache(client, 5*time.Minute)
	ctx := context.Background()

	in := []domain.Restaurant{{ID: "r1", Name: "Cyber Sushi", Slug: "cyber-sushi"}}
	require.NoError(t, c.Set(ctx, "restaurants", in))

	var out []domain.Restaurant
	require.NoError(t, c.Get(ctx, "restaurants", &out))
	assert.Equal(t, in, out)
}

func TestCache_Miss(t *testing.T) {
	client, _ := setupTestRedis(t)
	c := NewRedisCache(client, 5*time.Minute)

	var out []domain.Restaurant
	err := c.Get(context.Background(), "nonexistent", &out)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCache_InvalidJSON(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisCache(client, 5*time.Minute)
	require.NoError(t, mr.Set(cacheKey("restaurants"), `[{"id":`))

	var out []domain.Restaurant
	err := c.Get(context.Background(), "restaurants", &out)
	assert.ErrorContains(t, err, "unmarshal restaurants failed")
}

func TestCache_TTLWithJitter(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisCache(client, 5*time.Minute)

	require.NoError(t, c.Set(context.Background(), "restaurant:r1", domain.Restaurant{ID: "r1"}))

	ttl := mr.TTL(cacheKey("restaurant:r1"))
	assert.GreaterOrEqual(t, ttl, 5*time.Minute)
	assert.LessOrEqual(t, ttl, 6*time.Minute)
}

func TestCache_DeleteMany(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 1))
	require.NoError(t, c.Set(ctx, "b", 2))
	require.NoError(t, c.Delete(ctx, "a", "b", "missing"))

	assert.False(t, mr.Exists(cacheKey("a")))
	assert.False(t, mr.Exists(cacheKey("b")))
	assert.NoError(t, c.Delete(ctx))
}

func TestCacheKey_Format(t *testing.T) {
	assert.Equal(t, "catalog:meals:r1", cacheKey("meals:r1"))
}

func TestIdempotency_LockIsExclusiveUntilReleased(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisIdempotencyStore(client, time.Minute)
	ctx := context.Background()

	token, ok, err := store.TryLock(ctx, "webhook", "cs_1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, token)

	_, ok, err = store.TryLock(ctx, "webhook", "cs_1")
	require.NoError(t, err)
	assert.False(t, ok)

	// other keys are independent
	_, ok, err = store.TryLock(ctx, "webhook", "cs_2")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Release(ctx, "webhook", "cs_1", token))
	_, ok, err = store.TryLock(ctx, "webhook", "cs_1")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, time.Minute, mr.TTL("idemp:webhook:cs_1"))
}

func TestIdempotency_LockExpires(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisIdempotencyStore(client, time.Minute)
	ctx := context.Background()

	_, ok, err := store.TryLock(ctx, "webhook", "cs_1")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Minute)

	_, ok, err = store.TryLock(ctx, "webhook", "cs_1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIdempotency_StaleReleaseKeepsNewHolder(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisIdempotencyStore(client, time.Minute)
	ctx := context.Background()

	stale, ok, err := store.TryLock(ctx, "webhook", "cs_1")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Minute)

	current, ok, err := store.TryLock(ctx, "webhook", "cs_1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEqual(t, stale, current)

	require.NoError(t, store.Release(ctx, "webhook", "cs_1", stale))
	assert.True(t, mr.Exists("idemp:webhook:cs_1"))

	_, ok, err = store.TryLock(ctx, "webhook", "cs_1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Release(ctx, "webhook", "cs_1", current))
	assert.False(t, mr.Exists("idemp:webhook:cs_1"))
}
