package idempotency

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})

	return client, mr
}

func TestMessageKey(t *testing.T) {
	assert.Equal(t, "-100:42", MessageKey(-100, 42))
}

func TestMemoryGuard(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	g := NewMemoryGuard()
	g.now = func() time.Time { return now }
	ctx := context.Background()

	ok, err := g.Claim(ctx, "a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.Claim(ctx, "a", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = g.Claim(ctx, "b", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	ok, err = g.Claim(ctx, "a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, g.claims, 1)
}

func TestMemoryGuard_SweepsOnInterval(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	g := NewMemoryGuard()
	g.now = func() time.Time { return now }
	ctx := context.Background()

	for _, key := range []string{"a", "b"} {
		ok, err := g.Claim(ctx, key, 10*time.Second)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	now = now.Add(30 * time.Second)
	ok, err := g.Claim(ctx, "c", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, g.claims, 3, "expired claims are kept until the next sweep")

	now = now.Add(sweepInterval)
	ok, err = g.Claim(ctx, "d", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, g.claims, 1)
	assert.Contains(t, g.claims, "d")
}

func TestMemoryGuard_ConcurrentClaims(t *testing.T) {
	g := NewMemoryGuard()

	var won atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := g.Claim(context.Background(), "k", time.Minute); ok {
				won.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), won.Load())
}

func TestRedisGuard(t *testing.T) {
	client, mr := setupTestRedis(t)
	g := NewRedisGuard(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	ok, err := g.Claim(ctx, "-100:1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("idempotency:update:-100:1"))

	ok, err = g.Claim(ctx, "-100:1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(2 * time.Minute)
	ok, err = g.Claim(ctx, "-100:1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.Close()
	_, err = g.Claim(ctx, "-100:2", time.Minute)
	assert.Error(t, err)
}
