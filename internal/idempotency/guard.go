// Package idempotency makes sure a command message is executed at most once
// when the platform delivers the same update again.
package idempotency

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Guard claims keys for a limited time.
type Guard interface {
	// Claim returns true when key was not claimed during the last ttl.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// MessageKey identifies one chat message.
func MessageKey(chatID int64, messageID int) string {
	return fmt.Sprintf("%d:%d", chatID, messageID)
}

// sweepInterval bounds how often MemoryGuard scans for expired claims.
const sweepInterval = time.Minute

// MemoryGuard is a process-local Guard.
type MemoryGuard struct {
	mu        sync.Mutex
	claims    map[string]time.Time
	nextSweep time.Time
	now       func() time.Time
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{
		claims: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (g *MemoryGuard) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if expires, ok := g.claims[key]; ok && now.Before(expires) {
		return false, nil
	}

	g.claims[key] = now.Add(ttl)
	if !now.Before(g.nextSweep) {
		g.sweep(now)
		g.nextSweep = now.Add(sweepInterval)
	}

	return true, nil
}

// sweep drops expired claims. Called with mu held.
func (g *MemoryGuard) sweep(now time.Time) {
	for key, expires := range g.claims {
		if !now.Before(expires) {
			delete(g.claims, key)
		}
	}
}

// RedisGuard claims keys with SET NX so that several bot replicas share them.
type RedisGuard struct {
	client *redis.Client
	log    *slog.Logger
}

func NewRedisGuard(client *redis.Client, log *slog.Logger) *RedisGuard {
	if log == nil {
		log = slog.Default()
	}

	return &RedisGuard{
		client: client,
		log:    log,
	}
}

func (g *RedisGuard) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	acquired, err := g.client.SetNX(ctx, claimKey(key), 1, ttl).Result()
	if err != nil {
		g.log.WarnContext(ctx, "failed to claim idempotency key", slog.String("key", key), slog.Any("error", err))
		return false, fmt.Errorf("claim idempotency key: %w", err)
	}

	return acquired, nil
}

func claimKey(key string) string {
	return fmt.Sprintf("idempotency:update:%s", key)
}
