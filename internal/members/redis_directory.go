package members

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/Proton-105/social-credit-bot/internal/domain"
)

// RedisDirectory stores observed members in Redis as JSON with a TTL.
type RedisDirectory struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDirectory constructs a directory backed by the provided Redis client.
func NewRedisDirectory(client *redis.Client, ttl time.Duration) *RedisDirectory {
	return &RedisDirectory{client: client, ttl: ttl}
}

func (d *RedisDirectory) Lookup(ctx context.Context, handle string) (*domain.User, error) {
	key := normalizeHandle(handle)
	if d == nil || d.client == nil || key == "" {
		return nil, nil
	}

	data, err := d.client.Get(ctx, memberKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get member: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode member: %w", err)
	}

	return &user, nil
}

func (d *RedisDirectory) Remember(ctx context.Context, user domain.User) error {
	key := normalizeHandle(user.Handle)
	if d == nil || d.client == nil || key == "" {
		return nil
	}

	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode member: %w", err)
	}

	ttl := d.ttl
	if ttl < 0 {
		ttl = 0
	}

	if err := d.client.Set(ctx, memberKey(key), payload, ttl).Err(); err != nil {
		return fmt.Errorf("set member: %w", err)
	}

	return nil
}

func memberKey(handle string) string {
	return fmt.Sprintf("members:handle:%s", handle)
}
