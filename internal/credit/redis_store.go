package credit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
)

const scoreKeyPattern = "credit:score:%d"

// RedisStore keeps scores as plain integer keys so INCRBY stays atomic
// across bot replicas.
type RedisStore struct {
	client *redis.Client
	log    *slog.Logger
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore initializes a Redis-backed Store.
func NewRedisStore(client *redis.Client, log *slog.Logger) *RedisStore {
	if log == nil {
		log = slog.Default()
	}

	return &RedisStore{
		client: client,
		log:    log,
	}
}

// Get returns the stored score or 0 when the key is absent.
func (s *RedisStore) Get(ctx context.Context, userID int64) (int64, error) {
	score, err := s.client.Get(ctx, scoreKey(userID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}

		s.log.WarnContext(ctx, "failed to get score from redis", slog.Int64("user_id", userID), slog.Any("error", err))
		return 0, fmt.Errorf("get score: %w", err)
	}

	return score, nil
}

// Add applies delta with INCRBY.
func (s *RedisStore) Add(ctx context.Context, userID int64, delta int64) (int64, error) {
	score, err := s.client.IncrBy(ctx, scoreKey(userID), delta).Result()
	if err != nil {
		if strings.Contains(err.Error(), "overflow") {
			return 0, ErrOverflow
		}

		s.log.WarnContext(ctx, "failed to adjust score in redis", slog.Int64("user_id", userID), slog.Int64("delta", delta), slog.Any("error", err))
		return 0, fmt.Errorf("adjust score: %w", err)
	}

	return score, nil
}

// HealthCheck pings Redis.
func (s *RedisStore) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func scoreKey(userID int64) string {
	return fmt.Sprintf(scoreKeyPattern, userID)
}
