package history

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "frugal:history:"

// RedisStore keeps each owner's history in a Redis list, newest at the head.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(owner uuid.UUID) string {
	return redisKeyPrefix + owner.String()
}

func (r *RedisStore) List(ctx context.Context, owner uuid.UUID, limit int) ([]string, error) {
	terms, err := r.client.LRange(ctx, redisKey(owner), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read search history: %w", err)
	}
	return terms, nil
}

// Add removes every stored spelling of term, pushes it to the head and trims the list.
func (r *RedisStore) Add(ctx context.Context, owner uuid.UUID, term string, limit int) error {
	key := redisKey(owner)

	existing, err := r.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to read search history: %w", err)
	}

	want := termKey(term)
	var duplicates []string
	for _, e := range existing {
		if termKey(e) == want && !slices.Contains(duplicates, e) {
			duplicates = append(duplicates, e)
		}
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, d := range duplicates {
			pipe.LRem(ctx, key, 0, d)
		}
		pipe.LPush(ctx, key, term)
		pipe.LTrim(ctx, key, 0, int64(limit-1))
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update search history: %w", err)
	}
	return nil
}
