package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/domain/model"
	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/domain/repository"
)

// RedisRepository implements the BuyerSetCache interface using Redis as the
// backend. Buyer indexes expire after the configured TTL so a common-buyers
// run shortly after a single-token export can skip refetching that token.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepository(addr, password string, db int, ttl time.Duration) *RedisRepository {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisRepository{client: client, ttl: ttl}
}

// Ensure RedisRepository implements the BuyerSetCache interface.
var _ repository.BuyerSetCache = (*RedisRepository)(nil)

// Ping checks connectivity so the app can fall back to running without cache.
func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) SaveBuyerIndex(ctx context.Context, token string, index model.BuyerIndex) error {
	data, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to marshal buyer index: %w", err)
	}
	key := buyersKey(token)
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

func (r *RedisRepository) GetBuyerIndex(ctx context.Context, token string) (model.BuyerIndex, error) {
	key := buyersKey(token)
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // token not cached
		}
		return nil, err
	}

	var index model.BuyerIndex
	if err := json.Unmarshal([]byte(data), &index); err != nil {
		return nil, fmt.Errorf("failed to unmarshal buyer index: %w", err)
	}
	return index, nil
}

// Close releases the underlying connection pool.
func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func buyersKey(token string) string {
	return fmt.Sprintf("buyers:%s", token)
}
