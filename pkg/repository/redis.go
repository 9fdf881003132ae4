package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/tuuze/pkg/config"
	"github.com/go-redis/redis/v8"
)

type RedisRepository struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return &RedisRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

func (r *RedisRepository) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

func (r *RedisRepository) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisRepository) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

func (r *RedisRepository) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

const statsCacheKey = "admin:stats"

// PlatformStats is the cached payload of the admin statistics endpoint.
type PlatformStats struct {
	UserCount       int64 `json:"userCount"`
	StoreCount      int64 `json:"storeCount"`
	PendingStores   int64 `json:"pendingStores"`
	VerifiedStores  int64 `json:"verifiedStores"`
	ProductCount    int64 `json:"productCount"`
	OrderCount      int64 `json:"orderCount"`
	ActiveOrders    int64 `json:"activeOrders"`
	CompletedOrders int64 `json:"completedOrders"`
}

func (r *RedisRepository) CacheStats(ctx context.Context, stats *PlatformStats) error {
	return r.SetJSON(ctx, statsCacheKey, stats, 30*time.Second)
}

func (r *RedisRepository) GetStatsCache(ctx context.Context) (*PlatformStats, error) {
	var stats PlatformStats
	if err := r.GetJSON(ctx, statsCacheKey, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// RevokeToken denylists a JWT until its natural expiry, backing logout.
func (r *RedisRepository) RevokeToken(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.Set(ctx, fmt.Sprintf("revoked:%s", token), "1", ttl)
}

func (r *RedisRepository) IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	_, err := r.Get(ctx, fmt.Sprintf("revoked:%s", token))
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
