package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/stock-ledger-api/internal/application/idempotency"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
)

const redisKeyPrefix = "idempotency:"

// RedisCache caché compartida entre instancias; el vencimiento lo aplica Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ idempotency.ResponseCache = (*RedisCache)(nil)

type redisEntry struct {
	Status    int       `json:"status"`
	Body      []byte    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRedisClient abre el cliente y verifica la conexión.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		// el deadline del ctx corta la operación (Remember acota Set así)
		ContextTimeoutEnabled: true,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// NewRedisCache crea la caché sobre un cliente existente.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get redis.Nil = no hay entrada.
func (c *RedisCache) Get(ctx context.Context, key string) (*entity.IdempotencyRecord, error) {
	val, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var e redisEntry
	if err := json.Unmarshal(val, &e); err != nil {
		return nil, fmt.Errorf("redis decode: %w", err)
	}
	return &entity.IdempotencyRecord{Key: key, StatusCode: e.Status, Body: e.Body, CreatedAt: e.CreatedAt}, nil
}

func (c *RedisCache) Set(ctx context.Context, rec *entity.IdempotencyRecord) error {
	val, err := json.Marshal(redisEntry{Status: rec.StatusCode, Body: rec.Body, CreatedAt: rec.CreatedAt})
	if err != nil {
		return fmt.Errorf("redis encode: %w", err)
	}
	if err := c.client.Set(ctx, redisKeyPrefix+rec.Key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
