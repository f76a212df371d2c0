package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"godev-candidate-bot/internal/storage"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrKeyNotFound = errors.New("key not found")

// Cache represents redis client
type Cache struct {
	client *redis.Client
	logger *zap.Logger
}

func New(addr, password string, db int, logger *zap.Logger) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("successfully connected to Redis")

	return NewWithClient(client, logger), nil
}

func NewWithClient(client *redis.Client, logger *zap.Logger) *Cache {
	return &Cache{
		client: client,
		logger: logger,
	}
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// SetJSON saves value to Redis with TTL
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	err = c.client.Set(ctx, key, data, ttl).Err()
	if err != nil {
		c.logger.Error("failed to set cache",
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("set cache: %w", err)
	}

	return nil
}

func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return ErrKeyNotFound
	}
	if err != nil {
		c.logger.Error("failed to get cache",
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("get cache: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return nil
}

// TakeJSON reads and deletes key in one step. Only one caller gets the value.
func (c *Cache) TakeJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.GetDel(ctx, key).Bytes()
	if err == redis.Nil {
		return ErrKeyNotFound
	}
	if err != nil {
		c.logger.Error("failed to take cache",
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("take cache: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	err := c.client.Del(ctx, key).Err()
	if err != nil {
		c.logger.Error("failed to delete cache",
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("delete cache: %w", err)
	}

	return nil
}

// IncrementWithExpiry increments counter and refreshes its TTL
func (c *Cache) IncrementWithExpiry(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := c.client.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)

	_, err := pipe.Exec(ctx)
	if err != nil {
		c.logger.Error("failed to increment with expiry",
			zap.String("key", key),
			zap.Error(err),
		)
		return 0, fmt.Errorf("increment with expiry: %w", err)
	}

	return incrCmd.Val(), nil
}

// Port stores candidate client state under keyPrefix without expiry.
func (c *Cache) Port(keyPrefix string) storage.Port {
	return &port{cache: c, prefix: keyPrefix}
}

type port struct {
	cache  *Cache
	prefix string
}

func (p *port) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := p.cache.client.Get(ctx, p.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		p.cache.logger.Error("failed to get client state",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get client state: %w", err)
	}
	return data, nil
}

func (p *port) Set(ctx context.Context, key string, value []byte) error {
	if err := p.cache.client.Set(ctx, p.prefix+key, value, 0).Err(); err != nil {
		p.cache.logger.Error("failed to set client state",
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("set client state: %w", err)
	}
	return nil
}

func (p *port) Delete(ctx context.Context, key string) error {
	return p.cache.Delete(ctx, p.prefix+key)
}
