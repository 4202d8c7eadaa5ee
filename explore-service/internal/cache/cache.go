// cache хранит сохраняемое состояние сессий в Redis.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateCache — минимальный контракт хранилища состояния сессий.
type StateCache interface {
	// Load возвращает блоб состояния и признак его наличия.
	Load(ctx context.Context, sessionID string) ([]byte, bool, error)
	// Save сохраняет блоб состояния с TTL (продлевается при каждой записи).
	Save(ctx context.Context, sessionID string, blob []byte, ttl time.Duration) error
	// Delete удаляет состояние сессии.
	Delete(ctx context.Context, sessionID string) error
	// Close закрывает клиент Redis.
	Close() error
}

type redisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "explore:sess:".
func NewRedisCache(redisURL, prefix string) (StateCache, error) {
	if prefix == "" {
		prefix = "explore:sess:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &redisCache{rdb: rdb, prefix: prefix}, nil
}

func (c *redisCache) key(sessionID string) string { return c.prefix + sessionID }

func (c *redisCache) Load(ctx context.Context, sessionID string) ([]byte, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return raw, true, nil
}

func (c *redisCache) Save(ctx context.Context, sessionID string, blob []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, c.key(sessionID), blob, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, sessionID string) error {
	return c.rdb.Del(ctx, c.key(sessionID)).Err()
}

func (c *redisCache) Close() error { return c.rdb.Close() }
