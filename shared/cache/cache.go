package cache

//go:generate go run go.uber.org/mock/mockgen -source=./cache.go -destination=./mocks/cache_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hostel/infras/otel"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	otelScopeName = "cache"
	otelKeyAttr   = "cache.key"
	scanBatch     = 100
)

var (
	// Nil is reported by Get on a miss.
	Nil = redis.Nil

	// ErrDisabled is reported by Get and Incr when no Redis client is configured.
	ErrDisabled = errors.New("cache disabled")
)

type RedisCache interface {
	Save(ctx context.Context, key string, value any, ttl time.Duration) (err error)
	Get(ctx context.Context, key string, dest any) (err error)
	Delete(ctx context.Context, key string) (err error)
	Clear(ctx context.Context, pattern string) (err error)
	Incr(ctx context.Context, key string, window time.Duration) (count int64, err error)
}

type redisCache struct {
	client redis.UniversalClient
	otel   otel.Otel
}

// NewRedisCache wraps client. With a nil client every read misses and every
// write is dropped, so callers keep serving while Redis is down.
func NewRedisCache(client redis.UniversalClient, ot otel.Otel) RedisCache {
	return &redisCache{client: client, otel: ot}
}

func (c *redisCache) scope(ctx context.Context, operation, key string) (context.Context, otel.Scope) {
	ctx, scope := c.otel.NewScope(ctx, otelScopeName, otelScopeName+"."+operation)
	scope.SetAttribute(otelKeyAttr, key)

	return ctx, scope
}

// Save stores strings as-is and everything else as JSON.
func (c *redisCache) Save(ctx context.Context, key string, value any, ttl time.Duration) (err error) {
	ctx, scope := c.scope(ctx, "Save", key)
	defer scope.End()
	defer scope.TraceIfError(&err)

	if c.client == nil {
		return nil
	}

	payload, err := encode(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	if err = c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to write cache")

		return fmt.Errorf("set %s: %w", key, err)
	}

	return nil
}

// Get decodes the value under key into dest. Misses wrap Nil.
func (c *redisCache) Get(ctx context.Context, key string, dest any) (err error) {
	ctx, scope := c.scope(ctx, "Get", key)
	defer scope.End()

	if c.client == nil {
		return ErrDisabled
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, Nil) {
			scope.TraceError(err)
		}

		return fmt.Errorf("get %s: %w", key, err)
	}

	if err = decode(raw, dest); err != nil {
		scope.TraceError(err)

		return fmt.Errorf("decode %s: %w", key, err)
	}

	return nil
}

func (c *redisCache) Delete(ctx context.Context, key string) (err error) {
	ctx, scope := c.scope(ctx, "Delete", key)
	defer scope.End()
	defer scope.TraceIfError(&err)

	if c.client == nil {
		return nil
	}

	if err = c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	return nil
}

// Clear removes every key matching pattern, one scan page at a time.
func (c *redisCache) Clear(ctx context.Context, pattern string) (err error) {
	ctx, scope := c.scope(ctx, "Clear", pattern)
	defer scope.End()
	defer scope.TraceIfError(&err)

	if c.client == nil {
		return nil
	}

	var cursor uint64

	for {
		var keys []string

		keys, cursor, err = c.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return fmt.Errorf("scan %s: %w", pattern, err)
		}

		if len(keys) > 0 {
			if err = c.client.Unlink(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("unlink %s: %w", pattern, err)
			}
		}

		if cursor == 0 {
			return nil
		}
	}
}

// Incr bumps a counter and starts its expiry on the first hit only, which gives a
// fixed window per key.
func (c *redisCache) Incr(ctx context.Context, key string, window time.Duration) (count int64, err error) {
	ctx, scope := c.scope(ctx, "Incr", key)
	defer scope.End()
	defer scope.TraceIfError(&err)

	if c.client == nil {
		return 0, ErrDisabled
	}

	var incr *redis.IntCmd

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", key, err)
	}

	return incr.Val(), nil
}

func encode(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return json.Marshal(v)
	}
}

func decode(raw []byte, dest any) error {
	if s, ok := dest.(*string); ok {
		*s = string(raw)

		return nil
	}

	return json.Unmarshal(raw, dest)
}
