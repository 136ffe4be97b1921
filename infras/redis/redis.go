package redis

import (
	"context"
	"net"
	"time"

	"hostel/config"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	pingTimeout  = 3 * time.Second
	dialTimeout  = 2 * time.Second
	readTimeout  = time.Second
	writeTimeout = time.Second
)

// New dials the primary Redis. A failed ping is only logged; the client keeps
// retrying on use, and cache reads miss in the meantime.
func New(cfg *config.Config) goRedis.UniversalClient {
	primary := cfg.Cache.Redis.Primary
	addr := net.JoinHostPort(primary.Host, primary.Port)

	client := goRedis.NewClient(&goRedis.Options{
		Addr:         addr,
		Password:     primary.Password,
		DB:           primary.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	logger := log.With().Str("addr", addr).Int("db", primary.DB).Logger()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Msg("Redis unreachable, caching degraded")

		return client
	}

	logger.Info().Msg("Connected to Redis")

	return client
}
