package idempotency

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/paygate/pkg/config"
)

const keyPrefix = "paygate:idempotency"

// Module provides a Redis backed Store when redis.addr is set, an in-process one otherwise.
var Module = fx.Options(
	fx.Provide(newStore),
)

func newStore(lc fx.Lifecycle, cfg *config.Config, log *zap.SugaredLogger) Store {
	if cfg.Redis.Addr == "" {
		log.Infow("idempotency keys kept in memory")
		return NewMemoryStore()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warnw("redis ping failed", "addr", cfg.Redis.Addr, "error", err)
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return NewRedisStore(client, keyPrefix)
}
