package lock

import (
	"context"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/estate/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("scheduler.lock",
	fx.Provide(Provide),
)

// Provide returns a Redis-backed Locker, or nil when no Redis address is
// configured.
func Provide(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) Locker {
	if !cfg.Redis.Enabled() {
		log.Info("scheduler lock disabled, no redis configured")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn("redis ping failed, sweeps run unlocked until it recovers", zap.Error(err))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	return NewRedisLocker(client)
}
