package cache

import (
	"context"

	redis "github.com/redis/go-redis/v9"
	"github.com/wananchi-labs/uwazi/internal/config"
	obsmetrics "github.com/wananchi-labs/uwazi/internal/observability/metrics"
	"github.com/wananchi-labs/uwazi/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("cache",
	fx.Provide(NewRedisClient),
	fx.Provide(provideStore),
	fx.Provide(provideSWR),
)

// NewRedisClient connects to redis when configured; nil means the in-memory
// store backs the cache instead.
func NewRedisClient(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *redis.Client {
	if cfg.Redis.Addr == "" {
		log.Info("redis not configured, using in-memory cache store")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if lc != nil {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := client.Ping(ctx).Err(); err != nil {
					// Cache is an optimization: log and keep the client, the
					// read path fails open per request.
					log.Warn("redis ping failed", zap.Error(err))
				}
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return client.Close()
			},
		})
	}

	return client
}

func provideStore(client *redis.Client) Store {
	if client == nil {
		return NewMemoryStore()
	}
	return NewRedisStore(client)
}

func provideSWR(store Store, locker *ratelimit.Locker, log *zap.Logger, metrics *obsmetrics.Metrics, cfg config.Config) *SWR {
	return NewSWR(store, locker, log, metrics, cfg.Cache.RevalidateThreshold)
}
