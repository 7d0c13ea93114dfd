package ratelimit

import (
	redis "github.com/redis/go-redis/v9"
	"github.com/wananchi-labs/uwazi/internal/config"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Redis *redis.Client `optional:"true"`
}

var Module = fx.Module("rate.limit",
	fx.Provide(func(db *gorm.DB, log *zap.Logger, repo ratingdomain.Repository, cfg config.Config) *DBCountLimiter {
		return NewDBCountLimiter(db, log, repo, cfg.RateLimit)
	}),
	fx.Provide(func(p Params) *Locker {
		return NewLocker(p.Redis)
	}),
	fx.Provide(provideLimiter),
)

func provideLimiter(cfg config.Config, db *DBCountLimiter, p Params) Limiter {
	if cfg.RateLimit.UseRedisCounter && p.Redis != nil {
		return NewCounterLimiter(p.Redis, cfg.RateLimit)
	}
	return db
}
