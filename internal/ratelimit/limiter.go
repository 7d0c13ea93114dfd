package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wananchi-labs/uwazi/internal/config"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Result reports a rate limit decision.
type Result struct {
	Allowed   bool  `json:"allowed"`
	Count     int64 `json:"count"`
	Remaining int64 `json:"remaining_ratings"`
}

// Limiter caps rating submissions per user per target inside a rolling
// window. Check is called once per submission; Status never consumes quota,
// so status endpoints can poll it freely.
type Limiter interface {
	Check(ctx context.Context, userID string, targetType ratingdomain.TargetType, targetID snowflake.ID) (Result, error)
	Status(ctx context.Context, userID string, targetType ratingdomain.TargetType, targetID snowflake.ID) (Result, error)
}

// DBCountLimiter counts rating rows created inside the trailing window. It is
// the canonical policy: stateless, correct across instances, and it can never
// drift from the rating rows themselves. A failed count is a hard error,
// never a silent allow.
type DBCountLimiter struct {
	db     *gorm.DB
	log    *zap.Logger
	repo   ratingdomain.Repository
	max    int64
	window time.Duration
}

func NewDBCountLimiter(db *gorm.DB, log *zap.Logger, repo ratingdomain.Repository, cfg config.RateLimitConfig) *DBCountLimiter {
	max := int64(cfg.MaxRatingsPerDay)
	if max <= 0 {
		max = 5
	}
	window := cfg.Window
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &DBCountLimiter{
		db:     db,
		log:    log.Named("ratelimit"),
		repo:   repo,
		max:    max,
		window: window,
	}
}

func (l *DBCountLimiter) Check(ctx context.Context, userID string, targetType ratingdomain.TargetType, targetID snowflake.ID) (Result, error) {
	since := time.Now().UTC().Add(-l.window)
	count, err := l.repo.CountByUserSince(ctx, l.db, userID, targetType, targetID, since)
	if err != nil {
		return Result{}, fmt.Errorf("rate limit count: %w", err)
	}

	if count >= l.max {
		return Result{Allowed: false, Count: count, Remaining: 0}, nil
	}
	return Result{Allowed: true, Count: count, Remaining: l.max - count}, nil
}

// Status is identical to Check: counting rows never mutates anything.
func (l *DBCountLimiter) Status(ctx context.Context, userID string, targetType ratingdomain.TargetType, targetID snowflake.ID) (Result, error) {
	return l.Check(ctx, userID, targetType, targetID)
}
