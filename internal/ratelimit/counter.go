package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	redis "github.com/redis/go-redis/v9"
	"github.com/wananchi-labs/uwazi/internal/config"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
)

const keyRatingCounter = "ratelimit:rating:%s:%s:%s"

// The counter and its expiry must move together, otherwise a crash between
// INCR and EXPIRE leaves a key that never resets.
const counterScript = `
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`

// CounterLimiter is the redis-backed alternate policy: an atomically
// incremented counter per (user, target) with the window set as expiry on
// first increment. Check counts the call itself, so it must run exactly once
// per submission; status endpoints use Status, which only reads the counter.
type CounterLimiter struct {
	client *redis.Client
	script *redis.Script
	max    int64
	window time.Duration
}

func NewCounterLimiter(client *redis.Client, cfg config.RateLimitConfig) *CounterLimiter {
	if client == nil {
		return nil
	}
	max := int64(cfg.MaxRatingsPerDay)
	if max <= 0 {
		max = 5
	}
	window := cfg.Window
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &CounterLimiter{
		client: client,
		script: redis.NewScript(counterScript),
		max:    max,
		window: window,
	}
}

func (l *CounterLimiter) Check(ctx context.Context, userID string, targetType ratingdomain.TargetType, targetID snowflake.ID) (Result, error) {
	if l == nil || l.client == nil {
		return Result{}, fmt.Errorf("counter limiter not configured")
	}

	key := fmt.Sprintf(keyRatingCounter, userID, targetType, targetID.String())
	count, err := l.script.Run(ctx, l.client, []string{key}, l.window.Milliseconds()).Int64()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit counter: %w", err)
	}

	// Report the count before this increment so Check and Status agree.
	return l.result(count - 1), nil
}

// Status reads the counter without incrementing it.
func (l *CounterLimiter) Status(ctx context.Context, userID string, targetType ratingdomain.TargetType, targetID snowflake.ID) (Result, error) {
	if l == nil || l.client == nil {
		return Result{}, fmt.Errorf("counter limiter not configured")
	}

	key := fmt.Sprintf(keyRatingCounter, userID, targetType, targetID.String())
	count, err := l.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return l.result(0), nil
		}
		return Result{}, fmt.Errorf("rate limit counter: %w", err)
	}
	return l.result(count), nil
}

func (l *CounterLimiter) result(count int64) Result {
	if count >= l.max {
		return Result{Allowed: false, Count: count, Remaining: 0}
	}
	return Result{Allowed: true, Count: count, Remaining: l.max - count}
}
