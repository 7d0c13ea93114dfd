package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/wananchi-labs/uwazi/internal/observability/logger"
	obsmetrics "github.com/wananchi-labs/uwazi/internal/observability/metrics"
	"github.com/wananchi-labs/uwazi/internal/ratelimit"
	"go.uber.org/zap"
)

const refreshLockTTL = 30 * time.Second

// ComputeFunc produces a fresh, fully-formed snapshot for a cache key. The
// same function serves the miss path and the background refresh, so a cached
// value can never diverge from what a direct computation would have produced
// at write time.
type ComputeFunc func(ctx context.Context) (any, error)

// SWR serves cached snapshots stale-while-revalidate: hits return
// immediately, and when the remaining TTL drops under the revalidate
// threshold a background refresh rewrites the entry without delaying the
// response. Store failures fall through to direct computation.
type SWR struct {
	store      Store
	locker     *ratelimit.Locker
	log        *zap.Logger
	metrics    *obsmetrics.Metrics
	revalidate time.Duration
}

func NewSWR(store Store, locker *ratelimit.Locker, log *zap.Logger, metrics *obsmetrics.Metrics, revalidate time.Duration) *SWR {
	if revalidate <= 0 {
		revalidate = time.Minute
	}
	return &SWR{
		store:      store,
		locker:     locker,
		log:        log.Named("cache"),
		metrics:    metrics,
		revalidate: revalidate,
	}
}

// Fetch resolves key into dest, computing and caching on a miss.
func (s *SWR) Fetch(ctx context.Context, key string, ttl time.Duration, dest any, compute ComputeFunc) error {
	payload, remaining, ok, err := s.store.Get(ctx, key)
	if err != nil {
		// Fail open: cache loss degrades latency, never availability.
		logger.WithContext(ctx, s.log).Warn("cache read failed, serving direct",
			zap.String("key", key), zap.Error(err))
		return s.computeInto(ctx, key, ttl, dest, compute)
	}

	if !ok {
		s.metrics.RecordCacheMiss(ctx, viewFromKey(key))
		return s.computeInto(ctx, key, ttl, dest, compute)
	}

	s.metrics.RecordCacheHit(ctx, viewFromKey(key))
	if err := json.Unmarshal(payload, dest); err != nil {
		logger.WithContext(ctx, s.log).Warn("cache payload corrupt, recomputing",
			zap.String("key", key), zap.Error(err))
		return s.computeInto(ctx, key, ttl, dest, compute)
	}

	if remaining < s.revalidate {
		s.refreshAsync(ctx, key, ttl, compute)
	}
	return nil
}

// Invalidate removes exact keys.
func (s *SWR) Invalidate(ctx context.Context, keys ...string) {
	if err := s.store.Del(ctx, keys...); err != nil {
		logger.WithContext(ctx, s.log).Warn("cache invalidation failed",
			zap.Strings("keys", keys), zap.Error(err))
	}
}

// InvalidatePrefix removes all keys under a namespace prefix.
func (s *SWR) InvalidatePrefix(ctx context.Context, prefix string) {
	if err := s.store.DelPrefix(ctx, prefix); err != nil {
		logger.WithContext(ctx, s.log).Warn("cache prefix invalidation failed",
			zap.String("prefix", prefix), zap.Error(err))
	}
}

// Preload synchronously recomputes and writes a key, used after invalidation
// to keep hot listings warm instead of stampeding misses.
func (s *SWR) Preload(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc) {
	value, err := compute(ctx)
	if err != nil {
		logger.WithContext(ctx, s.log).Warn("cache preload compute failed",
			zap.String("key", key), zap.Error(err))
		return
	}
	s.write(ctx, key, ttl, value)
}

func (s *SWR) computeInto(ctx context.Context, key string, ttl time.Duration, dest any, compute ComputeFunc) error {
	value, err := compute(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return err
	}

	if err := s.store.Set(ctx, key, payload, ttl); err != nil {
		logger.WithContext(ctx, s.log).Warn("cache write failed",
			zap.String("key", key), zap.Error(err))
	}
	return nil
}

// refreshAsync rewrites the entry without blocking the caller. Errors are
// logged, never surfaced to the triggering request.
func (s *SWR) refreshAsync(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc) {
	// Detach from the request: the response returns before the refresh runs.
	refreshCtx := context.WithoutCancel(ctx)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("cache refresh panic", zap.String("key", key), zap.Any("panic", r))
			}
		}()

		lockKey := "lock:" + key
		var token string
		if s.locker != nil {
			t, ok, err := s.locker.TryLock(refreshCtx, lockKey, refreshLockTTL)
			if err != nil || !ok {
				return
			}
			token = t
			defer func() { _ = s.locker.Release(refreshCtx, lockKey, token) }()
		}

		refreshCtx, cancel := context.WithTimeout(refreshCtx, refreshLockTTL)
		defer cancel()

		value, err := compute(refreshCtx)
		if err != nil {
			s.log.Warn("cache refresh failed", zap.String("key", key), zap.Error(err))
			return
		}
		s.write(refreshCtx, key, ttl, value)
		s.metrics.RecordCacheRefresh(refreshCtx, viewFromKey(key))
	}()
}

func (s *SWR) write(ctx context.Context, key string, ttl time.Duration, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		s.log.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, key, payload, ttl); err != nil {
		s.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
