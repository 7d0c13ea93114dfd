package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/wananchi-labs/uwazi/internal/config"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
	ratingrepo "github.com/wananchi-labs/uwazi/internal/rating/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newLimiterFixture(t *testing.T) (*gorm.DB, *snowflake.Node, *DBCountLimiter) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&ratingdomain.Rating{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	limiter := NewDBCountLimiter(db, zap.NewNop(), ratingrepo.Provide(), config.RateLimitConfig{
		MaxRatingsPerDay: 5,
		Window:           24 * time.Hour,
	})
	return db, node, limiter
}

func insertRating(t *testing.T, db *gorm.DB, node *snowflake.Node, userID string, targetID snowflake.ID, createdAt time.Time) {
	t.Helper()
	rating := ratingdomain.Rating{
		ID:         node.Generate(),
		TargetType: ratingdomain.TargetNominee,
		TargetID:   targetID,
		UserID:     userID,
		CategoryID: node.Generate(),
		Score:      3,
		CreatedAt:  createdAt,
	}
	require.NoError(t, db.Create(&rating).Error)
}

func TestDBCountLimiterAllowsUnderMax(t *testing.T) {
	db, node, limiter := newLimiterFixture(t)
	target := node.Generate()
	now := time.Now().UTC()

	for i := 0; i < 4; i++ {
		insertRating(t, db, node, "user-1", target, now.Add(-time.Duration(i)*time.Hour))
	}

	result, err := limiter.Check(context.Background(), "user-1", ratingdomain.TargetNominee, target)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, int64(4), result.Count)
	assert.Equal(t, int64(1), result.Remaining)
}

func TestDBCountLimiterDeniesAtMax(t *testing.T) {
	db, node, limiter := newLimiterFixture(t)
	target := node.Generate()
	now := time.Now().UTC()

	for i := 0; i < 5; i++ {
		insertRating(t, db, node, "user-1", target, now.Add(-time.Duration(i)*time.Hour))
	}

	result, err := limiter.Check(context.Background(), "user-1", ratingdomain.TargetNominee, target)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, int64(5), result.Count)
	assert.Zero(t, result.Remaining)
}

func TestDBCountLimiterWindowIsRolling(t *testing.T) {
	db, node, limiter := newLimiterFixture(t)
	target := node.Generate()
	now := time.Now().UTC()

	// Five old submissions have aged out of the 24h window.
	for i := 0; i < 5; i++ {
		insertRating(t, db, node, "user-1", target, now.Add(-25*time.Hour))
	}
	insertRating(t, db, node, "user-1", target, now.Add(-time.Hour))

	result, err := limiter.Check(context.Background(), "user-1", ratingdomain.TargetNominee, target)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, int64(1), result.Count)
	assert.Equal(t, int64(4), result.Remaining)
}

func TestStatusDoesNotConsumeQuota(t *testing.T) {
	db, node, limiter := newLimiterFixture(t)
	target := node.Generate()
	now := time.Now().UTC()

	for i := 0; i < 4; i++ {
		insertRating(t, db, node, "user-1", target, now.Add(-time.Duration(i)*time.Hour))
	}

	// Polling the status endpoint must never eat into the submission budget.
	for i := 0; i < 10; i++ {
		result, err := limiter.Status(context.Background(), "user-1", ratingdomain.TargetNominee, target)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, int64(4), result.Count)
		assert.Equal(t, int64(1), result.Remaining)
	}

	result, err := limiter.Check(context.Background(), "user-1", ratingdomain.TargetNominee, target)
	require.NoError(t, err)
	assert.True(t, result.Allowed, "the last submission slot survives any number of status reads")
}

func TestCounterLimiterResultThresholds(t *testing.T) {
	limiter := &CounterLimiter{max: 5}

	result := limiter.result(0)
	assert.True(t, result.Allowed)
	assert.Equal(t, int64(5), result.Remaining)

	result = limiter.result(4)
	assert.True(t, result.Allowed)
	assert.Equal(t, int64(1), result.Remaining)

	result = limiter.result(5)
	assert.False(t, result.Allowed)
	assert.Zero(t, result.Remaining)

	result = limiter.result(7)
	assert.False(t, result.Allowed)
	assert.Zero(t, result.Remaining)
}

func TestDBCountLimiterScopedPerUserAndTarget(t *testing.T) {
	db, node, limiter := newLimiterFixture(t)
	target := node.Generate()
	other := node.Generate()
	now := time.Now().UTC()

	for i := 0; i < 5; i++ {
		insertRating(t, db, node, "user-1", target, now)
	}

	// Same user, different target.
	result, err := limiter.Check(context.Background(), "user-1", ratingdomain.TargetNominee, other)
	require.NoError(t, err)
	assert.True(t, result.Allowed)

	// Different user, same target.
	result, err = limiter.Check(context.Background(), "user-2", ratingdomain.TargetNominee, target)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}
