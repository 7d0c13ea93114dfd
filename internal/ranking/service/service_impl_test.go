package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/wananchi-labs/uwazi/internal/config"
	institutiondomain "github.com/wananchi-labs/uwazi/internal/institution/domain"
	institutionrepo "github.com/wananchi-labs/uwazi/internal/institution/repository"
	nomineedomain "github.com/wananchi-labs/uwazi/internal/nominee/domain"
	nomineerepo "github.com/wananchi-labs/uwazi/internal/nominee/repository"
	"github.com/wananchi-labs/uwazi/internal/ranking/domain"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
	ratingrepo "github.com/wananchi-labs/uwazi/internal/rating/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db   *gorm.DB
	node *snowflake.Node
	svc  domain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&ratingdomain.Rating{},
		&nomineedomain.Nominee{},
		&institutiondomain.Institution{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:           db,
		Log:          zap.NewNop(),
		Policy:       config.NewStaticPolicyHolder(config.DefaultPolicyConfig()),
		Ratings:      ratingrepo.Provide(),
		Nominees:     nomineerepo.Provide(),
		Institutions: institutionrepo.Provide(),
	})

	return &fixture{db: db, node: node, svc: svc}
}

func (f *fixture) addNominee(t *testing.T, name string) nomineedomain.Nominee {
	t.Helper()
	nominee := nomineedomain.Nominee{
		ID:     f.node.Generate(),
		Name:   name,
		Slug:   name,
		Status: nomineedomain.StatusActive,
	}
	require.NoError(t, f.db.Create(&nominee).Error)
	return nominee
}

func (f *fixture) addRatings(t *testing.T, targetID, categoryID snowflake.ID, createdAt time.Time, scores ...int) {
	t.Helper()
	for i, score := range scores {
		rating := ratingdomain.Rating{
			ID:         f.node.Generate(),
			TargetType: ratingdomain.TargetNominee,
			TargetID:   targetID,
			UserID:     fmt.Sprintf("user-%d-%d", targetID, i),
			CategoryID: categoryID,
			Score:      score,
			CreatedAt:  createdAt,
		}
		require.NoError(t, f.db.Create(&rating).Error)
	}
}

func TestRankForOrdersByAverageDescending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()
	category := f.node.Generate()

	a := f.addNominee(t, "a")
	b := f.addNominee(t, "b")

	f.addRatings(t, a.ID, category, now, 5, 3, 4) // average 4.0
	f.addRatings(t, b.ID, category, now, 5, 4)    // average 4.5

	rankB, err := f.svc.RankFor(ctx, ratingdomain.TargetNominee, b.ID.String(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, rankB.Rank)
	assert.Equal(t, 2, rankB.TotalRatings)

	rankA, err := f.svc.RankFor(ctx, ratingdomain.TargetNominee, a.ID.String(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, rankA.Rank)
	assert.Equal(t, 3, rankA.TotalRatings)

	// The computation is read-only: asking again yields the same ranks.
	again, err := f.svc.RankFor(ctx, ratingdomain.TargetNominee, b.ID.String(), "")
	require.NoError(t, err)
	assert.Equal(t, rankB, again)
}

func TestRankForTieBreaksOnID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()
	category := f.node.Generate()

	first := f.addNominee(t, "first")
	second := f.addNominee(t, "second")
	require.Less(t, int64(first.ID), int64(second.ID))

	f.addRatings(t, first.ID, category, now, 4)
	f.addRatings(t, second.ID, category, now, 4)

	rankFirst, err := f.svc.RankFor(ctx, ratingdomain.TargetNominee, first.ID.String(), "")
	require.NoError(t, err)
	rankSecond, err := f.svc.RankFor(ctx, ratingdomain.TargetNominee, second.ID.String(), "")
	require.NoError(t, err)

	assert.Equal(t, 1, rankFirst.Rank)
	assert.Equal(t, 2, rankSecond.Rank)
}

func TestRankForAbsentEntity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.RankFor(ctx, ratingdomain.TargetNominee, f.node.Generate().String(), "")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Rank)
	assert.Equal(t, 0, res.TotalRatings)
}

func TestRankForCategoryFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()
	bribery := f.node.Generate()
	nepotism := f.node.Generate()

	a := f.addNominee(t, "a")
	b := f.addNominee(t, "b")

	f.addRatings(t, a.ID, bribery, now, 5)
	f.addRatings(t, a.ID, nepotism, now, 1)
	f.addRatings(t, b.ID, bribery, now, 3)

	// Overall: a = (5+1)/2 = 3.0, b = 3.0 → tie broken by id, a first.
	overall, err := f.svc.RankFor(ctx, ratingdomain.TargetNominee, a.ID.String(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, overall.Rank)
	assert.Equal(t, 2, overall.TotalRatings)

	// Restricted to bribery: a = 5.0 beats b = 3.0 on merit.
	filtered, err := f.svc.RankFor(ctx, ratingdomain.TargetNominee, a.ID.String(), bribery.String())
	require.NoError(t, err)
	assert.Equal(t, 1, filtered.Rank)
	assert.Equal(t, 1, filtered.TotalRatings)

	filteredB, err := f.svc.RankFor(ctx, ratingdomain.TargetNominee, b.ID.String(), bribery.String())
	require.NoError(t, err)
	assert.Equal(t, 2, filteredB.Rank)
}

func TestLeaderboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()
	category := f.node.Generate()

	a := f.addNominee(t, "a")
	b := f.addNominee(t, "b")
	f.addNominee(t, "unrated")

	f.addRatings(t, a.ID, category, now, 2)
	f.addRatings(t, b.ID, category, now, 5)

	entries, err := f.svc.Leaderboard(ctx, domain.LeaderboardRequest{
		TargetType: ratingdomain.TargetNominee,
	})
	require.NoError(t, err)
	// Unrated entities fall under the MinRatings floor and stay off the board.
	require.Len(t, entries, 2)
	assert.Equal(t, b.ID, entries[0].ID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 5.0, entries[0].Average)
	assert.Equal(t, a.ID, entries[1].ID)
	assert.Equal(t, 2, entries[1].Rank)

	limited, err := f.svc.Leaderboard(ctx, domain.LeaderboardRequest{
		TargetType: ratingdomain.TargetNominee,
		Limit:      1,
	})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, b.ID, limited[0].ID)
}

func TestTrendingUsesRecentWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()
	old := now.Add(-30 * 24 * time.Hour)
	category := f.node.Generate()

	hot := f.addNominee(t, "hot")
	cold := f.addNominee(t, "cold")

	f.addRatings(t, hot.ID, category, now, 3, 4, 5)
	f.addRatings(t, cold.ID, category, old, 5, 5, 5, 5)

	entries, err := f.svc.Trending(ctx, ratingdomain.TargetNominee, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1, "old ratings must not count toward trending")
	assert.Equal(t, hot.ID, entries[0].ID)
	assert.Equal(t, 3, entries[0].RecentRatings)
	assert.Equal(t, 4.0, entries[0].Average)
}
