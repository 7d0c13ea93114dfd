package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	commentdomain "github.com/wananchi-labs/uwazi/internal/comment/domain"
	commentrepo "github.com/wananchi-labs/uwazi/internal/comment/repository"
	"github.com/wananchi-labs/uwazi/internal/config"
	institutiondomain "github.com/wananchi-labs/uwazi/internal/institution/domain"
	institutionrepo "github.com/wananchi-labs/uwazi/internal/institution/repository"
	nomineedomain "github.com/wananchi-labs/uwazi/internal/nominee/domain"
	nomineerepo "github.com/wananchi-labs/uwazi/internal/nominee/repository"
	"github.com/wananchi-labs/uwazi/internal/ratelimit"
	"github.com/wananchi-labs/uwazi/internal/rating/domain"
	ratingrepo "github.com/wananchi-labs/uwazi/internal/rating/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	node     *snowflake.Node
	svc      domain.Service
	nominee  nomineedomain.Nominee
	category domain.RatingCategory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Rating{},
		&domain.RatingCategory{},
		&nomineedomain.Nominee{},
		&institutiondomain.Institution{},
		&commentdomain.Comment{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo := ratingrepo.Provide()
	limiterCfg := config.RateLimitConfig{MaxRatingsPerDay: 5}
	limiter := ratelimit.NewDBCountLimiter(db, zap.NewNop(), repo, limiterCfg)

	svc := New(Params{
		DB:           db,
		Log:          zap.NewNop(),
		GenID:        node,
		Repo:         repo,
		Categories:   ratingrepo.ProvideCategories(),
		Comments:     commentrepo.Provide(),
		Nominees:     nomineerepo.Provide(),
		Institutions: institutionrepo.Provide(),
		Limiter:      limiter,
		Metrics:      nil,
	})

	nominee := nomineedomain.Nominee{
		ID:     node.Generate(),
		Name:   "Test Nominee",
		Slug:   "test-nominee",
		Status: nomineedomain.StatusActive,
	}
	require.NoError(t, db.Create(&nominee).Error)

	category := domain.RatingCategory{
		ID:     node.Generate(),
		Name:   "Bribery",
		Weight: 1,
	}
	require.NoError(t, db.Create(&category).Error)

	return &fixture{db: db, node: node, svc: svc, nominee: nominee, category: category}
}

func (f *fixture) submit(userID string, inputs ...domain.RatingInput) (domain.SubmitResponse, error) {
	return f.svc.Submit(context.Background(), domain.SubmitRequest{
		TargetType: domain.TargetNominee,
		TargetID:   f.nominee.ID.String(),
		UserID:     userID,
		Ratings:    inputs,
	})
}

func TestSubmitValidScores(t *testing.T) {
	f := newFixture(t)

	resp, err := f.submit("user-1",
		domain.RatingInput{CategoryID: f.category.ID.String(), Score: 5},
		domain.RatingInput{CategoryID: f.category.ID.String(), Score: 3},
		domain.RatingInput{CategoryID: f.category.ID.String(), Score: 4},
	)
	require.NoError(t, err)
	assert.Len(t, resp.Ratings, 3)
	assert.Equal(t, 4.0, resp.Average)
}

func TestSubmitRejectsOutOfRangeScores(t *testing.T) {
	f := newFixture(t)

	for _, score := range []int{0, 6, -1} {
		_, err := f.submit("user-1", domain.RatingInput{CategoryID: f.category.ID.String(), Score: score})
		assert.ErrorIs(t, err, domain.ErrInvalidScore, "score %d", score)
	}

	// Boundary values are accepted.
	for _, score := range []int{1, 5} {
		_, err := f.submit(fmt.Sprintf("boundary-user-%d", score),
			domain.RatingInput{CategoryID: f.category.ID.String(), Score: score})
		assert.NoError(t, err, "score %d", score)
	}
}

func TestSubmitRejectsEmptyBatch(t *testing.T) {
	f := newFixture(t)

	_, err := f.submit("user-1")
	assert.ErrorIs(t, err, domain.ErrEmptyRatings)
}

func TestSubmitRejectsMissingUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.submit("  ", domain.RatingInput{CategoryID: f.category.ID.String(), Score: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidUser)
}

func TestSubmitRejectsUnknownTarget(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), domain.SubmitRequest{
		TargetType: domain.TargetNominee,
		TargetID:   f.node.Generate().String(),
		UserID:     "user-1",
		Ratings:    []domain.RatingInput{{CategoryID: f.category.ID.String(), Score: 3}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestSubmitIsAtomicOnUnknownCategory(t *testing.T) {
	f := newFixture(t)

	_, err := f.submit("user-1",
		domain.RatingInput{CategoryID: f.category.ID.String(), Score: 5},
		domain.RatingInput{CategoryID: f.node.Generate().String(), Score: 4},
	)
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)

	var count int64
	require.NoError(t, f.db.Model(&domain.Rating{}).Count(&count).Error)
	assert.Zero(t, count, "a rejected batch must write no rating rows")
}

func TestSubmitCreatesDerivedComment(t *testing.T) {
	f := newFixture(t)

	_, err := f.submit("user-1",
		domain.RatingInput{CategoryID: f.category.ID.String(), Score: 2, Comment: "took a bribe for the tender"},
	)
	require.NoError(t, err)

	var comments []commentdomain.Comment
	require.NoError(t, f.db.Find(&comments).Error)
	require.Len(t, comments, 1)
	assert.Equal(t, "took a bribe for the tender", comments[0].Content)
	assert.Equal(t, domain.TargetNominee, comments[0].TargetType)
	assert.Equal(t, f.nominee.ID, comments[0].TargetID)
}

func TestSubmitRateLimit(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 5; i++ {
		_, err := f.submit("heavy-user", domain.RatingInput{CategoryID: f.category.ID.String(), Score: 3})
		require.NoError(t, err, "submission %d", i+1)
	}

	_, err := f.submit("heavy-user", domain.RatingInput{CategoryID: f.category.ID.String(), Score: 3})
	assert.ErrorIs(t, err, domain.ErrRateLimited)

	var count int64
	require.NoError(t, f.db.Model(&domain.Rating{}).Where("user_id = ?", "heavy-user").Count(&count).Error)
	assert.Equal(t, int64(5), count, "a rate-limited submission must write no rating rows")

	// A different user against the same target is unaffected.
	_, err = f.submit("other-user", domain.RatingInput{CategoryID: f.category.ID.String(), Score: 3})
	assert.NoError(t, err)
}

func TestCategoryCRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateCategory(ctx, domain.CreateCategoryRequest{
		Name:     "Land Grabbing",
		Icon:     "map",
		Weight:   1.5,
		Examples: []string{"Irregular allocation of public land"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Land Grabbing", created.Name)
	assert.Equal(t, 1.5, created.Weight)

	_, err = f.svc.CreateCategory(ctx, domain.CreateCategoryRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	weight := 2.0
	updated, err := f.svc.UpdateCategory(ctx, domain.UpdateCategoryRequest{
		ID:     created.ID.String(),
		Name:   "Land Grabs",
		Weight: &weight,
	})
	require.NoError(t, err)
	assert.Equal(t, "Land Grabs", updated.Name)
	assert.Equal(t, 2.0, updated.Weight)

	require.NoError(t, f.svc.DeleteCategory(ctx, created.ID.String()))
	err = f.svc.DeleteCategory(ctx, created.ID.String())
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}
