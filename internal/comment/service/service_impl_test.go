package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wananchi-labs/uwazi/internal/comment/domain"
	"github.com/wananchi-labs/uwazi/internal/comment/repository"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	genID   *snowflake.Node
	service domain.Service

	targetID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&domain.Comment{}, &domain.CommentReaction{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})

	return &fixture{
		db:       db,
		genID:    node,
		service:  svc,
		targetID: node.Generate().String(),
	}
}

func (f *fixture) create(t *testing.T, userID, parentID, content string) domain.Comment {
	t.Helper()
	comment, err := f.service.Create(context.Background(), domain.CreateRequest{
		TargetType: ratingdomain.TargetNominee,
		TargetID:   f.targetID,
		UserID:     userID,
		ParentID:   parentID,
		Content:    content,
	})
	require.NoError(t, err)
	// Listing orders by creation time, keep inserts distinguishable.
	time.Sleep(2 * time.Millisecond)
	return comment
}

func TestCreateValidatesInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, domain.CreateRequest{
		TargetType: ratingdomain.TargetNominee,
		TargetID:   f.targetID,
		Content:    "no user",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidUser)

	_, err = f.service.Create(ctx, domain.CreateRequest{
		TargetType: ratingdomain.TargetNominee,
		TargetID:   f.targetID,
		UserID:     "user-1",
		Content:    "   ",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidContent)

	_, err = f.service.Create(ctx, domain.CreateRequest{
		TargetType: ratingdomain.TargetNominee,
		TargetID:   f.targetID,
		UserID:     "user-1",
		Content:    strings.Repeat("x", maxContentLength+1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidContent)

	_, err = f.service.Create(ctx, domain.CreateRequest{
		TargetType: ratingdomain.TargetNominee,
		TargetID:   "not-a-number",
		UserID:     "user-1",
		Content:    "hello",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestCreateRejectsParentOnOtherTarget(t *testing.T) {
	f := newFixture(t)

	parent := f.create(t, "user-1", "", "on this nominee")

	_, err := f.service.Create(context.Background(), domain.CreateRequest{
		TargetType: ratingdomain.TargetNominee,
		TargetID:   f.genID.Generate().String(),
		UserID:     "user-2",
		ParentID:   parent.ID.String(),
		Content:    "reply on a different nominee",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidParent)
}

func TestThreadsStayOneLevelDeep(t *testing.T) {
	f := newFixture(t)

	top := f.create(t, "user-1", "", "top level")
	reply := f.create(t, "user-2", top.ID.String(), "first reply")
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, top.ID, *reply.ParentID)

	// Replying to a reply attaches to the top-level comment instead of
	// nesting deeper.
	deep := f.create(t, "user-3", reply.ID.String(), "reply to the reply")
	require.NotNil(t, deep.ParentID)
	assert.Equal(t, top.ID, *deep.ParentID)

	views, err := f.service.ListForTarget(context.Background(), ratingdomain.TargetNominee, f.targetID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, top.ID, views[0].ID)
	require.Len(t, views[0].Replies, 2)
	assert.Equal(t, reply.ID, views[0].Replies[0].ID)
	assert.Equal(t, deep.ID, views[0].Replies[1].ID)
}

func TestListForTargetCountsReactions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	comment := f.create(t, "user-1", "", "rated comment")
	other := f.create(t, "user-1", "", "untouched comment")

	for _, user := range []string{"voter-1", "voter-2", "voter-3"} {
		_, err := f.service.React(ctx, domain.ReactRequest{
			CommentID: comment.ID.String(),
			UserID:    user,
			Kind:      "like",
		})
		require.NoError(t, err)
	}
	_, err := f.service.React(ctx, domain.ReactRequest{
		CommentID: comment.ID.String(),
		UserID:    "voter-4",
		Kind:      "dislike",
	})
	require.NoError(t, err)

	views, err := f.service.ListForTarget(ctx, ratingdomain.TargetNominee, f.targetID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, comment.ID, views[0].ID)
	assert.Equal(t, 3, views[0].Likes)
	assert.Equal(t, 1, views[0].Dislikes)

	assert.Equal(t, other.ID, views[1].ID)
	assert.Zero(t, views[1].Likes)
	assert.Zero(t, views[1].Dislikes)
}

func TestReactTogglesAndFlips(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	comment := f.create(t, "user-1", "", "toggle target")
	req := domain.ReactRequest{CommentID: comment.ID.String(), UserID: "voter-1", Kind: "like"}

	resp, err := f.service.React(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "like", resp.Reaction)
	assert.Equal(t, 1, resp.Likes)
	assert.Zero(t, resp.Dislikes)

	// Same kind again removes the reaction.
	resp, err = f.service.React(ctx, req)
	require.NoError(t, err)
	assert.Empty(t, resp.Reaction)
	assert.Zero(t, resp.Likes)
	assert.Zero(t, resp.Dislikes)

	// Like then dislike flips rather than stacking.
	_, err = f.service.React(ctx, req)
	require.NoError(t, err)
	req.Kind = "dislike"
	resp, err = f.service.React(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "dislike", resp.Reaction)
	assert.Zero(t, resp.Likes)
	assert.Equal(t, 1, resp.Dislikes)
}

func TestReactValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	comment := f.create(t, "user-1", "", "some comment")

	_, err := f.service.React(ctx, domain.ReactRequest{
		CommentID: comment.ID.String(),
		UserID:    "voter-1",
		Kind:      "love",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidKind)

	_, err = f.service.React(ctx, domain.ReactRequest{
		CommentID: comment.ID.String(),
		Kind:      "like",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidUser)

	_, err = f.service.React(ctx, domain.ReactRequest{
		CommentID: f.genID.Generate().String(),
		UserID:    "voter-1",
		Kind:      "like",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteCascadesRepliesAndReactions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	top := f.create(t, "user-1", "", "to be removed")
	f.create(t, "user-2", top.ID.String(), "reply under it")
	keeper := f.create(t, "user-3", "", "unrelated comment")

	_, err := f.service.React(ctx, domain.ReactRequest{
		CommentID: top.ID.String(),
		UserID:    "voter-1",
		Kind:      "like",
	})
	require.NoError(t, err)

	removed, err := f.service.Delete(ctx, top.ID.String())
	require.NoError(t, err)
	assert.Equal(t, top.ID, removed.ID)
	assert.Equal(t, ratingdomain.TargetNominee, removed.TargetType)

	views, err := f.service.ListForTarget(ctx, ratingdomain.TargetNominee, f.targetID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, keeper.ID, views[0].ID)

	var reactionCount int64
	require.NoError(t, f.db.Model(&domain.CommentReaction{}).Count(&reactionCount).Error)
	assert.Zero(t, reactionCount)
}

func TestDeleteUnknownComment(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Delete(context.Background(), f.genID.Generate().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
