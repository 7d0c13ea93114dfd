package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, comment *Comment) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Comment, error)
	FindByTarget(ctx context.Context, db *gorm.DB, targetType ratingdomain.TargetType, targetID snowflake.ID) ([]Comment, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	DeleteByTarget(ctx context.Context, db *gorm.DB, targetType ratingdomain.TargetType, targetID snowflake.ID) error

	FindReactions(ctx context.Context, db *gorm.DB, commentIDs []snowflake.ID) ([]CommentReaction, error)
	FindReaction(ctx context.Context, db *gorm.DB, commentID snowflake.ID, userID string) (*CommentReaction, error)
	InsertReaction(ctx context.Context, db *gorm.DB, reaction *CommentReaction) error
	UpdateReaction(ctx context.Context, db *gorm.DB, reaction *CommentReaction) error
	DeleteReaction(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
