package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertBatch(ctx context.Context, db *gorm.DB, ratings []*Rating) error
	FindByTarget(ctx context.Context, db *gorm.DB, targetType TargetType, targetID snowflake.ID) ([]Rating, error)
	FindByTargetType(ctx context.Context, db *gorm.DB, targetType TargetType) ([]Rating, error)
	FindByTargetTypeSince(ctx context.Context, db *gorm.DB, targetType TargetType, since time.Time) ([]Rating, error)
	CountByUserSince(ctx context.Context, db *gorm.DB, userID string, targetType TargetType, targetID snowflake.ID, since time.Time) (int64, error)
	DeleteByTarget(ctx context.Context, db *gorm.DB, targetType TargetType, targetID snowflake.ID) error
}

type CategoryRepository interface {
	Insert(ctx context.Context, db *gorm.DB, category *RatingCategory) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*RatingCategory, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]RatingCategory, error)
	List(ctx context.Context, db *gorm.DB) ([]RatingCategory, error)
	Update(ctx context.Context, db *gorm.DB, category *RatingCategory) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
