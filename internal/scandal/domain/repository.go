package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, scandal *Scandal) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Scandal, error)
	FindByTarget(ctx context.Context, db *gorm.DB, targetType ratingdomain.TargetType, targetID snowflake.ID) ([]Scandal, error)
	Update(ctx context.Context, db *gorm.DB, scandal *Scandal) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	DeleteByTarget(ctx context.Context, db *gorm.DB, targetType ratingdomain.TargetType, targetID snowflake.ID) error

	InsertEvidence(ctx context.Context, db *gorm.DB, evidence *Evidence) error
	FindEvidence(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Evidence, error)
	DeleteEvidence(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
