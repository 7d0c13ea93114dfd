package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type PositionRepository interface {
	Insert(ctx context.Context, db *gorm.DB, position *Position) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Position, error)
	List(ctx context.Context, db *gorm.DB) ([]Position, error)
	Update(ctx context.Context, db *gorm.DB, position *Position) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}

type DistrictRepository interface {
	Insert(ctx context.Context, db *gorm.DB, district *District) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*District, error)
	List(ctx context.Context, db *gorm.DB) ([]District, error)
	Update(ctx context.Context, db *gorm.DB, district *District) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
