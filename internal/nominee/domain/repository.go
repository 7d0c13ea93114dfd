package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/wananchi-labs/uwazi/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Status     Status
	PositionID snowflake.ID
	DistrictID snowflake.ID
	Query      string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, nominee *Nominee) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Nominee, error)
	FindAllActive(ctx context.Context, db *gorm.DB) ([]Nominee, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Nominee, error)
	Update(ctx context.Context, db *gorm.DB, nominee *Nominee) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
