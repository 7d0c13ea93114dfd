package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/wananchi-labs/uwazi/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Status Status
	Query  string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, institution *Institution) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Institution, error)
	FindAllActive(ctx context.Context, db *gorm.DB) ([]Institution, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Institution, error)
	Update(ctx context.Context, db *gorm.DB, institution *Institution) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
