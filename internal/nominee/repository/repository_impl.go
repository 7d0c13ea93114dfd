package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/wananchi-labs/uwazi/internal/nominee/domain"
	"github.com/wananchi-labs/uwazi/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, nominee *domain.Nominee) error {
	return db.WithContext(ctx).Create(nominee).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Nominee, error) {
	var nominee domain.Nominee
	err := db.WithContext(ctx).First(&nominee, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &nominee, nil
}

func (r *repo) FindAllActive(ctx context.Context, db *gorm.DB) ([]domain.Nominee, error) {
	var nominees []domain.Nominee
	err := db.WithContext(ctx).
		Where("status = ?", domain.StatusActive).
		Order("id asc").
		Find(&nominees).Error
	if err != nil {
		return nil, err
	}
	return nominees, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Nominee, error) {
	var nominees []*domain.Nominee
	stmt := db.WithContext(ctx).Model(&domain.Nominee{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.PositionID != 0 {
		stmt = stmt.Where("position_id = ?", filter.PositionID)
	}
	if filter.DistrictID != 0 {
		stmt = stmt.Where("district_id = ?", filter.DistrictID)
	}
	if filter.Query != "" {
		stmt = stmt.Where("name LIKE ?", "%"+filter.Query+"%")
	}

	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err == nil && cursor.CreatedAt != "" {
			stmt = stmt.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	limit := page.PageSize
	if limit <= 0 {
		limit = 20
	}
	err := stmt.
		Order("created_at desc, id desc").
		Limit(limit + 1).
		Find(&nominees).Error
	if err != nil {
		return nil, err
	}
	return nominees, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, nominee *domain.Nominee) error {
	return db.WithContext(ctx).Save(nominee).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.Nominee{}, "id = ?", id).Error
}
