package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/wananchi-labs/uwazi/internal/institution/domain"
	"github.com/wananchi-labs/uwazi/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, institution *domain.Institution) error {
	return db.WithContext(ctx).Create(institution).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Institution, error) {
	var institution domain.Institution
	err := db.WithContext(ctx).First(&institution, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &institution, nil
}

func (r *repo) FindAllActive(ctx context.Context, db *gorm.DB) ([]domain.Institution, error) {
	var institutions []domain.Institution
	err := db.WithContext(ctx).
		Where("status = ?", domain.StatusActive).
		Order("id asc").
		Find(&institutions).Error
	if err != nil {
		return nil, err
	}
	return institutions, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Institution, error) {
	var institutions []*domain.Institution
	stmt := db.WithContext(ctx).Model(&domain.Institution{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
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
		Find(&institutions).Error
	if err != nil {
		return nil, err
	}
	return institutions, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, institution *domain.Institution) error {
	return db.WithContext(ctx).Save(institution).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.Institution{}, "id = ?", id).Error
}
