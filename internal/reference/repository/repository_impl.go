package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/wananchi-labs/uwazi/internal/reference/domain"
	"gorm.io/gorm"
)

type positionRepo struct{}

func ProvidePositions() domain.PositionRepository {
	return &positionRepo{}
}

func (r *positionRepo) Insert(ctx context.Context, db *gorm.DB, position *domain.Position) error {
	return db.WithContext(ctx).Create(position).Error
}

func (r *positionRepo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Position, error) {
	var position domain.Position
	err := db.WithContext(ctx).First(&position, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &position, nil
}

func (r *positionRepo) List(ctx context.Context, db *gorm.DB) ([]domain.Position, error) {
	var positions []domain.Position
	err := db.WithContext(ctx).Order("title asc").Find(&positions).Error
	if err != nil {
		return nil, err
	}
	return positions, nil
}

func (r *positionRepo) Update(ctx context.Context, db *gorm.DB, position *domain.Position) error {
	return db.WithContext(ctx).Save(position).Error
}

func (r *positionRepo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.Position{}, "id = ?", id).Error
}

type districtRepo struct{}

func ProvideDistricts() domain.DistrictRepository {
	return &districtRepo{}
}

func (r *districtRepo) Insert(ctx context.Context, db *gorm.DB, district *domain.District) error {
	return db.WithContext(ctx).Create(district).Error
}

func (r *districtRepo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.District, error) {
	var district domain.District
	err := db.WithContext(ctx).First(&district, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &district, nil
}

func (r *districtRepo) List(ctx context.Context, db *gorm.DB) ([]domain.District, error) {
	var districts []domain.District
	err := db.WithContext(ctx).Order("name asc").Find(&districts).Error
	if err != nil {
		return nil, err
	}
	return districts, nil
}

func (r *districtRepo) Update(ctx context.Context, db *gorm.DB, district *domain.District) error {
	return db.WithContext(ctx).Save(district).Error
}

func (r *districtRepo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.District{}, "id = ?", id).Error
}
