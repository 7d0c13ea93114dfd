package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wananchi-labs/uwazi/internal/rating/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertBatch(ctx context.Context, db *gorm.DB, ratings []*domain.Rating) error {
	if len(ratings) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(ratings).Error
}

func (r *repo) FindByTarget(ctx context.Context, db *gorm.DB, targetType domain.TargetType, targetID snowflake.ID) ([]domain.Rating, error) {
	var ratings []domain.Rating
	err := db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("created_at desc").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *repo) FindByTargetType(ctx context.Context, db *gorm.DB, targetType domain.TargetType) ([]domain.Rating, error) {
	var ratings []domain.Rating
	err := db.WithContext(ctx).
		Where("target_type = ?", targetType).
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *repo) FindByTargetTypeSince(ctx context.Context, db *gorm.DB, targetType domain.TargetType, since time.Time) ([]domain.Rating, error) {
	var ratings []domain.Rating
	err := db.WithContext(ctx).
		Where("target_type = ? AND created_at > ?", targetType, since).
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *repo) CountByUserSince(ctx context.Context, db *gorm.DB, userID string, targetType domain.TargetType, targetID snowflake.ID, since time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Rating{}).
		Where("user_id = ? AND target_type = ? AND target_id = ? AND created_at > ?", userID, targetType, targetID, since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repo) DeleteByTarget(ctx context.Context, db *gorm.DB, targetType domain.TargetType, targetID snowflake.ID) error {
	return db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Delete(&domain.Rating{}).Error
}

type categoryRepo struct{}

func ProvideCategories() domain.CategoryRepository {
	return &categoryRepo{}
}

func (r *categoryRepo) Insert(ctx context.Context, db *gorm.DB, category *domain.RatingCategory) error {
	return db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.RatingCategory, error) {
	var category domain.RatingCategory
	err := db.WithContext(ctx).First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]domain.RatingCategory, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var categories []domain.RatingCategory
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepo) List(ctx context.Context, db *gorm.DB) ([]domain.RatingCategory, error) {
	var categories []domain.RatingCategory
	err := db.WithContext(ctx).Order("name asc").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepo) Update(ctx context.Context, db *gorm.DB, category *domain.RatingCategory) error {
	return db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.RatingCategory{}, "id = ?", id).Error
}
