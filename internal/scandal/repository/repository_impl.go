package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
	"github.com/wananchi-labs/uwazi/internal/scandal/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, scandal *domain.Scandal) error {
	return db.WithContext(ctx).Create(scandal).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Scandal, error) {
	var scandal domain.Scandal
	err := db.WithContext(ctx).
		Preload("Evidence").
		First(&scandal, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &scandal, nil
}

func (r *repo) FindByTarget(ctx context.Context, db *gorm.DB, targetType ratingdomain.TargetType, targetID snowflake.ID) ([]domain.Scandal, error) {
	var scandals []domain.Scandal
	err := db.WithContext(ctx).
		Preload("Evidence").
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("year desc, id desc").
		Find(&scandals).Error
	if err != nil {
		return nil, err
	}
	return scandals, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, scandal *domain.Scandal) error {
	return db.WithContext(ctx).Omit("Evidence").Save(scandal).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.Evidence{}, "scandal_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Scandal{}, "id = ?", id).Error
	})
}

func (r *repo) DeleteByTarget(ctx context.Context, db *gorm.DB, targetType ratingdomain.TargetType, targetID snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := tx.Model(&domain.Scandal{}).
			Select("id").
			Where("target_type = ? AND target_id = ?", targetType, targetID)
		if err := tx.Delete(&domain.Evidence{}, "scandal_id IN (?)", ids).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Scandal{}, "target_type = ? AND target_id = ?", targetType, targetID).Error
	})
}

func (r *repo) InsertEvidence(ctx context.Context, db *gorm.DB, evidence *domain.Evidence) error {
	return db.WithContext(ctx).Create(evidence).Error
}

func (r *repo) FindEvidence(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Evidence, error) {
	var evidence domain.Evidence
	err := db.WithContext(ctx).First(&evidence, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &evidence, nil
}

func (r *repo) DeleteEvidence(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.Evidence{}, "id = ?", id).Error
}
