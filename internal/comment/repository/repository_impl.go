package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/wananchi-labs/uwazi/internal/comment/domain"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, comment *domain.Comment) error {
	return db.WithContext(ctx).Create(comment).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Comment, error) {
	var comment domain.Comment
	err := db.WithContext(ctx).First(&comment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *repo) FindByTarget(ctx context.Context, db *gorm.DB, targetType ratingdomain.TargetType, targetID snowflake.ID) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("created_at asc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&domain.CommentReaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("parent_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Comment{}, "id = ?", id).Error
	})
}

func (r *repo) DeleteByTarget(ctx context.Context, db *gorm.DB, targetType ratingdomain.TargetType, targetID snowflake.ID) error {
	return db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Delete(&domain.Comment{}).Error
}

func (r *repo) FindReactions(ctx context.Context, db *gorm.DB, commentIDs []snowflake.ID) ([]domain.CommentReaction, error) {
	if len(commentIDs) == 0 {
		return nil, nil
	}
	var reactions []domain.CommentReaction
	err := db.WithContext(ctx).Where("comment_id IN ?", commentIDs).Find(&reactions).Error
	if err != nil {
		return nil, err
	}
	return reactions, nil
}

func (r *repo) FindReaction(ctx context.Context, db *gorm.DB, commentID snowflake.ID, userID string) (*domain.CommentReaction, error) {
	var reaction domain.CommentReaction
	err := db.WithContext(ctx).
		First(&reaction, "comment_id = ? AND user_id = ?", commentID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *repo) InsertReaction(ctx context.Context, db *gorm.DB, reaction *domain.CommentReaction) error {
	return db.WithContext(ctx).Create(reaction).Error
}

func (r *repo) UpdateReaction(ctx context.Context, db *gorm.DB, reaction *domain.CommentReaction) error {
	return db.WithContext(ctx).Save(reaction).Error
}

func (r *repo) DeleteReaction(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.CommentReaction{}, "id = ?", id).Error
}
