package domain

import (
	"context"
	"errors"
)

// RatingInput is one category score inside a submission.
type RatingInput struct {
	CategoryID string `json:"category_id"`
	Score      int    `json:"score"`
	Comment    string `json:"comment,omitempty"`
}

// SubmitRequest is a batch of category ratings against one target. The batch
// is written atomically: one invalid entry rejects the whole submission.
type SubmitRequest struct {
	TargetType TargetType
	TargetID   string
	UserID     string
	Ratings    []RatingInput
}

type SubmitResponse struct {
	Ratings []Rating `json:"ratings"`
	Average float64  `json:"average"`
}

type CreateCategoryRequest struct {
	Name     string
	Icon     string
	Weight   float64
	Examples []string
}

type UpdateCategoryRequest struct {
	ID       string
	Name     string
	Icon     string
	Weight   *float64
	Examples []string
}

type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (SubmitResponse, error)
	ListForTarget(ctx context.Context, targetType TargetType, targetID string) ([]Rating, error)

	ListCategories(ctx context.Context) ([]RatingCategory, error)
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (RatingCategory, error)
	UpdateCategory(ctx context.Context, req UpdateCategoryRequest) (RatingCategory, error)
	DeleteCategory(ctx context.Context, id string) error
}

var (
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidUser      = errors.New("invalid_user")
	ErrInvalidScore     = errors.New("invalid_score")
	ErrEmptyRatings     = errors.New("empty_ratings")
	ErrInvalidCategory  = errors.New("invalid_category")
	ErrUnknownCategory  = errors.New("unknown_category")
	ErrInvalidName      = errors.New("invalid_name")
	ErrCategoryNotFound = errors.New("category_not_found")
	ErrRateLimited      = errors.New("rate_limited")
)
