package domain

import (
	"context"
	"errors"

	commentdomain "github.com/wananchi-labs/uwazi/internal/comment/domain"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
	scandaldomain "github.com/wananchi-labs/uwazi/internal/scandal/domain"
	"github.com/wananchi-labs/uwazi/pkg/db/pagination"
)

type ListRequest struct {
	PageToken  string
	PageSize   int
	Status     string
	PositionID string
	DistrictID string
	Query      string
}

type ListItem struct {
	Nominee
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
}

type ListResponse struct {
	pagination.PageInfo
	Nominees []ListItem `json:"nominees"`
}

// Detail is the fully-derived snapshot served (and cached) for one nominee.
type Detail struct {
	Nominee
	AverageRating    float64                        `json:"average_rating"`
	TotalRatings     int                            `json:"total_ratings"`
	OverallRank      int                            `json:"overall_rank"`
	CategoryAverages []ratingdomain.CategoryAverage `json:"category_averages"`
	Ratings          []ratingdomain.Rating          `json:"ratings"`
	Comments         []commentdomain.CommentView    `json:"comments"`
	Scandals         []scandaldomain.Scandal        `json:"scandals"`
}

type CreateRequest struct {
	Name       string
	PositionID string
	DistrictID string
	Bio        string
	ImageURL   string
}

type UpdateRequest struct {
	ID         string
	Name       string
	Status     string
	PositionID string
	DistrictID string
	Bio        string
	ImageURL   string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Nominee, error)
	Update(ctx context.Context, req UpdateRequest) (Nominee, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	GetDetail(ctx context.Context, id string) (Detail, error)
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidPosition = errors.New("invalid_position")
	ErrInvalidDistrict = errors.New("invalid_district")
	ErrNotFound        = errors.New("not_found")
)
