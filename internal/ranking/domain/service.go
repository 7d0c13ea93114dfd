package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
)

// RankResult reports an entity's 1-based position in the descending sort of
// its kind by average score. Rank 0 means the entity was not in the ranked
// set.
type RankResult struct {
	Rank         int `json:"rank"`
	TotalRatings int `json:"total_ratings"`
}

// Entry is one ranked row on a leaderboard.
type Entry struct {
	ID           snowflake.ID            `json:"id"`
	TargetType   ratingdomain.TargetType `json:"target_type"`
	Name         string                  `json:"name"`
	Slug         string                  `json:"slug"`
	ImageURL     string                  `json:"image_url,omitempty"`
	Average      float64                 `json:"average"`
	TotalRatings int                     `json:"total_ratings"`
	Rank         int                     `json:"rank"`
}

// TrendingEntry is one row on the trending view, ordered by rating volume
// inside the trailing window.
type TrendingEntry struct {
	ID            snowflake.ID            `json:"id"`
	TargetType    ratingdomain.TargetType `json:"target_type"`
	Name          string                  `json:"name"`
	Slug          string                  `json:"slug"`
	ImageURL      string                  `json:"image_url,omitempty"`
	RecentRatings int                     `json:"recent_ratings"`
	Average       float64                 `json:"average"`
}

type LeaderboardRequest struct {
	TargetType ratingdomain.TargetType
	CategoryID string
	Limit      int
}

type Service interface {
	// RankFor computes the target's rank among all active entities of its
	// kind, optionally restricted to one category.
	RankFor(ctx context.Context, targetType ratingdomain.TargetType, targetID, categoryID string) (RankResult, error)
	Leaderboard(ctx context.Context, req LeaderboardRequest) ([]Entry, error)
	Trending(ctx context.Context, targetType ratingdomain.TargetType, limit int) ([]TrendingEntry, error)
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidCategory = errors.New("invalid_category")
	ErrInvalidLimit    = errors.New("invalid_limit")
)
