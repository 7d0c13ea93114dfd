package domain

import (
	"context"
	"errors"

	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
)

type CreateRequest struct {
	TargetType ratingdomain.TargetType
	TargetID   string
	UserID     string
	ParentID   string
	Content    string
}

type ReactRequest struct {
	CommentID string
	UserID    string
	Kind      string
}

type ReactResponse struct {
	CommentID string `json:"comment_id"`
	Likes     int    `json:"likes"`
	Dislikes  int    `json:"dislikes"`
	// Reaction is the user's reaction after the toggle, empty when removed.
	Reaction string `json:"reaction,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Comment, error)
	ListForTarget(ctx context.Context, targetType ratingdomain.TargetType, targetID string) ([]CommentView, error)
	React(ctx context.Context, req ReactRequest) (ReactResponse, error)
	// Delete returns the removed comment so callers can invalidate the
	// target's cached views.
	Delete(ctx context.Context, id string) (Comment, error)
}

var (
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidUser    = errors.New("invalid_user")
	ErrInvalidContent = errors.New("invalid_content")
	ErrInvalidParent  = errors.New("invalid_parent")
	ErrInvalidKind    = errors.New("invalid_kind")
	ErrNotFound       = errors.New("comment_not_found")
)
