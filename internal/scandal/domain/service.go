package domain

import (
	"context"
	"errors"

	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
)

type CreateRequest struct {
	TargetType  ratingdomain.TargetType
	TargetID    string
	Title       string
	Description string
	AmountKES   *float64
	Year        int
	SourceURL   string
	Tags        []string
}

type UpdateRequest struct {
	ID          string
	Title       string
	Description string
	AmountKES   *float64
	Year        int
	SourceURL   string
	Tags        []string
}

type AddEvidenceRequest struct {
	ScandalID string
	Kind      string
	Title     string
	URL       string
}

// Every mutation returns the affected scandal so callers can tell which
// nominee or institution view it belongs to.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (Scandal, error)
	Update(ctx context.Context, req UpdateRequest) (Scandal, error)
	Delete(ctx context.Context, id string) (Scandal, error)
	ListForTarget(ctx context.Context, targetType ratingdomain.TargetType, targetID string) ([]Scandal, error)

	AddEvidence(ctx context.Context, req AddEvidenceRequest) (Scandal, error)
	RemoveEvidence(ctx context.Context, id string) (Scandal, error)
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidTitle    = errors.New("invalid_title")
	ErrInvalidURL      = errors.New("invalid_url")
	ErrNotFound        = errors.New("scandal_not_found")
	ErrEvidenceMissing = errors.New("evidence_not_found")
)
