package domain

import (
	"context"
	"errors"
)

type CreatePositionRequest struct {
	Title string
	Level string
}

type UpdatePositionRequest struct {
	ID    string
	Title string
	Level string
}

type CreateDistrictRequest struct {
	Name   string
	Region string
}

type UpdateDistrictRequest struct {
	ID     string
	Name   string
	Region string
}

type Service interface {
	ListPositions(ctx context.Context) ([]Position, error)
	CreatePosition(ctx context.Context, req CreatePositionRequest) (Position, error)
	UpdatePosition(ctx context.Context, req UpdatePositionRequest) (Position, error)
	DeletePosition(ctx context.Context, id string) error

	ListDistricts(ctx context.Context) ([]District, error)
	CreateDistrict(ctx context.Context, req CreateDistrictRequest) (District, error)
	UpdateDistrict(ctx context.Context, req UpdateDistrictRequest) (District, error)
	DeleteDistrict(ctx context.Context, id string) error
}

var (
	ErrInvalidID   = errors.New("invalid_id")
	ErrInvalidName = errors.New("invalid_name")
	ErrDuplicate   = errors.New("duplicate_name")
	ErrNotFound    = errors.New("not_found")
)
