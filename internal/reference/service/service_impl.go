package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/wananchi-labs/uwazi/internal/reference/domain"
	"github.com/wananchi-labs/uwazi/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Positions domain.PositionRepository
	Districts domain.DistrictRepository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	positions domain.PositionRepository
	districts domain.DistrictRepository
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("reference.service"),
		genID:     p.GenID,
		positions: p.Positions,
		districts: p.Districts,
	}
}

func (s *Service) ListPositions(ctx context.Context) ([]domain.Position, error) {
	return s.positions.List(ctx, s.db)
}

func (s *Service) CreatePosition(ctx context.Context, req domain.CreatePositionRequest) (domain.Position, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.Position{}, domain.ErrInvalidName
	}

	position := domain.Position{
		ID:    s.genID.Generate(),
		Title: title,
		Level: strings.TrimSpace(req.Level),
	}
	if err := s.positions.Insert(ctx, s.db, &position); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Position{}, domain.ErrDuplicate
		}
		return domain.Position{}, err
	}
	return position, nil
}

func (s *Service) UpdatePosition(ctx context.Context, req domain.UpdatePositionRequest) (domain.Position, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Position{}, err
	}
	position, err := s.positions.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Position{}, err
	}
	if position == nil {
		return domain.Position{}, domain.ErrNotFound
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		position.Title = title
	}
	if level := strings.TrimSpace(req.Level); level != "" {
		position.Level = level
	}
	if err := s.positions.Update(ctx, s.db, position); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Position{}, domain.ErrDuplicate
		}
		return domain.Position{}, err
	}
	return *position, nil
}

func (s *Service) DeletePosition(ctx context.Context, id string) error {
	positionID, err := parseID(id)
	if err != nil {
		return err
	}
	position, err := s.positions.FindByID(ctx, s.db, positionID)
	if err != nil {
		return err
	}
	if position == nil {
		return domain.ErrNotFound
	}
	return s.positions.Delete(ctx, s.db, positionID)
}

func (s *Service) ListDistricts(ctx context.Context) ([]domain.District, error) {
	return s.districts.List(ctx, s.db)
}

func (s *Service) CreateDistrict(ctx context.Context, req domain.CreateDistrictRequest) (domain.District, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.District{}, domain.ErrInvalidName
	}

	district := domain.District{
		ID:     s.genID.Generate(),
		Name:   name,
		Region: strings.TrimSpace(req.Region),
	}
	if err := s.districts.Insert(ctx, s.db, &district); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.District{}, domain.ErrDuplicate
		}
		return domain.District{}, err
	}
	return district, nil
}

func (s *Service) UpdateDistrict(ctx context.Context, req domain.UpdateDistrictRequest) (domain.District, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.District{}, err
	}
	district, err := s.districts.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.District{}, err
	}
	if district == nil {
		return domain.District{}, domain.ErrNotFound
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		district.Name = name
	}
	if region := strings.TrimSpace(req.Region); region != "" {
		district.Region = region
	}
	if err := s.districts.Update(ctx, s.db, district); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.District{}, domain.ErrDuplicate
		}
		return domain.District{}, err
	}
	return *district, nil
}

func (s *Service) DeleteDistrict(ctx context.Context, id string) error {
	districtID, err := parseID(id)
	if err != nil {
		return err
	}
	district, err := s.districts.FindByID(ctx, s.db, districtID)
	if err != nil {
		return err
	}
	if district == nil {
		return domain.ErrNotFound
	}
	return s.districts.Delete(ctx, s.db, districtID)
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
