package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	commentdomain "github.com/wananchi-labs/uwazi/internal/comment/domain"
	institutiondomain "github.com/wananchi-labs/uwazi/internal/institution/domain"
	nomineedomain "github.com/wananchi-labs/uwazi/internal/nominee/domain"
	"github.com/wananchi-labs/uwazi/internal/observability/metrics"
	"github.com/wananchi-labs/uwazi/internal/ratelimit"
	"github.com/wananchi-labs/uwazi/internal/rating/domain"
	"github.com/wananchi-labs/uwazi/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Repo         domain.Repository
	Categories   domain.CategoryRepository
	Comments     commentdomain.Repository
	Nominees     nomineedomain.Repository
	Institutions institutiondomain.Repository
	Limiter      ratelimit.Limiter
	Metrics      *metrics.Metrics
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	repo         domain.Repository
	categories   domain.CategoryRepository
	comments     commentdomain.Repository
	nominees     nomineedomain.Repository
	institutions institutiondomain.Repository
	limiter      ratelimit.Limiter
	metrics      *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("rating.service"),
		genID:        p.GenID,
		repo:         p.Repo,
		categories:   p.Categories,
		comments:     p.Comments,
		nominees:     p.Nominees,
		institutions: p.Institutions,
		limiter:      p.Limiter,
		metrics:      p.Metrics,
	}
}

// Submit validates and persists a batch of category scores against one
// target. The whole batch is written in a single transaction together with
// any comments carried on the entries; a single invalid entry rejects the
// submission.
func (s *Service) Submit(ctx context.Context, req domain.SubmitRequest) (domain.SubmitResponse, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return domain.SubmitResponse{}, domain.ErrInvalidUser
	}
	targetID, err := parseID(req.TargetID)
	if err != nil {
		return domain.SubmitResponse{}, err
	}
	if len(req.Ratings) == 0 {
		return domain.SubmitResponse{}, domain.ErrEmptyRatings
	}

	if err := s.targetExists(ctx, req.TargetType, targetID); err != nil {
		return domain.SubmitResponse{}, err
	}

	categoryIDs := make([]snowflake.ID, 0, len(req.Ratings))
	for _, in := range req.Ratings {
		if in.Score < domain.MinScore || in.Score > domain.MaxScore {
			return domain.SubmitResponse{}, domain.ErrInvalidScore
		}
		categoryID, err := snowflake.ParseString(strings.TrimSpace(in.CategoryID))
		if err != nil || categoryID == 0 {
			return domain.SubmitResponse{}, domain.ErrInvalidCategory
		}
		categoryIDs = append(categoryIDs, categoryID)
	}

	known, err := s.categories.FindByIDs(ctx, s.db, categoryIDs)
	if err != nil {
		return domain.SubmitResponse{}, err
	}
	knownSet := make(map[snowflake.ID]struct{}, len(known))
	for _, c := range known {
		knownSet[c.ID] = struct{}{}
	}
	for _, id := range categoryIDs {
		if _, ok := knownSet[id]; !ok {
			return domain.SubmitResponse{}, domain.ErrUnknownCategory
		}
	}

	limit, err := s.limiter.Check(ctx, userID, req.TargetType, targetID)
	if err != nil {
		return domain.SubmitResponse{}, err
	}
	if !limit.Allowed {
		s.metrics.RecordRateLimitDenied(ctx, string(req.TargetType), "window_exhausted")
		return domain.SubmitResponse{}, domain.ErrRateLimited
	}
	s.metrics.RecordRateLimitAllowed(ctx, string(req.TargetType))

	now := time.Now().UTC()
	ratings := make([]*domain.Rating, 0, len(req.Ratings))
	var derived []*commentdomain.Comment
	for i, in := range req.Ratings {
		rating := &domain.Rating{
			ID:         s.genID.Generate(),
			TargetType: req.TargetType,
			TargetID:   targetID,
			UserID:     userID,
			CategoryID: categoryIDs[i],
			Score:      in.Score,
			CreatedAt:  now,
		}
		if content := strings.TrimSpace(in.Comment); content != "" {
			rating.Comment = &content
			derived = append(derived, &commentdomain.Comment{
				ID:         s.genID.Generate(),
				TargetType: req.TargetType,
				TargetID:   targetID,
				UserID:     userID,
				Content:    content,
				CreatedAt:  now,
			})
		}
		ratings = append(ratings, rating)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertBatch(ctx, tx, ratings); err != nil {
			return err
		}
		for _, c := range derived {
			if err := s.comments.Insert(ctx, tx, c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.SubmitResponse{}, err
	}

	s.metrics.RecordRatingSubmitted(ctx, string(req.TargetType), int64(len(ratings)))
	s.log.Info("ratings submitted",
		zap.String("target_type", string(req.TargetType)),
		zap.String("target_id", targetID.String()),
		zap.Int("count", len(ratings)),
	)

	out := make([]domain.Rating, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, *r)
	}
	return domain.SubmitResponse{Ratings: out, Average: domain.AverageScore(out)}, nil
}

func (s *Service) ListForTarget(ctx context.Context, targetType domain.TargetType, targetID string) ([]domain.Rating, error) {
	id, err := parseID(targetID)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByTarget(ctx, s.db, targetType, id)
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.RatingCategory, error) {
	return s.categories.List(ctx, s.db)
}

func (s *Service) CreateCategory(ctx context.Context, req domain.CreateCategoryRequest) (domain.RatingCategory, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.RatingCategory{}, domain.ErrInvalidName
	}

	category := domain.RatingCategory{
		ID:     s.genID.Generate(),
		Name:   name,
		Icon:   strings.TrimSpace(req.Icon),
		Weight: req.Weight,
	}
	if category.Weight <= 0 {
		category.Weight = 1
	}
	if len(req.Examples) > 0 {
		raw, err := json.Marshal(req.Examples)
		if err != nil {
			return domain.RatingCategory{}, err
		}
		category.Examples = datatypes.JSON(raw)
	}

	if err := s.categories.Insert(ctx, s.db, &category); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.RatingCategory{}, domain.ErrInvalidName
		}
		return domain.RatingCategory{}, err
	}
	return category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, req domain.UpdateCategoryRequest) (domain.RatingCategory, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.RatingCategory{}, err
	}
	category, err := s.categories.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.RatingCategory{}, err
	}
	if category == nil {
		return domain.RatingCategory{}, domain.ErrCategoryNotFound
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		category.Name = name
	}
	if icon := strings.TrimSpace(req.Icon); icon != "" {
		category.Icon = icon
	}
	if req.Weight != nil {
		if *req.Weight <= 0 {
			return domain.RatingCategory{}, domain.ErrInvalidName
		}
		category.Weight = *req.Weight
	}
	if req.Examples != nil {
		raw, err := json.Marshal(req.Examples)
		if err != nil {
			return domain.RatingCategory{}, err
		}
		category.Examples = datatypes.JSON(raw)
	}

	if err := s.categories.Update(ctx, s.db, category); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.RatingCategory{}, domain.ErrInvalidName
		}
		return domain.RatingCategory{}, err
	}
	return *category, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	categoryID, err := parseID(id)
	if err != nil {
		return err
	}
	category, err := s.categories.FindByID(ctx, s.db, categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.ErrCategoryNotFound
	}
	return s.categories.Delete(ctx, s.db, categoryID)
}

func (s *Service) targetExists(ctx context.Context, targetType domain.TargetType, targetID snowflake.ID) error {
	switch targetType {
	case domain.TargetNominee:
		nominee, err := s.nominees.FindByID(ctx, s.db, targetID)
		if err != nil {
			return err
		}
		if nominee == nil {
			return domain.ErrInvalidID
		}
	case domain.TargetInstitution:
		institution, err := s.institutions.FindByID(ctx, s.db, targetID)
		if err != nil {
			return err
		}
		if institution == nil {
			return domain.ErrInvalidID
		}
	default:
		return domain.ErrInvalidID
	}
	return nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
