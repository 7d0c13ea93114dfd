package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	commentdomain "github.com/wananchi-labs/uwazi/internal/comment/domain"
	"github.com/wananchi-labs/uwazi/internal/institution/domain"
	rankingdomain "github.com/wananchi-labs/uwazi/internal/ranking/domain"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
	scandaldomain "github.com/wananchi-labs/uwazi/internal/scandal/domain"
	"github.com/wananchi-labs/uwazi/pkg/db"
	"github.com/wananchi-labs/uwazi/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	Ratings    ratingdomain.Repository
	Categories ratingdomain.CategoryRepository
	Comments   commentdomain.Repository
	CommentSvc commentdomain.Service
	Ranking    rankingdomain.Service
	Scandals   scandaldomain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	ratings    ratingdomain.Repository
	categories ratingdomain.CategoryRepository
	comments   commentdomain.Repository
	commentSvc commentdomain.Service
	ranking    rankingdomain.Service
	scandals   scandaldomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("institution.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		ratings:    p.Ratings,
		categories: p.Categories,
		comments:   p.Comments,
		commentSvc: p.CommentSvc,
		ranking:    p.Ranking,
		scandals:   p.Scandals,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Institution, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Institution{}, domain.ErrInvalidName
	}

	institution := domain.Institution{
		ID:          s.genID.Generate(),
		Name:        name,
		Status:      domain.StatusActive,
		Description: strings.TrimSpace(req.Description),
		ImageURL:    strings.TrimSpace(req.ImageURL),
	}
	institution.Slug = slug.Make(name) + "-" + institution.ID.String()

	if err := s.repo.Insert(ctx, s.db, &institution); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Institution{}, domain.ErrInvalidName
		}
		return domain.Institution{}, err
	}

	s.log.Info("institution created",
		zap.String("institution_id", institution.ID.String()),
		zap.String("slug", institution.Slug),
	)
	return institution, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (domain.Institution, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Institution{}, err
	}
	institution, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Institution{}, err
	}
	if institution == nil {
		return domain.Institution{}, domain.ErrNotFound
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		institution.Name = name
		institution.Slug = slug.Make(name) + "-" + institution.ID.String()
	}
	if status := strings.TrimSpace(req.Status); status != "" {
		switch domain.Status(status) {
		case domain.StatusActive, domain.StatusInactive:
			institution.Status = domain.Status(status)
		default:
			return domain.Institution{}, domain.ErrInvalidStatus
		}
	}
	if description := strings.TrimSpace(req.Description); description != "" {
		institution.Description = description
	}
	if imageURL := strings.TrimSpace(req.ImageURL); imageURL != "" {
		institution.ImageURL = imageURL
	}

	if err := s.repo.Update(ctx, s.db, institution); err != nil {
		return domain.Institution{}, err
	}
	return *institution, nil
}

// Delete removes the institution along with its ratings, comments, reactions
// and scandals in one transaction.
func (s *Service) Delete(ctx context.Context, id string) error {
	institutionID, err := parseID(id)
	if err != nil {
		return err
	}
	institution, err := s.repo.FindByID(ctx, s.db, institutionID)
	if err != nil {
		return err
	}
	if institution == nil {
		return domain.ErrNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ratings.DeleteByTarget(ctx, tx, ratingdomain.TargetInstitution, institutionID); err != nil {
			return err
		}
		if err := s.comments.DeleteByTarget(ctx, tx, ratingdomain.TargetInstitution, institutionID); err != nil {
			return err
		}
		if err := s.scandals.DeleteByTarget(ctx, tx, ratingdomain.TargetInstitution, institutionID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, institutionID)
	})
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	filter := domain.ListFilter{Query: strings.TrimSpace(req.Query)}
	if status := strings.TrimSpace(req.Status); status != "" {
		filter.Status = domain.Status(status)
	}

	page := pagination.Pagination{PageToken: req.PageToken, PageSize: req.PageSize}
	if page.PageSize <= 0 {
		page.PageSize = 20
	}
	if page.PageSize > 100 {
		page.PageSize = 100
	}

	institutions, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(institutions, page.PageSize, func(i *domain.Institution) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{
			ID:        i.ID.String(),
			CreatedAt: i.CreatedAt.UTC().Format("2006-01-02 15:04:05.999999999"),
		})
		return token
	})
	if len(institutions) > page.PageSize {
		institutions = institutions[:page.PageSize]
	}

	allRatings, err := s.ratings.FindByTargetType(ctx, s.db, ratingdomain.TargetInstitution)
	if err != nil {
		return domain.ListResponse{}, err
	}
	byTarget := make(map[snowflake.ID][]ratingdomain.Rating)
	for _, r := range allRatings {
		byTarget[r.TargetID] = append(byTarget[r.TargetID], r)
	}

	items := make([]domain.ListItem, 0, len(institutions))
	for _, i := range institutions {
		group := byTarget[i.ID]
		items = append(items, domain.ListItem{
			Institution:   *i,
			AverageRating: ratingdomain.AverageScore(group),
			TotalRatings:  len(group),
		})
	}

	return domain.ListResponse{PageInfo: *pageInfo, Institutions: items}, nil
}

func (s *Service) GetDetail(ctx context.Context, id string) (domain.Detail, error) {
	institutionID, err := parseID(id)
	if err != nil {
		return domain.Detail{}, err
	}
	institution, err := s.repo.FindByID(ctx, s.db, institutionID)
	if err != nil {
		return domain.Detail{}, err
	}
	if institution == nil {
		return domain.Detail{}, domain.ErrNotFound
	}

	ratings, err := s.ratings.FindByTarget(ctx, s.db, ratingdomain.TargetInstitution, institutionID)
	if err != nil {
		return domain.Detail{}, err
	}
	categories, err := s.categories.List(ctx, s.db)
	if err != nil {
		return domain.Detail{}, err
	}
	comments, err := s.commentSvc.ListForTarget(ctx, ratingdomain.TargetInstitution, institutionID.String())
	if err != nil {
		return domain.Detail{}, err
	}
	rank, err := s.ranking.RankFor(ctx, ratingdomain.TargetInstitution, institutionID.String(), "")
	if err != nil {
		return domain.Detail{}, err
	}
	scandals, err := s.scandals.FindByTarget(ctx, s.db, ratingdomain.TargetInstitution, institutionID)
	if err != nil {
		return domain.Detail{}, err
	}

	return domain.Detail{
		Institution:      *institution,
		AverageRating:    ratingdomain.AverageScore(ratings),
		TotalRatings:     len(ratings),
		OverallRank:      rank.Rank,
		CategoryAverages: ratingdomain.AverageByCategory(ratings, categories),
		Ratings:          ratings,
		Comments:         comments,
		Scandals:         scandals,
	}, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
