package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	commentdomain "github.com/wananchi-labs/uwazi/internal/comment/domain"
	"github.com/wananchi-labs/uwazi/internal/nominee/domain"
	rankingdomain "github.com/wananchi-labs/uwazi/internal/ranking/domain"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
	referencedomain "github.com/wananchi-labs/uwazi/internal/reference/domain"
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
	Positions  referencedomain.PositionRepository
	Districts  referencedomain.DistrictRepository
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
	positions  referencedomain.PositionRepository
	districts  referencedomain.DistrictRepository
	scandals   scandaldomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("nominee.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		ratings:    p.Ratings,
		categories: p.Categories,
		comments:   p.Comments,
		commentSvc: p.CommentSvc,
		ranking:    p.Ranking,
		positions:  p.Positions,
		districts:  p.Districts,
		scandals:   p.Scandals,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Nominee, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Nominee{}, domain.ErrInvalidName
	}

	nominee := domain.Nominee{
		ID:       s.genID.Generate(),
		Name:     name,
		Status:   domain.StatusActive,
		Bio:      strings.TrimSpace(req.Bio),
		ImageURL: strings.TrimSpace(req.ImageURL),
	}
	nominee.Slug = slug.Make(name) + "-" + nominee.ID.String()

	if strings.TrimSpace(req.PositionID) != "" {
		positionID, err := snowflake.ParseString(req.PositionID)
		if err != nil {
			return domain.Nominee{}, domain.ErrInvalidPosition
		}
		position, err := s.positions.FindByID(ctx, s.db, positionID)
		if err != nil {
			return domain.Nominee{}, err
		}
		if position == nil {
			return domain.Nominee{}, domain.ErrInvalidPosition
		}
		nominee.PositionID = positionID
	}

	if strings.TrimSpace(req.DistrictID) != "" {
		districtID, err := snowflake.ParseString(req.DistrictID)
		if err != nil {
			return domain.Nominee{}, domain.ErrInvalidDistrict
		}
		district, err := s.districts.FindByID(ctx, s.db, districtID)
		if err != nil {
			return domain.Nominee{}, err
		}
		if district == nil {
			return domain.Nominee{}, domain.ErrInvalidDistrict
		}
		nominee.DistrictID = districtID
	}

	if err := s.repo.Insert(ctx, s.db, &nominee); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Nominee{}, domain.ErrInvalidName
		}
		return domain.Nominee{}, err
	}

	s.log.Info("nominee created",
		zap.String("nominee_id", nominee.ID.String()),
		zap.String("slug", nominee.Slug),
	)
	return nominee, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (domain.Nominee, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Nominee{}, err
	}
	nominee, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Nominee{}, err
	}
	if nominee == nil {
		return domain.Nominee{}, domain.ErrNotFound
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		nominee.Name = name
		nominee.Slug = slug.Make(name) + "-" + nominee.ID.String()
	}
	if status := strings.TrimSpace(req.Status); status != "" {
		switch domain.Status(status) {
		case domain.StatusActive, domain.StatusInactive:
			nominee.Status = domain.Status(status)
		default:
			return domain.Nominee{}, domain.ErrInvalidStatus
		}
	}
	if raw := strings.TrimSpace(req.PositionID); raw != "" {
		positionID, err := snowflake.ParseString(raw)
		if err != nil {
			return domain.Nominee{}, domain.ErrInvalidPosition
		}
		position, err := s.positions.FindByID(ctx, s.db, positionID)
		if err != nil {
			return domain.Nominee{}, err
		}
		if position == nil {
			return domain.Nominee{}, domain.ErrInvalidPosition
		}
		nominee.PositionID = positionID
	}
	if raw := strings.TrimSpace(req.DistrictID); raw != "" {
		districtID, err := snowflake.ParseString(raw)
		if err != nil {
			return domain.Nominee{}, domain.ErrInvalidDistrict
		}
		district, err := s.districts.FindByID(ctx, s.db, districtID)
		if err != nil {
			return domain.Nominee{}, err
		}
		if district == nil {
			return domain.Nominee{}, domain.ErrInvalidDistrict
		}
		nominee.DistrictID = districtID
	}
	if bio := strings.TrimSpace(req.Bio); bio != "" {
		nominee.Bio = bio
	}
	if imageURL := strings.TrimSpace(req.ImageURL); imageURL != "" {
		nominee.ImageURL = imageURL
	}

	if err := s.repo.Update(ctx, s.db, nominee); err != nil {
		return domain.Nominee{}, err
	}
	return *nominee, nil
}

// Delete removes the nominee along with its ratings, comments, reactions and
// scandals in one transaction.
func (s *Service) Delete(ctx context.Context, id string) error {
	nomineeID, err := parseID(id)
	if err != nil {
		return err
	}
	nominee, err := s.repo.FindByID(ctx, s.db, nomineeID)
	if err != nil {
		return err
	}
	if nominee == nil {
		return domain.ErrNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ratings.DeleteByTarget(ctx, tx, ratingdomain.TargetNominee, nomineeID); err != nil {
			return err
		}
		if err := s.comments.DeleteByTarget(ctx, tx, ratingdomain.TargetNominee, nomineeID); err != nil {
			return err
		}
		if err := s.scandals.DeleteByTarget(ctx, tx, ratingdomain.TargetNominee, nomineeID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, nomineeID)
	})
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	filter := domain.ListFilter{Query: strings.TrimSpace(req.Query)}
	if status := strings.TrimSpace(req.Status); status != "" {
		filter.Status = domain.Status(status)
	}
	if raw := strings.TrimSpace(req.PositionID); raw != "" {
		positionID, err := snowflake.ParseString(raw)
		if err != nil {
			return domain.ListResponse{}, domain.ErrInvalidPosition
		}
		filter.PositionID = positionID
	}
	if raw := strings.TrimSpace(req.DistrictID); raw != "" {
		districtID, err := snowflake.ParseString(raw)
		if err != nil {
			return domain.ListResponse{}, domain.ErrInvalidDistrict
		}
		filter.DistrictID = districtID
	}

	page := pagination.Pagination{PageToken: req.PageToken, PageSize: req.PageSize}
	if page.PageSize <= 0 {
		page.PageSize = 20
	}
	if page.PageSize > 100 {
		page.PageSize = 100
	}

	nominees, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(nominees, page.PageSize, func(n *domain.Nominee) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{
			ID:        n.ID.String(),
			CreatedAt: n.CreatedAt.UTC().Format("2006-01-02 15:04:05.999999999"),
		})
		return token
	})
	if len(nominees) > page.PageSize {
		nominees = nominees[:page.PageSize]
	}

	allRatings, err := s.ratings.FindByTargetType(ctx, s.db, ratingdomain.TargetNominee)
	if err != nil {
		return domain.ListResponse{}, err
	}
	byTarget := make(map[snowflake.ID][]ratingdomain.Rating)
	for _, r := range allRatings {
		byTarget[r.TargetID] = append(byTarget[r.TargetID], r)
	}

	items := make([]domain.ListItem, 0, len(nominees))
	for _, n := range nominees {
		group := byTarget[n.ID]
		items = append(items, domain.ListItem{
			Nominee:       *n,
			AverageRating: ratingdomain.AverageScore(group),
			TotalRatings:  len(group),
		})
	}

	return domain.ListResponse{PageInfo: *pageInfo, Nominees: items}, nil
}

func (s *Service) GetDetail(ctx context.Context, id string) (domain.Detail, error) {
	nomineeID, err := parseID(id)
	if err != nil {
		return domain.Detail{}, err
	}
	nominee, err := s.repo.FindByID(ctx, s.db, nomineeID)
	if err != nil {
		return domain.Detail{}, err
	}
	if nominee == nil {
		return domain.Detail{}, domain.ErrNotFound
	}

	ratings, err := s.ratings.FindByTarget(ctx, s.db, ratingdomain.TargetNominee, nomineeID)
	if err != nil {
		return domain.Detail{}, err
	}
	categories, err := s.categories.List(ctx, s.db)
	if err != nil {
		return domain.Detail{}, err
	}
	comments, err := s.commentSvc.ListForTarget(ctx, ratingdomain.TargetNominee, nomineeID.String())
	if err != nil {
		return domain.Detail{}, err
	}
	rank, err := s.ranking.RankFor(ctx, ratingdomain.TargetNominee, nomineeID.String(), "")
	if err != nil {
		return domain.Detail{}, err
	}
	scandals, err := s.scandals.FindByTarget(ctx, s.db, ratingdomain.TargetNominee, nomineeID)
	if err != nil {
		return domain.Detail{}, err
	}

	return domain.Detail{
		Nominee:          *nominee,
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
