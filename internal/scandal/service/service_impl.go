package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/lib/pq"
	institutiondomain "github.com/wananchi-labs/uwazi/internal/institution/domain"
	nomineedomain "github.com/wananchi-labs/uwazi/internal/nominee/domain"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
	"github.com/wananchi-labs/uwazi/internal/scandal/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Repo         domain.Repository
	Nominees     nomineedomain.Repository
	Institutions institutiondomain.Repository
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	repo         domain.Repository
	nominees     nomineedomain.Repository
	institutions institutiondomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("scandal.service"),
		genID:        p.GenID,
		repo:         p.Repo,
		nominees:     p.Nominees,
		institutions: p.Institutions,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Scandal, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.Scandal{}, domain.ErrInvalidTitle
	}
	targetID, err := parseID(req.TargetID)
	if err != nil {
		return domain.Scandal{}, err
	}
	if err := s.targetExists(ctx, req.TargetType, targetID); err != nil {
		return domain.Scandal{}, err
	}

	scandal := domain.Scandal{
		ID:          s.genID.Generate(),
		TargetType:  req.TargetType,
		TargetID:    targetID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		AmountKES:   req.AmountKES,
		Year:        req.Year,
		SourceURL:   strings.TrimSpace(req.SourceURL),
		Tags:        normalizeTags(req.Tags),
	}
	if err := s.repo.Insert(ctx, s.db, &scandal); err != nil {
		return domain.Scandal{}, err
	}
	return scandal, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (domain.Scandal, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Scandal{}, err
	}
	scandal, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Scandal{}, err
	}
	if scandal == nil {
		return domain.Scandal{}, domain.ErrNotFound
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		scandal.Title = title
	}
	if description := strings.TrimSpace(req.Description); description != "" {
		scandal.Description = description
	}
	if req.AmountKES != nil {
		scandal.AmountKES = req.AmountKES
	}
	if req.Year != 0 {
		scandal.Year = req.Year
	}
	if sourceURL := strings.TrimSpace(req.SourceURL); sourceURL != "" {
		scandal.SourceURL = sourceURL
	}
	if req.Tags != nil {
		scandal.Tags = normalizeTags(req.Tags)
	}

	if err := s.repo.Update(ctx, s.db, scandal); err != nil {
		return domain.Scandal{}, err
	}
	return *scandal, nil
}

func (s *Service) Delete(ctx context.Context, id string) (domain.Scandal, error) {
	scandalID, err := parseID(id)
	if err != nil {
		return domain.Scandal{}, err
	}
	scandal, err := s.repo.FindByID(ctx, s.db, scandalID)
	if err != nil {
		return domain.Scandal{}, err
	}
	if scandal == nil {
		return domain.Scandal{}, domain.ErrNotFound
	}
	if err := s.repo.Delete(ctx, s.db, scandalID); err != nil {
		return domain.Scandal{}, err
	}
	return *scandal, nil
}

func (s *Service) ListForTarget(ctx context.Context, targetType ratingdomain.TargetType, targetID string) ([]domain.Scandal, error) {
	id, err := parseID(targetID)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByTarget(ctx, s.db, targetType, id)
}

func (s *Service) AddEvidence(ctx context.Context, req domain.AddEvidenceRequest) (domain.Scandal, error) {
	scandalID, err := parseID(req.ScandalID)
	if err != nil {
		return domain.Scandal{}, err
	}
	scandal, err := s.repo.FindByID(ctx, s.db, scandalID)
	if err != nil {
		return domain.Scandal{}, err
	}
	if scandal == nil {
		return domain.Scandal{}, domain.ErrNotFound
	}

	rawURL := strings.TrimSpace(req.URL)
	parsed, err := url.Parse(rawURL)
	if err != nil || rawURL == "" || parsed.Scheme == "" || parsed.Host == "" {
		return domain.Scandal{}, domain.ErrInvalidURL
	}

	kind := strings.TrimSpace(req.Kind)
	if kind == "" {
		kind = "link"
	}

	evidence := domain.Evidence{
		ID:        s.genID.Generate(),
		ScandalID: scandalID,
		Kind:      kind,
		Title:     strings.TrimSpace(req.Title),
		URL:       rawURL,
	}
	if err := s.repo.InsertEvidence(ctx, s.db, &evidence); err != nil {
		return domain.Scandal{}, err
	}
	return s.refresh(ctx, scandalID)
}

func (s *Service) RemoveEvidence(ctx context.Context, id string) (domain.Scandal, error) {
	evidenceID, err := parseID(id)
	if err != nil {
		return domain.Scandal{}, err
	}
	evidence, err := s.repo.FindEvidence(ctx, s.db, evidenceID)
	if err != nil {
		return domain.Scandal{}, err
	}
	if evidence == nil {
		return domain.Scandal{}, domain.ErrEvidenceMissing
	}
	if err := s.repo.DeleteEvidence(ctx, s.db, evidenceID); err != nil {
		return domain.Scandal{}, err
	}
	return s.refresh(ctx, evidence.ScandalID)
}

// refresh reloads a scandal with its evidence after a mutation.
func (s *Service) refresh(ctx context.Context, id snowflake.ID) (domain.Scandal, error) {
	scandal, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Scandal{}, err
	}
	if scandal == nil {
		return domain.Scandal{}, domain.ErrNotFound
	}
	return *scandal, nil
}

func (s *Service) targetExists(ctx context.Context, targetType ratingdomain.TargetType, targetID snowflake.ID) error {
	switch targetType {
	case ratingdomain.TargetNominee:
		nominee, err := s.nominees.FindByID(ctx, s.db, targetID)
		if err != nil {
			return err
		}
		if nominee == nil {
			return domain.ErrInvalidID
		}
	case ratingdomain.TargetInstitution:
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

func normalizeTags(tags []string) pq.StringArray {
	out := make(pq.StringArray, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		out = append(out, tag)
	}
	return out
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
