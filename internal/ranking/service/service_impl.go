package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wananchi-labs/uwazi/internal/config"
	institutiondomain "github.com/wananchi-labs/uwazi/internal/institution/domain"
	nomineedomain "github.com/wananchi-labs/uwazi/internal/nominee/domain"
	"github.com/wananchi-labs/uwazi/internal/ranking/domain"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Policy       *config.PolicyConfigHolder
	Ratings      ratingdomain.Repository
	Nominees     nomineedomain.Repository
	Institutions institutiondomain.Repository
}

// Service ranks entities by loading every active entity of a kind and every
// rating row for it, then sorting in memory. O(total ratings) per call; the
// contract is correctness against current data, and the cache layer absorbs
// the cost on hot views.
type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	policy       *config.PolicyConfigHolder
	ratings      ratingdomain.Repository
	nominees     nomineedomain.Repository
	institutions institutiondomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("ranking.service"),
		policy:       p.Policy,
		ratings:      p.Ratings,
		nominees:     p.Nominees,
		institutions: p.Institutions,
	}
}

// rankedEntity pairs an entity with its (filtered) ratings.
type rankedEntity struct {
	id       snowflake.ID
	name     string
	slug     string
	imageURL string
	ratings  []ratingdomain.Rating
	average  float64
}

func (s *Service) RankFor(ctx context.Context, targetType ratingdomain.TargetType, targetID, categoryID string) (domain.RankResult, error) {
	id, err := parseID(targetID)
	if err != nil {
		return domain.RankResult{}, err
	}
	category, err := parseOptionalID(categoryID)
	if err != nil {
		return domain.RankResult{}, domain.ErrInvalidCategory
	}

	entities, err := s.loadRanked(ctx, targetType, category)
	if err != nil {
		return domain.RankResult{}, err
	}

	for i, e := range entities {
		if e.id == id {
			return domain.RankResult{Rank: i + 1, TotalRatings: len(e.ratings)}, nil
		}
	}
	return domain.RankResult{Rank: 0, TotalRatings: 0}, nil
}

func (s *Service) Leaderboard(ctx context.Context, req domain.LeaderboardRequest) ([]domain.Entry, error) {
	policy := s.policy.Current()

	limit := req.Limit
	if limit <= 0 {
		limit = policy.LeaderboardDefaultLimit
	}
	if limit > policy.LeaderboardMaxLimit {
		limit = policy.LeaderboardMaxLimit
	}

	category, err := parseOptionalID(req.CategoryID)
	if err != nil {
		return nil, domain.ErrInvalidCategory
	}

	entities, err := s.loadRanked(ctx, req.TargetType, category)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.Entry, 0, limit)
	for i, e := range entities {
		if len(entries) >= limit {
			break
		}
		if len(e.ratings) < policy.MinRatings {
			continue
		}
		entries = append(entries, domain.Entry{
			ID:           e.id,
			TargetType:   req.TargetType,
			Name:         e.name,
			Slug:         e.slug,
			ImageURL:     e.imageURL,
			Average:      e.average,
			TotalRatings: len(e.ratings),
			Rank:         i + 1,
		})
	}
	return entries, nil
}

func (s *Service) Trending(ctx context.Context, targetType ratingdomain.TargetType, limit int) ([]domain.TrendingEntry, error) {
	policy := s.policy.Current()
	if limit <= 0 {
		limit = policy.LeaderboardDefaultLimit
	}
	if limit > policy.LeaderboardMaxLimit {
		limit = policy.LeaderboardMaxLimit
	}

	window := time.Duration(policy.TrendingWindowDays) * 24 * time.Hour
	since := time.Now().UTC().Add(-window)

	recent, err := s.ratings.FindByTargetTypeSince(ctx, s.db, targetType, since)
	if err != nil {
		return nil, err
	}

	recentCount := make(map[snowflake.ID]int)
	for _, r := range recent {
		recentCount[r.TargetID]++
	}

	entities, err := s.loadRanked(ctx, targetType, 0)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.TrendingEntry, 0, len(entities))
	for _, e := range entities {
		count := recentCount[e.id]
		if count == 0 {
			continue
		}
		entries = append(entries, domain.TrendingEntry{
			ID:            e.id,
			TargetType:    targetType,
			Name:          e.name,
			Slug:          e.slug,
			ImageURL:      e.imageURL,
			RecentRatings: count,
			Average:       e.average,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].RecentRatings != entries[j].RecentRatings {
			return entries[i].RecentRatings > entries[j].RecentRatings
		}
		if entries[i].Average != entries[j].Average {
			return entries[i].Average > entries[j].Average
		}
		return entries[i].ID < entries[j].ID
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// loadRanked returns every active entity of the kind, ratings filtered by
// category, sorted descending by average score with entity id ascending as
// the tie-break. The tie-break keeps ranks deterministic across calls.
func (s *Service) loadRanked(ctx context.Context, targetType ratingdomain.TargetType, categoryID snowflake.ID) ([]rankedEntity, error) {
	entities, err := s.loadEntities(ctx, targetType)
	if err != nil {
		return nil, err
	}

	allRatings, err := s.ratings.FindByTargetType(ctx, s.db, targetType)
	if err != nil {
		return nil, err
	}

	byTarget := make(map[snowflake.ID][]ratingdomain.Rating)
	for _, r := range ratingdomain.FilterByCategory(allRatings, categoryID) {
		byTarget[r.TargetID] = append(byTarget[r.TargetID], r)
	}

	for i := range entities {
		entities[i].ratings = byTarget[entities[i].id]
		entities[i].average = ratingdomain.AverageScore(entities[i].ratings)
	}

	sort.SliceStable(entities, func(i, j int) bool {
		if entities[i].average != entities[j].average {
			return entities[i].average > entities[j].average
		}
		return entities[i].id < entities[j].id
	})
	return entities, nil
}

func (s *Service) loadEntities(ctx context.Context, targetType ratingdomain.TargetType) ([]rankedEntity, error) {
	switch targetType {
	case ratingdomain.TargetInstitution:
		institutions, err := s.institutions.FindAllActive(ctx, s.db)
		if err != nil {
			return nil, err
		}
		out := make([]rankedEntity, 0, len(institutions))
		for _, inst := range institutions {
			out = append(out, rankedEntity{
				id:       inst.ID,
				name:     inst.Name,
				slug:     inst.Slug,
				imageURL: inst.ImageURL,
			})
		}
		return out, nil
	default:
		nominees, err := s.nominees.FindAllActive(ctx, s.db)
		if err != nil {
			return nil, err
		}
		out := make([]rankedEntity, 0, len(nominees))
		for _, nom := range nominees {
			out = append(out, rankedEntity{
				id:       nom.ID,
				name:     nom.Name,
				slug:     nom.Slug,
				imageURL: nom.ImageURL,
			})
		}
		return out, nil
	}
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func parseOptionalID(value string) (snowflake.ID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	id, err := snowflake.ParseString(value)
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
