package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wananchi-labs/uwazi/internal/cache"
	rankingdomain "github.com/wananchi-labs/uwazi/internal/ranking/domain"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
)

func (s *Server) GetRankings(targetType ratingdomain.TargetType) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.Param("id"))
		categoryID := strings.TrimSpace(c.Query("category_id"))

		result, err := s.rankingSvc.RankFor(c.Request.Context(), targetType, id, categoryID)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": result})
	}
}

func (s *Server) Leaderboard(c *gin.Context) {
	targetType := ratingdomain.TargetNominee
	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		parsed, ok := ratingdomain.ParseTargetType(raw)
		if !ok {
			AbortWithError(c, newValidationError("type", "invalid_type", "type must be nominee or institution"))
			return
		}
		targetType = parsed
	}

	policy := s.policy.Current()
	limit := policy.LeaderboardDefaultLimit
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, ok := parseOptionalInt(raw)
		if !ok || parsed <= 0 {
			AbortWithError(c, rankingdomain.ErrInvalidLimit)
			return
		}
		limit = parsed
	}
	if limit > policy.LeaderboardMaxLimit {
		limit = policy.LeaderboardMaxLimit
	}

	categoryID := strings.TrimSpace(c.Query("category_id"))
	key := cache.LeaderboardKey(string(targetType), categoryID, limit)

	var entries []rankingdomain.Entry
	err := s.swr.Fetch(c.Request.Context(), key, s.cfg.Cache.LeaderboardTTL, &entries, func(ctx context.Context) (any, error) {
		return s.rankingSvc.Leaderboard(ctx, rankingdomain.LeaderboardRequest{
			TargetType: targetType,
			CategoryID: categoryID,
			Limit:      limit,
		})
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func (s *Server) Trending(c *gin.Context) {
	targetType := ratingdomain.TargetNominee
	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		parsed, ok := ratingdomain.ParseTargetType(raw)
		if !ok {
			AbortWithError(c, newValidationError("type", "invalid_type", "type must be nominee or institution"))
			return
		}
		targetType = parsed
	}

	policy := s.policy.Current()
	limit := policy.LeaderboardDefaultLimit
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, ok := parseOptionalInt(raw)
		if !ok || parsed <= 0 {
			AbortWithError(c, rankingdomain.ErrInvalidLimit)
			return
		}
		limit = parsed
	}
	if limit > policy.LeaderboardMaxLimit {
		limit = policy.LeaderboardMaxLimit
	}

	key := cache.TrendingKey(string(targetType), limit)

	var entries []rankingdomain.TrendingEntry
	err := s.swr.Fetch(c.Request.Context(), key, s.cfg.Cache.LeaderboardTTL, &entries, func(ctx context.Context) (any, error) {
		return s.rankingSvc.Trending(ctx, targetType, limit)
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}
