package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/wananchi-labs/uwazi/internal/cache"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
)

type submitRatingRequest struct {
	Ratings []ratingdomain.RatingInput `json:"ratings"`
}

// SubmitRating writes a batch of category scores, then drops and rewarms the
// target's cached views so the response reflects the new averages.
func (s *Server) SubmitRating(targetType ratingdomain.TargetType) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req submitRatingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}

		id := strings.TrimSpace(c.Param("id"))
		_, err := s.ratingSvc.Submit(c.Request.Context(), ratingdomain.SubmitRequest{
			TargetType: targetType,
			TargetID:   id,
			UserID:     requestUserID(c),
			Ratings:    req.Ratings,
		})
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := c.Request.Context()
		s.invalidateEntity(ctx, string(targetType), id)

		detail, err := s.entityDetail(ctx, targetType, id)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		s.swr.Preload(ctx, cache.DetailKey(string(targetType), id), s.cfg.Cache.DetailTTL, func(context.Context) (any, error) {
			return detail, nil
		})

		c.JSON(http.StatusOK, gin.H{"data": detail})
	}
}

func (s *Server) entityDetail(ctx context.Context, targetType ratingdomain.TargetType, id string) (any, error) {
	if targetType == ratingdomain.TargetInstitution {
		return s.institutionSvc.GetDetail(ctx, id)
	}
	return s.nomineeSvc.GetDetail(ctx, id)
}

func (s *Server) RateLimitStatus(targetType ratingdomain.TargetType) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.rateLimitStatus(c, targetType, c.Param("id"))
	}
}

func (s *Server) RateLimitQuery(c *gin.Context) {
	targetType, ok := ratingdomain.ParseTargetType(c.Query("type"))
	if !ok {
		AbortWithError(c, newValidationError("type", "invalid_type", "type must be nominee or institution"))
		return
	}
	s.rateLimitStatus(c, targetType, c.Query("target_id"))
}

func (s *Server) rateLimitStatus(c *gin.Context, targetType ratingdomain.TargetType, rawID string) {
	userID := requestUserID(c)
	if userID == "" {
		AbortWithError(c, ratingdomain.ErrInvalidUser)
		return
	}
	targetID, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || targetID == 0 {
		AbortWithError(c, ratingdomain.ErrInvalidID)
		return
	}

	result, err := s.limiter.Status(c.Request.Context(), userID, targetType, targetID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (s *Server) ListCategories(c *gin.Context) {
	categories, err := s.ratingSvc.ListCategories(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": categories})
}

type categoryPayload struct {
	Name     string   `json:"name"`
	Icon     string   `json:"icon"`
	Weight   *float64 `json:"weight"`
	Examples []string `json:"examples"`
}

func (s *Server) CreateCategory(c *gin.Context) {
	var req categoryPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	create := ratingdomain.CreateCategoryRequest{
		Name:     req.Name,
		Icon:     req.Icon,
		Examples: req.Examples,
	}
	if req.Weight != nil {
		create.Weight = *req.Weight
	}

	resp, err := s.ratingSvc.CreateCategory(c.Request.Context(), create)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateCategory(c *gin.Context) {
	var req categoryPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.ratingSvc.UpdateCategory(c.Request.Context(), ratingdomain.UpdateCategoryRequest{
		ID:       strings.TrimSpace(c.Param("id")),
		Name:     req.Name,
		Icon:     req.Icon,
		Weight:   req.Weight,
		Examples: req.Examples,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	// Category changes reshape every per-category aggregate.
	for _, prefix := range cache.AggregatePrefixes() {
		s.swr.InvalidatePrefix(c.Request.Context(), prefix)
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteCategory(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.ratingSvc.DeleteCategory(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	for _, prefix := range cache.AggregatePrefixes() {
		s.swr.InvalidatePrefix(c.Request.Context(), prefix)
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": id}})
}
