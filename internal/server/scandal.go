package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wananchi-labs/uwazi/internal/cache"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
	scandaldomain "github.com/wananchi-labs/uwazi/internal/scandal/domain"
)

func (s *Server) ListScandals(targetType ratingdomain.TargetType) gin.HandlerFunc {
	return func(c *gin.Context) {
		scandals, err := s.scandalSvc.ListForTarget(c.Request.Context(), targetType, c.Param("id"))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": scandals})
	}
}

type scandalPayload struct {
	TargetType  string   `json:"target_type"`
	TargetID    string   `json:"target_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	AmountKES   *float64 `json:"amount_kes"`
	Year        int      `json:"year"`
	SourceURL   string   `json:"source_url"`
	Tags        []string `json:"tags"`
}

func (s *Server) CreateScandal(c *gin.Context) {
	var req scandalPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	targetType, ok := ratingdomain.ParseTargetType(req.TargetType)
	if !ok {
		AbortWithError(c, newValidationError("target_type", "invalid_target_type", "target_type must be nominee or institution"))
		return
	}

	resp, err := s.scandalSvc.Create(c.Request.Context(), scandaldomain.CreateRequest{
		TargetType:  targetType,
		TargetID:    req.TargetID,
		Title:       req.Title,
		Description: req.Description,
		AmountKES:   req.AmountKES,
		Year:        req.Year,
		SourceURL:   req.SourceURL,
		Tags:        req.Tags,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.swr.InvalidatePrefix(c.Request.Context(), cache.EntityPrefix(string(targetType), resp.TargetID.String()))
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateScandal(c *gin.Context) {
	var req scandalPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.scandalSvc.Update(c.Request.Context(), scandaldomain.UpdateRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		Title:       req.Title,
		Description: req.Description,
		AmountKES:   req.AmountKES,
		Year:        req.Year,
		SourceURL:   req.SourceURL,
		Tags:        req.Tags,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.swr.InvalidatePrefix(c.Request.Context(), cache.EntityPrefix(string(resp.TargetType), resp.TargetID.String()))
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteScandal(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.scandalSvc.Delete(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.swr.InvalidatePrefix(c.Request.Context(), cache.EntityPrefix(string(resp.TargetType), resp.TargetID.String()))
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": id}})
}

type evidencePayload struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

func (s *Server) AddEvidence(c *gin.Context) {
	var req evidencePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.scandalSvc.AddEvidence(c.Request.Context(), scandaldomain.AddEvidenceRequest{
		ScandalID: strings.TrimSpace(c.Param("id")),
		Kind:      req.Kind,
		Title:     req.Title,
		URL:       req.URL,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.swr.InvalidatePrefix(c.Request.Context(), cache.EntityPrefix(string(resp.TargetType), resp.TargetID.String()))
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RemoveEvidence(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.scandalSvc.RemoveEvidence(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.swr.InvalidatePrefix(c.Request.Context(), cache.EntityPrefix(string(resp.TargetType), resp.TargetID.String()))
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": id}})
}
