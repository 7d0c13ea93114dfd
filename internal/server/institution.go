package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wananchi-labs/uwazi/internal/cache"
	institutiondomain "github.com/wananchi-labs/uwazi/internal/institution/domain"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
	"github.com/wananchi-labs/uwazi/pkg/db/pagination"
)

func (s *Server) ListInstitutions(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status string `form:"status"`
		Q      string `form:"q"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := institutiondomain.ListRequest{
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
		Status:    strings.TrimSpace(query.Status),
		Query:     strings.TrimSpace(query.Q),
	}

	key := cache.ListKey(string(ratingdomain.TargetInstitution),
		req.Status, req.Query, req.PageToken, strconv.Itoa(req.PageSize))

	var resp institutiondomain.ListResponse
	err := s.swr.Fetch(c.Request.Context(), key, s.cfg.Cache.ListTTL, &resp, func(ctx context.Context) (any, error) {
		return s.institutionSvc.List(ctx, req)
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInstitution(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	key := cache.DetailKey(string(ratingdomain.TargetInstitution), id)

	var resp institutiondomain.Detail
	err := s.swr.Fetch(c.Request.Context(), key, s.cfg.Cache.DetailTTL, &resp, func(ctx context.Context) (any, error) {
		return s.institutionSvc.GetDetail(ctx, id)
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type institutionPayload struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func (s *Server) CreateInstitution(c *gin.Context) {
	var req institutionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.institutionSvc.Create(c.Request.Context(), institutiondomain.CreateRequest{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.invalidateType(c.Request.Context(), string(ratingdomain.TargetInstitution))
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateInstitution(c *gin.Context) {
	var req institutionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.institutionSvc.Update(c.Request.Context(), institutiondomain.UpdateRequest{
		ID:          id,
		Name:        req.Name,
		Status:      req.Status,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.invalidateEntity(c.Request.Context(), string(ratingdomain.TargetInstitution), id)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteInstitution(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.institutionSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.invalidateEntity(c.Request.Context(), string(ratingdomain.TargetInstitution), id)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": id}})
}
