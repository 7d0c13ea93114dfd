package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wananchi-labs/uwazi/internal/cache"
	nomineedomain "github.com/wananchi-labs/uwazi/internal/nominee/domain"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
	"github.com/wananchi-labs/uwazi/pkg/db/pagination"
)

func (s *Server) ListNominees(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status     string `form:"status"`
		PositionID string `form:"position_id"`
		DistrictID string `form:"district_id"`
		Q          string `form:"q"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := nomineedomain.ListRequest{
		PageToken:  query.PageToken,
		PageSize:   query.PageSize,
		Status:     strings.TrimSpace(query.Status),
		PositionID: strings.TrimSpace(query.PositionID),
		DistrictID: strings.TrimSpace(query.DistrictID),
		Query:      strings.TrimSpace(query.Q),
	}

	key := cache.ListKey(string(ratingdomain.TargetNominee),
		req.Status, req.PositionID, req.DistrictID, req.Query,
		req.PageToken, strconv.Itoa(req.PageSize))

	var resp nomineedomain.ListResponse
	err := s.swr.Fetch(c.Request.Context(), key, s.cfg.Cache.ListTTL, &resp, func(ctx context.Context) (any, error) {
		return s.nomineeSvc.List(ctx, req)
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetNominee(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	key := cache.DetailKey(string(ratingdomain.TargetNominee), id)

	var resp nomineedomain.Detail
	err := s.swr.Fetch(c.Request.Context(), key, s.cfg.Cache.DetailTTL, &resp, func(ctx context.Context) (any, error) {
		return s.nomineeSvc.GetDetail(ctx, id)
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type nomineePayload struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	PositionID string `json:"position_id"`
	DistrictID string `json:"district_id"`
	Bio        string `json:"bio"`
	ImageURL   string `json:"image_url"`
}

func (s *Server) CreateNominee(c *gin.Context) {
	var req nomineePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.nomineeSvc.Create(c.Request.Context(), nomineedomain.CreateRequest{
		Name:       req.Name,
		PositionID: req.PositionID,
		DistrictID: req.DistrictID,
		Bio:        req.Bio,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.invalidateType(c.Request.Context(), string(ratingdomain.TargetNominee))
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateNominee(c *gin.Context) {
	var req nomineePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.nomineeSvc.Update(c.Request.Context(), nomineedomain.UpdateRequest{
		ID:         id,
		Name:       req.Name,
		Status:     req.Status,
		PositionID: req.PositionID,
		DistrictID: req.DistrictID,
		Bio:        req.Bio,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.invalidateEntity(c.Request.Context(), string(ratingdomain.TargetNominee), id)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteNominee(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.nomineeSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.invalidateEntity(c.Request.Context(), string(ratingdomain.TargetNominee), id)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": id}})
}
