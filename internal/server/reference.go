package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	referencedomain "github.com/wananchi-labs/uwazi/internal/reference/domain"
)

func (s *Server) ListPositions(c *gin.Context) {
	positions, err := s.referenceSvc.ListPositions(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": positions})
}

func (s *Server) ListDistricts(c *gin.Context) {
	districts, err := s.referenceSvc.ListDistricts(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": districts})
}

type positionPayload struct {
	Title string `json:"title"`
	Level string `json:"level"`
}

func (s *Server) CreatePosition(c *gin.Context) {
	var req positionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.referenceSvc.CreatePosition(c.Request.Context(), referencedomain.CreatePositionRequest{
		Title: req.Title,
		Level: req.Level,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdatePosition(c *gin.Context) {
	var req positionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.referenceSvc.UpdatePosition(c.Request.Context(), referencedomain.UpdatePositionRequest{
		ID:    strings.TrimSpace(c.Param("id")),
		Title: req.Title,
		Level: req.Level,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeletePosition(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.referenceSvc.DeletePosition(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": id}})
}

type districtPayload struct {
	Name   string `json:"name"`
	Region string `json:"region"`
}

func (s *Server) CreateDistrict(c *gin.Context) {
	var req districtPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.referenceSvc.CreateDistrict(c.Request.Context(), referencedomain.CreateDistrictRequest{
		Name:   req.Name,
		Region: req.Region,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateDistrict(c *gin.Context) {
	var req districtPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.referenceSvc.UpdateDistrict(c.Request.Context(), referencedomain.UpdateDistrictRequest{
		ID:     strings.TrimSpace(c.Param("id")),
		Name:   req.Name,
		Region: req.Region,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteDistrict(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.referenceSvc.DeleteDistrict(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": id}})
}
