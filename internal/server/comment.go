package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wananchi-labs/uwazi/internal/cache"
	commentdomain "github.com/wananchi-labs/uwazi/internal/comment/domain"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
)

func (s *Server) ListComments(targetType ratingdomain.TargetType) gin.HandlerFunc {
	return func(c *gin.Context) {
		comments, err := s.commentSvc.ListForTarget(c.Request.Context(), targetType, c.Param("id"))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": comments})
	}
}

type createCommentRequest struct {
	Content  string `json:"content"`
	ParentID string `json:"parent_id"`
}

func (s *Server) CreateComment(targetType ratingdomain.TargetType) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}

		id := strings.TrimSpace(c.Param("id"))
		comment, err := s.commentSvc.Create(c.Request.Context(), commentdomain.CreateRequest{
			TargetType: targetType,
			TargetID:   id,
			UserID:     requestUserID(c),
			ParentID:   req.ParentID,
			Content:    req.Content,
		})
		if err != nil {
			AbortWithError(c, err)
			return
		}

		// Detail views embed the comment thread.
		s.swr.Invalidate(c.Request.Context(), cache.DetailKey(string(targetType), id))
		c.JSON(http.StatusOK, gin.H{"data": comment})
	}
}

type reactRequest struct {
	Kind string `json:"kind"`
}

func (s *Server) ReactToComment(c *gin.Context) {
	var req reactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.commentSvc.React(c.Request.Context(), commentdomain.ReactRequest{
		CommentID: strings.TrimSpace(c.Param("id")),
		UserID:    requestUserID(c),
		Kind:      req.Kind,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteComment(c *gin.Context) {
	comment, err := s.commentSvc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.swr.Invalidate(c.Request.Context(),
		cache.DetailKey(string(comment.TargetType), comment.TargetID.String()))
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": comment.ID.String()}})
}
