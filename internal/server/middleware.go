package server

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
)

const headerUserID = "X-User-Id"

// AdminRequired guards the admin API with the configured static token,
// accepted as either a bearer token or the X-Admin-Token header.
func (s *Server) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := s.cfg.AdminToken
		if expected == "" {
			AbortWithError(c, ErrForbidden)
			return
		}

		token := strings.TrimSpace(c.GetHeader("X-Admin-Token"))
		if token == "" {
			auth := strings.TrimSpace(c.GetHeader("Authorization"))
			if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
				token = strings.TrimSpace(auth[len("bearer "):])
			}
		}
		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Next()
	}
}

func requestUserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(headerUserID))
}
