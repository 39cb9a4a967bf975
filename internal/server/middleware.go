package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/venuebook/internal/adminkey"
)

const HeaderAdminKey = "X-Admin-Key"

// AdminKeyRequired guards the back-office routes. With no key hash
// configured every admin request is refused.
func (s *Server) AdminKeyRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(HeaderAdminKey))
		if key == "" || !adminkey.Verify(key, s.cfg.AdminKeyHash) {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}
