package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/commercelab/loyalty/internal/pkg/token"
)

// PropagateToken captures the caller's bearer token, if any, and stores it in
// the request context so outbound order/user service calls can forward it.
// Authentication itself is the upstream services' concern.
func PropagateToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if t := extractBearer(c.GetHeader("Authorization")); t != "" {
			c.Request = c.Request.WithContext(token.WithToken(c.Request.Context(), t))
		}
		c.Next()
	}
}

func extractBearer(header string) string {
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
