package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StaffOnly restricts a route to authenticated staff users.
// It must run after JWT authentication.
func StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
			return
		}
		if !claims.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_FORBIDDEN",
					"message": "Staff privileges required",
				},
			})
			return
		}
		c.Next()
	}
}
