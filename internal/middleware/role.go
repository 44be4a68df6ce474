package middleware

import (
	"net/http"

	"opinor/internal/domain"
	"opinor/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole ensures the authenticated caller has the given role.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "Role not found in token")
			c.Abort()
			return
		}

		if role.(string) != requiredRole {
			response.Error(c, http.StatusForbidden, "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminOnly restricts a group to platform admins.
func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.CallerAdmin)
}
