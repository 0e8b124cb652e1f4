package rmiddleware

import (
	"net/http"
	"strings"

	"github.com/DhavalSuthar-24/rally/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RoleMiddleware admits callers whose token role matches one of
// requiredRoles. It must run after middleware.AuthMiddleware.
func RoleMiddleware(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := middleware.GetUserIDFromContext(c); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: " + err.Error()})
			return
		}

		role := c.GetString(middleware.AuthRoleKey)
		for _, required := range requiredRoles {
			if strings.EqualFold(role, required) {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":    "Forbidden",
			"message":  "You don't have permission to access this resource",
			"required": requiredRoles,
		})
	}
}

// OrganizerOrAdminMiddleware admits event organizers and admins.
func OrganizerOrAdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware("organizer", "admin")
}
