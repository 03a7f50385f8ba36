package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"friendo-service/internal/repositories"
)

// AuthMiddleware validates the Authorization bearer token against the
// sessions table and stores the user id on the request context.
func AuthMiddleware(users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		session, err := users.GetSession(c.Request.Context(), parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("userID", session.UserID)
		c.Next()
	}
}

// AdminMiddleware gates admin-panel routes. Must run after AuthMiddleware.
func AdminMiddleware(users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.GetUser(c.Request.Context(), c.GetInt("userID"))
		if err != nil || !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}
