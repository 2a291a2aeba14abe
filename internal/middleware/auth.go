package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TokenValidator validates a bearer token and resolves the user behind it.
type TokenValidator interface {
	ValidateToken(token string) (uuid.UUID, error)
}

// AuthMiddleware validates the Authorization header and stores the
// authenticated user id in the gin context under "user_id".
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		userID, err := validator.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// OptionalAuth resolves the user behind a Bearer token when one is sent and
// leaves the request anonymous otherwise. Used on public reads whose
// projections carry viewer-specific flags.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.Split(c.GetHeader("Authorization"), " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			if userID, err := validator.ValidateToken(parts[1]); err == nil {
				c.Set("user_id", userID)
			}
		}
		c.Next()
	}
}
