package middleware

import (
	"net/http"
	"strings"

	"carebridge-backend/auth"
	"carebridge-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by the auth middleware
const (
	UserIDKey = "userID"
	RoleKey   = "userRole"
)

// Auth validates the bearer token and stores the caller's identity on the
// context. Every downstream query is scoped by this identity, so a request
// can never read another user's rows.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHENTICATED",
					"message": "Missing bearer token",
				},
			})
			return
		}

		claims, err := auth.ParseToken(raw, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHENTICATED",
					"message": "Invalid or expired token",
				},
			})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// UserID returns the authenticated user's ID from the context
func UserID(c *gin.Context) uuid.UUID {
	return c.MustGet(UserIDKey).(uuid.UUID)
}

// Role returns the authenticated user's role from the context
func Role(c *gin.Context) models.Role {
	return c.MustGet(RoleKey).(models.Role)
}
