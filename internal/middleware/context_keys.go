package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// ActorHeader names the principal acting on the ledger. Authentication is
// handled upstream; the ledger records the value as posted_by / created_by.
const ActorHeader = "X-User-ID"

// userIDKey is the key used to store the acting user's ID in the Gin context.
const userIDKey = contextKey("userID")

// ActorMiddleware resolves the acting user from the X-User-ID header,
// falling back to defaultActor.
func ActorMiddleware(defaultActor string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader(ActorHeader)
		if actor == "" {
			actor = defaultActor
		}
		c.Set(string(userIDKey), actor)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), userIDKey, actor))
		c.Next()
	}
}

// GetUserIDFromContext retrieves the acting user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		if userID, ok := c.Request.Context().Value(userIDKey).(string); ok && userID != "" {
			return userID, true
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
