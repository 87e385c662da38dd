package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const SessionContextKey = "sessionID"

// SessionMiddleware resolves the storefront session identity from the
// X-Session-ID header, falling back to the session cookie.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("X-Session-ID")
		if sessionID == "" {
			if v, err := c.Cookie("session_id"); err == nil && v != "" {
				sessionID = v
			}
		}

		if sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Missing Session ID"})
			return
		}

		c.Set(SessionContextKey, sessionID)
		c.Next()
	}
}

func GetSessionID(c *gin.Context) (string, error) {
	val, exists := c.Get(SessionContextKey)
	if !exists {
		return "", errors.New("session ID not found in context")
	}
	sessionID, ok := val.(string)
	if !ok || sessionID == "" {
		return "", errors.New("session ID has invalid type in context")
	}
	return sessionID, nil
}
