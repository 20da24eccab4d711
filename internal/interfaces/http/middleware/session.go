// internal/interfaces/http/middleware/session.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionHeader = "X-Session-ID"

// Session resolves the guest cart session ID. Clients send it back in the
// X-Session-ID header; a missing header gets a fresh UUID echoed in the
// response so the client can persist it.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(sessionHeader)
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		c.Set("session_id", sessionID)
		c.Header(sessionHeader, sessionID)
		c.Next()
	}
}

// GetSessionIDFromContext extracts the session ID from gin context
func GetSessionIDFromContext(c *gin.Context) string {
	sessionID, exists := c.Get("session_id")
	if !exists {
		return ""
	}
	return sessionID.(string)
}
