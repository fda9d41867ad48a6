// Package middleware provides the gin middleware shared by every route
// group: session enforcement, CORS and request logging.
package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"patrimonio/internal/auth"
)

const (
	// ContextSessionKey stores the authenticated session on the Gin context.
	ContextSessionKey = "patrimonio/session"

	// SessionCookie carries the session token for browser clients.
	SessionCookie = "patrimonio.session"
)

// RequireSession validates that a session token is present and valid.
func RequireSession(manager *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token != "" {
			token = strings.TrimPrefix(token, "Bearer ")
		} else {
			cookie, err := c.Request.Cookie(SessionCookie)
			if err != nil || cookie == nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_session"})
				return
			}
			token = cookie.Value
		}

		session, ok := manager.Validate(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_session"})
			return
		}
		c.Set(ContextSessionKey, session)
		c.Next()
	}
}

// SessionFrom retrieves the authenticated session stored by RequireSession.
func SessionFrom(c *gin.Context) (*auth.Session, bool) {
	value, ok := c.Get(ContextSessionKey)
	if !ok {
		return nil, false
	}
	session, ok := value.(*auth.Session)
	return session, ok
}

// CORS adds permissive CORS headers and terminates preflight checks. It
// mirrors the Origin header to support credentialed requests.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}
		c.Writer.Header().Set("Vary", "Origin")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Accept, Origin, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequestLogger logs one structured line per request.
func RequestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
