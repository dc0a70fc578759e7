package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio/internal/session"
)

const (
	AdminPrefix = "/admin"
	LoginPath   = "/admin/login"

	sessionKey = "session_payload"
)

// SessionVerifier is the part of session.Manager the guards need.
type SessionVerifier interface {
	Verify(c *gin.Context) (*session.Payload, bool)
	Delete(c *gin.Context)
}

// AdminGuard protects the admin pages. The login page always passes; other
// paths under /admin need a valid session and are redirected to the login
// page otherwise, clearing a cookie that failed verification. Paths outside
// /admin pass untouched.
func AdminGuard(sessions SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == LoginPath || !isAdminPath(path) {
			c.Next()
			return
		}

		if _, err := c.Cookie(session.CookieName); err != nil {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}

		payload, ok := sessions.Verify(c)
		if !ok {
			sessions.Delete(c)
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}

		c.Set(sessionKey, payload)
		c.Next()
	}
}

// RequireSession guards mutating API routes with a 401 instead of a redirect.
func RequireSession(sessions SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, ok := sessions.Verify(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(sessionKey, payload)
		c.Next()
	}
}

// CurrentSession returns the payload stored by a guard, if any.
func CurrentSession(c *gin.Context) (*session.Payload, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	payload, ok := v.(*session.Payload)
	return payload, ok
}

func isAdminPath(path string) bool {
	return path == AdminPrefix || strings.HasPrefix(path, AdminPrefix+"/")
}
