package middleware

import (
	"net/http"

	"staffadmin/internal/permission"
	"staffadmin/internal/session"
	"staffadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// LoadSession parses the session cookie and stores the payload in the
// context. An invalid or expired cookie is treated as no session.
func LoadSession(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := session.FromRequest(c); token != "" {
			if p, err := mgr.Parse(token); err == nil {
				c.Set(sessionKey, p)
			}
		}
		c.Next()
	}
}

// CurrentSession returns the payload stored by LoadSession, or nil.
func CurrentSession(c *gin.Context) *session.Payload {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	p, _ := v.(*session.Payload)
	return p
}

// RequireAPISession answers 401 when the request carries no valid session.
func RequireAPISession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentSession(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("Unauthorized"))
			return
		}
		c.Next()
	}
}

// RequirePageSession redirects anonymous visitors to the login page.
func RequirePageSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentSession(c) == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RedirectIfAuthenticated sends signed-in visitors of the login page to the
// dashboard.
func RedirectIfAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentSession(c) != nil {
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAction checks that the session's permission snapshot enables the
// given action with a known scope. Must run after RequireAPISession.
func RequireAction(resolver *permission.Resolver, module permission.Module, group permission.Group, key string) gin.HandlerFunc {
	if resolver == nil {
		resolver = permission.Default
	}
	return func(c *gin.Context) {
		p := CurrentSession(c)
		if p == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("Unauthorized"))
			return
		}
		if !resolver.Action(p.Permissions, p.Role, module, group, key).CanAccessOwn {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error("Access denied: insufficient permissions"))
			return
		}
		c.Next()
	}
}
