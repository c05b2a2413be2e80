package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	models "inventario/admin/internal/model"
	core "inventario/admin/internal/service"
)

// SessionCookie is the name of the session cookie.
const SessionCookie = "session"

const sessionKey = "session"

// RequireAuth redirects unauthenticated requests to the login page,
// carrying the original URL so login can send the user back.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			redirectToLogin(c)
			return
		}

		session, err := core.VerifySessionToken(token, secret)
		if err != nil {
			c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
			redirectToLogin(c)
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// RequireAdmin aborts with 403 unless the session user is an admin.
// Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := CurrentSession(c)
		if session == nil || !session.IsAdmin() {
			c.Abort()
			c.HTML(http.StatusForbidden, "error.html", gin.H{
				"Title":   "Acceso denegado",
				"Message": "No tienes permiso para acceder a esta sección",
			})
			return
		}
		c.Next()
	}
}

// CurrentSession returns the session stored by RequireAuth, or nil.
func CurrentSession(c *gin.Context) *models.Session {
	if v, exists := c.Get(sessionKey); exists {
		if s, ok := v.(*models.Session); ok {
			return s
		}
	}
	return nil
}

func redirectToLogin(c *gin.Context) {
	c.Abort()
	target := "/login"
	if returnTo := c.Request.URL.RequestURI(); returnTo != "" && returnTo != "/" {
		target += "?returnTo=" + url.QueryEscape(returnTo)
	}
	c.Redirect(http.StatusFound, target)
}

// safeReturnTo validates a post-login redirect target. Only local paths
// are allowed; anything else falls back to the product list.
func safeReturnTo(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return "/productos"
	}
	return raw
}
