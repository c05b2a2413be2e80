package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"inventario/admin/internal/repository"
	core "inventario/admin/internal/service"
	"inventario/admin/pkg/config"
)

// AuthHandler serves login, logout and the lockout page.
type AuthHandler struct {
	users   repository.UserRepository
	limiter *core.LoginLimiter
	cfg     *config.AuthConfig
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(users repository.UserRepository, limiter *core.LoginLimiter, cfg *config.AuthConfig) *AuthHandler {
	return &AuthHandler{users: users, limiter: limiter, cfg: cfg}
}

// LoginRequest is the login form payload.
type LoginRequest struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
	ReturnTo string `form:"returnTo"`
}

// ShowLogin renders the login form. Authenticated users are sent to the
// product list instead.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
		if _, err := core.VerifySessionToken(token, h.cfg.SessionSecret); err == nil {
			c.Redirect(http.StatusFound, "/productos")
			return
		}
	}

	c.HTML(http.StatusOK, "login.html", gin.H{
		"Title":    "Iniciar sesión",
		"ReturnTo": c.Query("returnTo"),
	})
}

// Login validates credentials and opens a session. Failed attempts feed
// the rate limiter; a locked client lands on the lockout page without
// touching the database.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{
			"Title":    "Iniciar sesión",
			"Error":    "Email y contraseña son obligatorios",
			"ReturnTo": req.ReturnTo,
		})
		return
	}

	keys := core.LoginKeys(c.ClientIP(), req.Email)
	if h.limiter.Blocked(keys) {
		c.Redirect(http.StatusFound, "/auth/locked")
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Error().Err(err).Msg("Failed to look up user for login")
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"Title":    "Iniciar sesión",
			"Error":    "Ha ocurrido un error, inténtalo de nuevo",
			"ReturnTo": req.ReturnTo,
		})
		return
	}

	if user == nil || !core.VerifyPassword(req.Password, user.Password) {
		h.limiter.RecordOutcome(keys, false)
		log.Warn().Str("email", req.Email).Str("client_ip", c.ClientIP()).Msg("Login failed")
		if h.limiter.Blocked(keys) {
			c.Redirect(http.StatusFound, "/auth/locked")
			return
		}
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Title":    "Iniciar sesión",
			"Error":    "Credenciales incorrectas",
			"ReturnTo": req.ReturnTo,
		})
		return
	}

	h.limiter.RecordOutcome(keys, true)

	ttl := time.Duration(h.cfg.SessionTTLHours) * time.Hour
	token, err := core.CreateSessionToken(user, h.cfg.SessionSecret, ttl)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create session token")
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"Title": "Iniciar sesión",
			"Error": "Ha ocurrido un error, inténtalo de nuevo",
		})
		return
	}

	c.SetCookie(SessionCookie, token, int(ttl.Seconds()), "/", "", false, true)
	log.Info().Int("user_id", user.ID).Str("email", user.Email).Msg("Login succeeded")
	c.Redirect(http.StatusFound, safeReturnTo(req.ReturnTo))
}

// ShowLocked renders the lockout page.
func (h *AuthHandler) ShowLocked(c *gin.Context) {
	c.HTML(http.StatusTooManyRequests, "locked.html", gin.H{
		"Title":   "Acceso bloqueado",
		"Minutes": int(h.limiter.Window().Minutes()),
	})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/login")
}
