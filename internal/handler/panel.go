package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"inventario/admin/internal/repository"
)

// PanelHandler serves the home panel with entity counters.
type PanelHandler struct {
	dashboard repository.DashboardRepository
}

// NewPanelHandler creates a PanelHandler.
func NewPanelHandler(dashboard repository.DashboardRepository) *PanelHandler {
	return &PanelHandler{dashboard: dashboard}
}

// Index renders the panel. User counters only show for admins.
func (h *PanelHandler) Index(c *gin.Context) {
	session := CurrentSession(c)

	counts, err := h.dashboard.Counts(c.Request.Context(), session.IsAdmin())
	if err != nil {
		log.Error().Err(err).Msg("Failed to load panel counters")
		renderError(c)
		return
	}

	c.HTML(http.StatusOK, "panel.html", gin.H{
		"Title":   "Panel",
		"Session": session,
		"Counts":  counts,
	})
}
