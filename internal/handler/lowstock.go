package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"inventario/admin/internal/repository"
)

// LowStockHandler serves the below-minimum stock report. It reuses the
// product list filters on top of a fixed stock condition.
type LowStockHandler struct {
	products repository.ProductRepository
	cats     repository.LookupRepository
	sups     repository.LookupRepository
	locs     repository.LookupRepository
}

// NewLowStockHandler creates a LowStockHandler.
func NewLowStockHandler(products repository.ProductRepository, cats, sups, locs repository.LookupRepository) *LowStockHandler {
	return &LowStockHandler{products: products, cats: cats, sups: sups, locs: locs}
}

// List renders products whose stock is below their minimum.
func (h *LowStockHandler) List(c *gin.Context) {
	filter := parseProductFilter(c)
	filter.LowOnly = true

	products, total, err := h.products.List(c.Request.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list low stock products")
		renderError(c)
		return
	}

	ctx := c.Request.Context()
	cats, err := h.cats.Options(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load category options")
		renderError(c)
		return
	}
	sups, err := h.sups.Options(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load supplier options")
		renderError(c)
		return
	}
	locs, err := h.locs.Options(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load location options")
		renderError(c)
		return
	}

	c.HTML(http.StatusOK, "bajo_stock.html", gin.H{
		"Title":      "Bajo stock",
		"Session":    CurrentSession(c),
		"Productos":  products,
		"Page":       filter.Pagination.Page,
		"TotalPages": totalPages(total, filter.Pagination.PageSize),
		"Filters":    c.Request.URL.Query(),
		"Opts": gin.H{
			"Categorias":     cats,
			"Proveedores":    sups,
			"Localizaciones": locs,
		},
	})
}
