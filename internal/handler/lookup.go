package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"inventario/admin/internal/repository"
)

// LookupHandler serves the CRUD pages of a flat (id, nombre) entity.
// Categories, suppliers and locations share this shape and only differ
// in repository, route path and display names.
type LookupHandler struct {
	repo     repository.LookupRepository
	basePath string
	plural   string
	singular string
}

// NewCategoriesHandler serves /categorias.
func NewCategoriesHandler(repo repository.LookupRepository) *LookupHandler {
	return &LookupHandler{repo: repo, basePath: "/categorias", plural: "Categorías", singular: "categoría"}
}

// NewSuppliersHandler serves /proveedores.
func NewSuppliersHandler(repo repository.LookupRepository) *LookupHandler {
	return &LookupHandler{repo: repo, basePath: "/proveedores", plural: "Proveedores", singular: "proveedor"}
}

// NewLocationsHandler serves /localizaciones.
func NewLocationsHandler(repo repository.LookupRepository) *LookupHandler {
	return &LookupHandler{repo: repo, basePath: "/localizaciones", plural: "Localizaciones", singular: "localización"}
}

// LookupForm is the create/edit form payload.
type LookupForm struct {
	Nombre string `form:"nombre" binding:"required"`
}

// List renders the entity table with optional name search.
func (h *LookupHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	filter := repository.NameFilter{
		Name:       c.Query("qName"),
		SortBy:     c.Query("sortBy"),
		SortDir:    c.Query("sortDir"),
		Pagination: repository.NewPagination(page, 10),
	}

	rows, total, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		log.Error().Err(err).Str("entity", h.basePath).Msg("Failed to list lookup entity")
		renderError(c)
		return
	}

	c.HTML(http.StatusOK, "lookup_list.html", gin.H{
		"Title":      h.plural,
		"Session":    CurrentSession(c),
		"BasePath":   h.basePath,
		"Singular":   h.singular,
		"Rows":       rows,
		"Page":       filter.Pagination.Page,
		"TotalPages": totalPages(total, filter.Pagination.PageSize),
		"Filters":    c.Request.URL.Query(),
	})
}

// Form renders the create or edit form.
func (h *LookupHandler) Form(c *gin.Context) {
	data := gin.H{
		"Title":    "Nueva " + h.singular,
		"Session":  CurrentSession(c),
		"BasePath": h.basePath,
		"Singular": h.singular,
	}

	if idStr := c.Param("id"); idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			c.Redirect(http.StatusFound, h.basePath)
			return
		}
		row, err := h.repo.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.Redirect(http.StatusFound, h.basePath)
				return
			}
			log.Error().Err(err).Str("entity", h.basePath).Int("id", id).Msg("Failed to load lookup entity")
			renderError(c)
			return
		}
		data["Title"] = "Editar " + h.singular
		data["Row"] = row
	}

	c.HTML(http.StatusOK, "lookup_form.html", data)
}

// Create inserts a row and returns to the list.
func (h *LookupHandler) Create(c *gin.Context) {
	var form LookupForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderFormError(c, nil, "El nombre es obligatorio")
		return
	}

	if _, err := h.repo.Create(c.Request.Context(), form.Nombre); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			h.renderFormError(c, nil, "Ya existe un registro con ese nombre")
			return
		}
		log.Error().Err(err).Str("entity", h.basePath).Msg("Failed to create lookup entity")
		renderError(c)
		return
	}

	c.Redirect(http.StatusSeeOther, h.basePath)
}

// Update renames a row and returns to the list.
func (h *LookupHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, h.basePath)
		return
	}

	var form LookupForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderFormError(c, &id, "El nombre es obligatorio")
		return
	}

	if err := h.repo.Update(c.Request.Context(), id, form.Nombre); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.Redirect(http.StatusFound, h.basePath)
		case errors.Is(err, repository.ErrDuplicateEntry):
			h.renderFormError(c, &id, "Ya existe un registro con ese nombre")
		default:
			log.Error().Err(err).Str("entity", h.basePath).Int("id", id).Msg("Failed to update lookup entity")
			renderError(c)
		}
		return
	}

	c.Redirect(http.StatusSeeOther, h.basePath)
}

// Delete removes a row and returns to the list.
func (h *LookupHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, h.basePath)
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Error().Err(err).Str("entity", h.basePath).Int("id", id).Msg("Failed to delete lookup entity")
		renderError(c)
		return
	}

	c.Redirect(http.StatusSeeOther, h.basePath)
}

func (h *LookupHandler) renderFormError(c *gin.Context, id *int, msg string) {
	data := gin.H{
		"Title":    "Nueva " + h.singular,
		"Session":  CurrentSession(c),
		"BasePath": h.basePath,
		"Singular": h.singular,
		"Error":    msg,
	}
	if id != nil {
		data["Title"] = "Editar " + h.singular
	}
	c.HTML(http.StatusBadRequest, "lookup_form.html", data)
}
