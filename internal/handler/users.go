package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	models "inventario/admin/internal/model"
	"inventario/admin/internal/repository"
	core "inventario/admin/internal/service"
)

// UsersHandler serves the admin-only user management pages.
type UsersHandler struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUsersHandler creates a UsersHandler.
func NewUsersHandler(users repository.UserRepository, bcryptCost int) *UsersHandler {
	return &UsersHandler{users: users, bcryptCost: bcryptCost}
}

// UserForm is the create/edit form payload. Password is only read on
// create; edits never touch it.
type UserForm struct {
	Nombre    string `form:"nombre" binding:"required"`
	Apellidos string `form:"apellidos" binding:"required"`
	Email     string `form:"email" binding:"required,email"`
	Telefono  string `form:"telefono"`
	RoleID    int    `form:"rol_id" binding:"required"`
	Password  string `form:"password"`
}

// PasswordForm is the change-password form payload.
type PasswordForm struct {
	Password string `form:"password" binding:"required,min=8"`
}

// List renders the user table with their role names.
func (h *UsersHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	filter := repository.UserFilter{
		Name:       c.Query("qName"),
		Email:      c.Query("qEmail"),
		RoleID:     intQuery(c, "rolId"),
		SortBy:     c.Query("sortBy"),
		SortDir:    c.Query("sortDir"),
		Pagination: repository.NewPagination(page, 10),
	}

	users, total, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		renderError(c)
		return
	}

	c.HTML(http.StatusOK, "usuarios_list.html", gin.H{
		"Title":      "Usuarios",
		"Session":    CurrentSession(c),
		"Usuarios":   users,
		"Page":       filter.Pagination.Page,
		"TotalPages": totalPages(total, filter.Pagination.PageSize),
		"Filters":    c.Request.URL.Query(),
	})
}

// Form renders the create or edit form with the assignable roles.
func (h *UsersHandler) Form(c *gin.Context) {
	roles, err := h.users.Roles(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to load roles")
		renderError(c)
		return
	}

	data := gin.H{
		"Title":   "Nuevo usuario",
		"Session": CurrentSession(c),
		"Roles":   roles,
	}

	if idStr := c.Param("id"); idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			c.Redirect(http.StatusFound, "/usuarios")
			return
		}
		u, err := h.users.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.Redirect(http.StatusFound, "/usuarios")
				return
			}
			log.Error().Err(err).Int("id", id).Msg("Failed to load user for edit")
			renderError(c)
			return
		}
		data["Title"] = "Editar usuario"
		data["Usuario"] = u
	}

	c.HTML(http.StatusOK, "usuarios_form.html", data)
}

// Create inserts a user with a freshly hashed password.
func (h *UsersHandler) Create(c *gin.Context) {
	var form UserForm
	if err := c.ShouldBind(&form); err != nil || len(form.Password) < 8 {
		h.renderFormError(c, nil, "Revisa los campos del formulario; la contraseña necesita al menos 8 caracteres")
		return
	}

	hash, err := core.HashPassword(form.Password, h.bcryptCost)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password")
		renderError(c)
		return
	}

	u := form.toModel()
	u.Password = hash
	if err := h.users.Create(c.Request.Context(), u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			h.renderFormError(c, u, "Ya existe un usuario con ese email")
			return
		}
		log.Error().Err(err).Msg("Failed to create user")
		renderError(c)
		return
	}

	c.Redirect(http.StatusSeeOther, "/usuarios")
}

// Update rewrites a user's profile fields. The password is managed on
// its own page.
func (h *UsersHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, "/usuarios")
		return
	}

	var form UserForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderFormError(c, nil, "Revisa los campos del formulario")
		return
	}

	u := form.toModel()
	u.ID = id
	if err := h.users.Update(c.Request.Context(), u); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.Redirect(http.StatusFound, "/usuarios")
		case errors.Is(err, repository.ErrDuplicateEntry):
			h.renderFormError(c, u, "Ya existe un usuario con ese email")
		default:
			log.Error().Err(err).Int("id", id).Msg("Failed to update user")
			renderError(c)
		}
		return
	}

	c.Redirect(http.StatusSeeOther, "/usuarios")
}

// Delete removes a user.
func (h *UsersHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, "/usuarios")
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Error().Err(err).Int("id", id).Msg("Failed to delete user")
		renderError(c)
		return
	}

	c.Redirect(http.StatusSeeOther, "/usuarios")
}

// ShowChangePassword renders the change-password form.
func (h *UsersHandler) ShowChangePassword(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, "/usuarios")
		return
	}

	u, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.Redirect(http.StatusFound, "/usuarios")
			return
		}
		log.Error().Err(err).Int("id", id).Msg("Failed to load user for password change")
		renderError(c)
		return
	}

	c.HTML(http.StatusOK, "usuarios_password.html", gin.H{
		"Title":   "Cambiar contraseña",
		"Session": CurrentSession(c),
		"Usuario": u,
	})
}

// ChangePassword replaces the stored password hash.
func (h *UsersHandler) ChangePassword(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, "/usuarios")
		return
	}

	u, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.Redirect(http.StatusFound, "/usuarios")
			return
		}
		log.Error().Err(err).Int("id", id).Msg("Failed to load user for password change")
		renderError(c)
		return
	}

	var form PasswordForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "usuarios_password.html", gin.H{
			"Title":   "Cambiar contraseña",
			"Session": CurrentSession(c),
			"Usuario": u,
			"Error":   "La contraseña necesita al menos 8 caracteres",
		})
		return
	}

	hash, err := core.HashPassword(form.Password, h.bcryptCost)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password")
		renderError(c)
		return
	}

	if err := h.users.UpdatePassword(c.Request.Context(), id, hash); err != nil {
		log.Error().Err(err).Int("id", id).Msg("Failed to update password")
		renderError(c)
		return
	}

	log.Info().Int("user_id", id).Msg("Password changed")
	c.Redirect(http.StatusSeeOther, "/usuarios")
}

func (f *UserForm) toModel() *models.User {
	u := &models.User{
		Nombre:    f.Nombre,
		Apellidos: f.Apellidos,
		Email:     f.Email,
		RoleID:    f.RoleID,
	}
	if f.Telefono != "" {
		u.Telefono = &f.Telefono
	}
	return u
}

func (h *UsersHandler) renderFormError(c *gin.Context, u *models.User, msg string) {
	roles, err := h.users.Roles(c.Request.Context())
	if err != nil {
		renderError(c)
		return
	}
	title := "Nuevo usuario"
	if u != nil && u.ID != 0 {
		title = "Editar usuario"
	}
	c.HTML(http.StatusBadRequest, "usuarios_form.html", gin.H{
		"Title":   title,
		"Session": CurrentSession(c),
		"Roles":   roles,
		"Usuario": u,
		"Error":   msg,
	})
}
