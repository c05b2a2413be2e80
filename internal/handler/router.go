// Package api provides the server-rendered admin routes and handlers
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"inventario/admin/internal/repository"
	core "inventario/admin/internal/service"
	"inventario/admin/pkg/config"
)

// Dependencies holds all dependencies required by the handlers
type Dependencies struct {
	DB      *sqlx.DB
	Config  *config.Config
	Limiter *core.LoginLimiter
	Images  *core.ImageStore
}

// SetupRouter configures all application routes
func SetupRouter(r *gin.Engine, deps *Dependencies) {
	products := repository.NewProductRepository(deps.DB)
	categories := repository.NewCategoryRepository(deps.DB)
	suppliers := repository.NewSupplierRepository(deps.DB)
	locations := repository.NewLocationRepository(deps.DB)
	users := repository.NewUserRepository(deps.DB)
	dashboard := repository.NewDashboardRepository(deps.DB)

	authCfg := &deps.Config.Auth
	requireAuth := RequireAuth(authCfg.SessionSecret)

	// Auth routes (public)
	authHandler := NewAuthHandler(users, deps.Limiter, authCfg)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/auth/login", authHandler.Login)
	r.GET("/auth/locked", authHandler.ShowLocked)
	r.GET("/auth/logout", authHandler.Logout)

	// Panel
	panelHandler := NewPanelHandler(dashboard)
	r.GET("/", requireAuth, panelHandler.Index)

	// Products
	productsHandler := NewProductsHandler(products, categories, suppliers, locations, deps.Images, deps.Config.Server.BaseURL)
	productosGroup := r.Group("/productos")
	productosGroup.Use(requireAuth)
	{
		productosGroup.GET("", productsHandler.List)
		productosGroup.GET("/nuevo", productsHandler.Form)
		productosGroup.POST("/nuevo", productsHandler.Create)
		productosGroup.GET("/:id", productsHandler.Detail)
		productosGroup.GET("/:id/editar", productsHandler.Form)
		productosGroup.POST("/:id/editar", productsHandler.Update)
		productosGroup.POST("/:id/eliminar", productsHandler.Delete)
	}

	// Low stock report
	lowStockHandler := NewLowStockHandler(products, categories, suppliers, locations)
	r.GET("/bajo-stock", requireAuth, lowStockHandler.List)

	// Lookup entities
	for _, h := range []*LookupHandler{
		NewCategoriesHandler(categories),
		NewSuppliersHandler(suppliers),
		NewLocationsHandler(locations),
	} {
		group := r.Group(h.basePath)
		group.Use(requireAuth)
		{
			group.GET("", h.List)
			group.GET("/nuevo", h.Form)
			group.POST("/nuevo", h.Create)
			group.GET("/:id/editar", h.Form)
			group.POST("/:id/editar", h.Update)
			group.POST("/:id/eliminar", h.Delete)
		}
	}

	// Users (admin only)
	usersHandler := NewUsersHandler(users, authCfg.BcryptCost)
	usuariosGroup := r.Group("/usuarios")
	usuariosGroup.Use(requireAuth, RequireAdmin())
	{
		usuariosGroup.GET("", usersHandler.List)
		usuariosGroup.GET("/nuevo", usersHandler.Form)
		usuariosGroup.POST("/nuevo", usersHandler.Create)
		usuariosGroup.GET("/:id/editar", usersHandler.Form)
		usuariosGroup.POST("/:id/editar", usersHandler.Update)
		usuariosGroup.POST("/:id/eliminar", usersHandler.Delete)
		usuariosGroup.GET("/:id/cambiar-password", usersHandler.ShowChangePassword)
		usuariosGroup.POST("/:id/cambiar-password", usersHandler.ChangePassword)
	}
}
