// Package models defines data structures for the inventory application
package models

import (
	"time"
)

// Product represents a row in the productos table.
// Localizacion is the joined location name when listing.
type Product struct {
	ID           int     `db:"id"`
	Nombre       string  `db:"nombre"`
	Descripcion  *string `db:"descripcion"`
	Precio       float64 `db:"precio"`
	Stock        int     `db:"stock"`
	StockMinimo  int     `db:"stock_minimo"`
	LocationID   *int    `db:"localizacion_id"`
	Localizacion *string `db:"localizacion"`

	// Association ids, loaded separately for forms and detail views.
	CategoryIDs []int `db:"-"`
	SupplierIDs []int `db:"-"`
}

// LowStock reports whether the product is below its minimum stock.
func (p *Product) LowStock() bool {
	return p.Stock < p.StockMinimo
}

// Category represents a row in the categorias table
type Category struct {
	ID     int    `db:"id"`
	Nombre string `db:"nombre"`
}

// Supplier represents a row in the proveedores table
type Supplier struct {
	ID     int    `db:"id"`
	Nombre string `db:"nombre"`
}

// Location represents a row in the localizaciones table
type Location struct {
	ID     int    `db:"id"`
	Nombre string `db:"nombre"`
}

// User represents a row in the usuarios table.
// Rol is the joined role name.
type User struct {
	ID        int     `db:"id"`
	Nombre    string  `db:"nombre"`
	Apellidos string  `db:"apellidos"`
	Email     string  `db:"email"`
	Telefono  *string `db:"telefono"`
	Password  string  `db:"password"`
	RoleID    int     `db:"rol_id"`
	Rol       string  `db:"rol"`
}

// Role represents a row in the roles table
type Role struct {
	ID     int    `db:"id"`
	Nombre string `db:"nombre"`
}

// Option is an (id, nombre) pair used to populate form selects
// and list filter dropdowns.
type Option struct {
	ID     int    `db:"id"`
	Nombre string `db:"nombre"`
}

// DashboardCounts aggregates the panel counters. Usuarios and Admins
// are only populated for admin sessions.
type DashboardCounts struct {
	Productos      int64
	Categorias     int64
	Proveedores    int64
	Localizaciones int64
	BajoStock      int64
	Usuarios       *int64
	Admins         *int64
}

// Session is the authenticated identity carried in the session cookie.
type Session struct {
	UserID    int
	Nombre    string
	Rol       string
	ExpiresAt time.Time
}

// IsAdmin reports whether the session belongs to an admin user.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Rol == "admin"
}
