// Package repository provides data access layer interfaces and implementations.
// This file defines all repository interfaces for data access operations.
package repository

import (
	"context"

	models "inventario/admin/internal/model"
)

// ProductRepository provides access to productos and their category and
// supplier associations.
type ProductRepository interface {
	// List retrieves products with filtering, sorting and pagination.
	// Returns products slice, total count, and error.
	List(ctx context.Context, filter ProductFilter) ([]*models.Product, int64, error)

	// GetByID retrieves a product with its association ids
	GetByID(ctx context.Context, id int) (*models.Product, error)

	// Create inserts the product and its association rows in one transaction
	Create(ctx context.Context, p *models.Product) error

	// Update rewrites the product and replaces its association rows in one transaction
	Update(ctx context.Context, p *models.Product) error

	// Delete deletes a product by ID
	Delete(ctx context.Context, id int) error

	// CategoriesOf returns the categories linked to a product
	CategoriesOf(ctx context.Context, productID int) ([]models.Category, error)

	// SuppliersOf returns the suppliers linked to a product
	SuppliersOf(ctx context.Context, productID int) ([]models.Supplier, error)
}

// LookupRepository is the shared contract of the categoria, proveedor and
// localizacion tables: flat (id, nombre) records.
type LookupRepository interface {
	List(ctx context.Context, filter NameFilter) ([]*models.Option, int64, error)
	GetByID(ctx context.Context, id int) (*models.Option, error)
	Create(ctx context.Context, nombre string) (int, error)
	Update(ctx context.Context, id int, nombre string) error
	Delete(ctx context.Context, id int) error

	// Options returns all rows as (id, nombre) pairs for form selects
	Options(ctx context.Context) ([]models.Option, error)
}

// UserRepository provides access to usuarios and roles.
type UserRepository interface {
	List(ctx context.Context, filter UserFilter) ([]*models.User, int64, error)
	GetByID(ctx context.Context, id int) (*models.User, error)

	// GetByEmail retrieves a user with the joined role name, for login
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	Create(ctx context.Context, u *models.User) error

	// Update updates everything except the password
	Update(ctx context.Context, u *models.User) error

	// UpdatePassword replaces only the stored password hash
	UpdatePassword(ctx context.Context, id int, hash string) error

	Delete(ctx context.Context, id int) error

	// Roles returns all assignable roles
	Roles(ctx context.Context) ([]models.Role, error)
}

// DashboardRepository aggregates the panel counters.
type DashboardRepository interface {
	// Counts fetches entity totals; user/admin totals only when
	// includeUsers is set (admin sessions).
	Counts(ctx context.Context, includeUsers bool) (*models.DashboardCounts, error)
}
