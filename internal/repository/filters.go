// Package repository provides data access layer interfaces and implementations.
// This file defines filter and pagination structures for repository queries.
package repository

// Pagination holds a clamped page request.
type Pagination struct {
	Page     int
	PageSize int
	Offset   int
}

// NewPagination creates a new pagination with validation.
// Page starts from 1, default PageSize is 10, max PageSize is 100.
func NewPagination(page, pageSize int) *Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}

	return &Pagination{
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
	}
}

// NumericFilter carries an optional numeric value with its comparison
// operator key. A nil Value means the field is not being filtered on.
type NumericFilter struct {
	Value *float64
	Op    Op
}

// ProductFilter collects the user-controllable product list filters.
// All fields are optional; zero values produce no WHERE fragment.
type ProductFilter struct {
	Name       string
	Price      NumericFilter
	Stock      NumericFilter
	MinStock   NumericFilter
	LocationID *int
	CategoryID *int
	SupplierID *int
	LowOnly    bool

	SortBy     string
	SortDir    string
	Pagination *Pagination
}

// NameFilter is the filter shape shared by the categoria, proveedor and
// localizacion lookup tables.
type NameFilter struct {
	Name       string
	SortBy     string
	SortDir    string
	Pagination *Pagination
}

// UserFilter collects the user list filters.
type UserFilter struct {
	Name       string
	Email      string
	RoleID     *int
	SortBy     string
	SortDir    string
	Pagination *Pagination
}
