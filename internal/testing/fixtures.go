package testing

import (
	models "inventario/admin/internal/model"
)

// Fixtures provides ready-made domain records for tests.
type Fixtures struct{}

// NewFixtures creates a new fixtures instance
func NewFixtures() *Fixtures {
	return &Fixtures{}
}

// ValidProduct returns a product with a location and associations.
func (f *Fixtures) ValidProduct() *models.Product {
	desc := "Caja de 100 unidades"
	loc := 3
	locName := "Almacén A"
	return &models.Product{
		ID:           1,
		Nombre:       "Tornillo M4",
		Descripcion:  &desc,
		Precio:       2.50,
		Stock:        120,
		StockMinimo:  20,
		LocationID:   &loc,
		Localizacion: &locName,
		CategoryIDs:  []int{2, 5},
		SupplierIDs:  []int{1},
	}
}

// ValidUser returns an admin user with the joined role name. The
// password field carries a bcrypt hash of "secreto123".
func (f *Fixtures) ValidUser() *models.User {
	tel := "600123456"
	return &models.User{
		ID:        1,
		Nombre:    "Ana",
		Apellidos: "García",
		Email:     "ana@example.com",
		Telefono:  &tel,
		Password:  "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		RoleID:    1,
		Rol:       "admin",
	}
}
