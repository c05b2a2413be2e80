package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	models "inventario/admin/internal/model"
)

type dashboardRepo struct {
	db *sqlx.DB
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *sqlx.DB) DashboardRepository {
	return &dashboardRepo{db: db}
}

func (r *dashboardRepo) Counts(ctx context.Context, includeUsers bool) (*models.DashboardCounts, error) {
	counts := &models.DashboardCounts{}

	queries := []struct {
		dest  *int64
		query string
	}{
		{&counts.Productos, "SELECT COUNT(*) FROM productos"},
		{&counts.Categorias, "SELECT COUNT(*) FROM categorias"},
		{&counts.Proveedores, "SELECT COUNT(*) FROM proveedores"},
		{&counts.Localizaciones, "SELECT COUNT(*) FROM localizaciones"},
		{&counts.BajoStock, "SELECT COUNT(*) FROM productos WHERE stock < stock_minimo"},
	}
	for _, q := range queries {
		if err := r.db.GetContext(ctx, q.dest, q.query); err != nil {
			return nil, fmt.Errorf("dashboard count: %w", err)
		}
	}

	if includeUsers {
		var users, admins int64
		if err := r.db.GetContext(ctx, &users, "SELECT COUNT(*) FROM usuarios"); err != nil {
			return nil, fmt.Errorf("dashboard count usuarios: %w", err)
		}
		if err := r.db.GetContext(ctx, &admins,
			"SELECT COUNT(*) FROM usuarios u JOIN roles r ON r.id = u.rol_id WHERE r.nombre = 'admin'"); err != nil {
			return nil, fmt.Errorf("dashboard count admins: %w", err)
		}
		counts.Usuarios = &users
		counts.Admins = &admins
	}

	return counts, nil
}
