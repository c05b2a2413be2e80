package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	models "inventario/admin/internal/model"
)

// lookupSortable covers the flat (id, nombre) tables.
var lookupSortable = SortWhitelist{
	"id":     "id",
	"nombre": "nombre",
}

// lookupRepo implements LookupRepository over one of the flat lookup
// tables. The table name is a compile-time constant supplied by the
// constructors below, never request input.
type lookupRepo struct {
	db    *sqlx.DB
	table string
}

// NewCategoryRepository creates a repository over categorias
func NewCategoryRepository(db *sqlx.DB) LookupRepository {
	return &lookupRepo{db: db, table: "categorias"}
}

// NewSupplierRepository creates a repository over proveedores
func NewSupplierRepository(db *sqlx.DB) LookupRepository {
	return &lookupRepo{db: db, table: "proveedores"}
}

// NewLocationRepository creates a repository over localizaciones
func NewLocationRepository(db *sqlx.DB) LookupRepository {
	return &lookupRepo{db: db, table: "localizaciones"}
}

func (r *lookupRepo) List(ctx context.Context, filter NameFilter) ([]*models.Option, int64, error) {
	b := NewPlanBuilder()
	b.Contains("nombre", filter.Name)
	plan := b.Build(lookupSortable, filter.SortBy, filter.SortDir, "id", filter.Pagination)

	base := "FROM " + r.table

	var total int64
	if err := r.db.GetContext(ctx, &total, plan.CountSQL("COUNT(*)", base), plan.Args...); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", r.table, err)
	}

	var rows []*models.Option
	if err := r.db.SelectContext(ctx, &rows, plan.SelectSQL("id, nombre", base), plan.Args...); err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", r.table, err)
	}

	return rows, total, nil
}

func (r *lookupRepo) GetByID(ctx context.Context, id int) (*models.Option, error) {
	var row models.Option
	query := fmt.Sprintf("SELECT id, nombre FROM %s WHERE id = ?", r.table)
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s by id: %w", r.table, err)
	}
	return &row, nil
}

func (r *lookupRepo) Create(ctx context.Context, nombre string) (int, error) {
	query := fmt.Sprintf("INSERT INTO %s (nombre) VALUES (?)", r.table)
	result, err := r.db.ExecContext(ctx, query, nombre)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return 0, ErrDuplicateEntry
		}
		return 0, fmt.Errorf("insert %s: %w", r.table, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}
	return int(id), nil
}

func (r *lookupRepo) Update(ctx context.Context, id int, nombre string) error {
	query := fmt.Sprintf("UPDATE %s SET nombre = ? WHERE id = ?", r.table)
	result, err := r.db.ExecContext(ctx, query, nombre, id)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("update %s: %w", r.table, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *lookupRepo) Delete(ctx context.Context, id int) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.table)
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.table, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *lookupRepo) Options(ctx context.Context) ([]models.Option, error) {
	var opts []models.Option
	query := fmt.Sprintf("SELECT id, nombre FROM %s ORDER BY nombre", r.table)
	if err := r.db.SelectContext(ctx, &opts, query); err != nil {
		return nil, fmt.Errorf("options %s: %w", r.table, err)
	}
	return opts, nil
}
