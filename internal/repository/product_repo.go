package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	models "inventario/admin/internal/model"
)

// productSortable is the whitelist of externally sortable product
// columns. Anything else falls back to "id".
var productSortable = SortWhitelist{
	"id":           "p.id",
	"nombre":       "p.nombre",
	"precio":       "p.precio",
	"stock":        "p.stock",
	"stock_minimo": "p.stock_minimo",
}

const (
	productBase = "FROM productos p LEFT JOIN localizaciones l ON p.localizacion_id = l.id"
	productCols = "DISTINCT p.id, p.nombre, p.descripcion, p.precio, p.stock, p.stock_minimo, p.localizacion_id, l.nombre AS localizacion"
)

type productRepo struct {
	db *sqlx.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sqlx.DB) ProductRepository {
	return &productRepo{db: db}
}

// buildPlan translates the filter into a query plan. Category and
// supplier filters join through their association tables, so the page
// and count queries deduplicate by p.id.
func (r *productRepo) buildPlan(filter ProductFilter) QueryPlan {
	b := NewPlanBuilder()

	if filter.LowOnly {
		b.Cond("p.stock < p.stock_minimo")
	}
	b.Contains("p.nombre", filter.Name)
	b.Numeric("p.precio", filter.Price.Value, filter.Price.Op)
	b.Numeric("p.stock", filter.Stock.Value, filter.Stock.Op)
	b.Numeric("p.stock_minimo", filter.MinStock.Value, filter.MinStock.Op)
	b.Eq("p.localizacion_id", filter.LocationID)
	b.Join("JOIN producto_categoria pc ON pc.producto_id = p.id", "pc.categoria_id", filter.CategoryID)
	b.Join("JOIN producto_proveedor pp ON pp.producto_id = p.id", "pp.proveedor_id", filter.SupplierID)

	return b.Build(productSortable, filter.SortBy, filter.SortDir, "id", filter.Pagination)
}

func (r *productRepo) List(ctx context.Context, filter ProductFilter) ([]*models.Product, int64, error) {
	plan := r.buildPlan(filter)

	var total int64
	if err := r.db.GetContext(ctx, &total, plan.CountSQL("COUNT(DISTINCT p.id)", productBase), plan.Args...); err != nil {
		return nil, 0, fmt.Errorf("count productos: %w", err)
	}

	var products []*models.Product
	if err := r.db.SelectContext(ctx, &products, plan.SelectSQL(productCols, productBase), plan.Args...); err != nil {
		return nil, 0, fmt.Errorf("list productos: %w", err)
	}

	return products, total, nil
}

func (r *productRepo) GetByID(ctx context.Context, id int) (*models.Product, error) {
	query := `
		SELECT p.id, p.nombre, p.descripcion, p.precio, p.stock, p.stock_minimo,
		       p.localizacion_id, l.nombre AS localizacion
		FROM productos p LEFT JOIN localizaciones l ON p.localizacion_id = l.id
		WHERE p.id = ?
	`

	var p models.Product
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get producto by id: %w", err)
	}

	if err := r.db.SelectContext(ctx, &p.CategoryIDs,
		"SELECT categoria_id FROM producto_categoria WHERE producto_id = ?", id); err != nil {
		return nil, fmt.Errorf("get producto categorias: %w", err)
	}
	if err := r.db.SelectContext(ctx, &p.SupplierIDs,
		"SELECT proveedor_id FROM producto_proveedor WHERE producto_id = ?", id); err != nil {
		return nil, fmt.Errorf("get producto proveedores: %w", err)
	}

	return &p, nil
}

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO productos (nombre, descripcion, precio, stock, stock_minimo, localizacion_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.Nombre, p.Descripcion, p.Precio, p.Stock, p.StockMinimo, p.LocationID)
	if err != nil {
		return fmt.Errorf("insert producto: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	p.ID = int(id)

	if err := insertAssociations(ctx, tx, p); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *productRepo) Update(ctx context.Context, p *models.Product) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE productos SET nombre = ?, descripcion = ?, precio = ?, stock = ?,
		        stock_minimo = ?, localizacion_id = ? WHERE id = ?`,
		p.Nombre, p.Descripcion, p.Precio, p.Stock, p.StockMinimo, p.LocationID, p.ID)
	if err != nil {
		return fmt.Errorf("update producto: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	_ = rows // zero rows is fine: the update may match the current values

	// Replace associations wholesale, like the form submits them.
	if _, err := tx.ExecContext(ctx, "DELETE FROM producto_categoria WHERE producto_id = ?", p.ID); err != nil {
		return fmt.Errorf("clear producto categorias: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM producto_proveedor WHERE producto_id = ?", p.ID); err != nil {
		return fmt.Errorf("clear producto proveedores: %w", err)
	}
	if err := insertAssociations(ctx, tx, p); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func insertAssociations(ctx context.Context, tx *sqlx.Tx, p *models.Product) error {
	for _, c := range p.CategoryIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO producto_categoria (producto_id, categoria_id) VALUES (?, ?)", p.ID, c); err != nil {
			return fmt.Errorf("insert producto categoria: %w", err)
		}
	}
	for _, s := range p.SupplierIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO producto_proveedor (producto_id, proveedor_id) VALUES (?, ?)", p.ID, s); err != nil {
			return fmt.Errorf("insert producto proveedor: %w", err)
		}
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM productos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete producto: %w", err)
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

func (r *productRepo) CategoriesOf(ctx context.Context, productID int) ([]models.Category, error) {
	var cats []models.Category
	err := r.db.SelectContext(ctx, &cats,
		`SELECT c.id, c.nombre FROM categorias c
		 JOIN producto_categoria pc ON c.id = pc.categoria_id
		 WHERE pc.producto_id = ?`, productID)
	if err != nil {
		return nil, fmt.Errorf("categorias of producto: %w", err)
	}
	return cats, nil
}

func (r *productRepo) SuppliersOf(ctx context.Context, productID int) ([]models.Supplier, error) {
	var provs []models.Supplier
	err := r.db.SelectContext(ctx, &provs,
		`SELECT pr.id, pr.nombre FROM proveedores pr
		 JOIN producto_proveedor pp ON pr.id = pp.proveedor_id
		 WHERE pp.producto_id = ?`, productID)
	if err != nil {
		return nil, fmt.Errorf("proveedores of producto: %w", err)
	}
	return provs, nil
}
