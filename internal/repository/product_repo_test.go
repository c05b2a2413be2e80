package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	testutil "inventario/admin/internal/testing"

	models "inventario/admin/internal/model"
)

func productRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "nombre", "descripcion", "precio", "stock", "stock_minimo", "localizacion_id", "localizacion"}).
		AddRow(1, "Tornillo M4", "Caja de 100", 2.5, 120, 20, 3, "Almacén A").
		AddRow(2, "Tuerca M4", nil, 1.2, 5, 10, nil, nil)
}

func TestProductRepository_List(t *testing.T) {
	db, mock, cleanup := testutil.NewMockDB(t)
	defer cleanup()

	repo := NewProductRepository(db)

	t.Run("no filters", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(DISTINCT p.id\\) FROM productos p").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectQuery("SELECT DISTINCT p.id, (.+) FROM productos p LEFT JOIN localizaciones l").
			WillReturnRows(productRows())

		products, total, err := repo.List(context.Background(), ProductFilter{
			Pagination: NewPagination(1, 10),
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, products, 2)
		assert.Equal(t, "Tornillo M4", products[0].Nombre)
		assert.True(t, products[1].LowStock())
		assert.Nil(t, products[1].Localizacion)
	})

	t.Run("name and category filter share args", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(DISTINCT p.id\\) FROM productos p (.+) JOIN producto_categoria pc (.+) WHERE LOWER\\(p.nombre\\) LIKE (.+) AND pc.categoria_id").
			WithArgs("%tornillo%", 2).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery("SELECT DISTINCT p.id, (.+) WHERE LOWER\\(p.nombre\\) LIKE (.+) AND pc.categoria_id (.+) ORDER BY p.nombre DESC LIMIT 10 OFFSET 10").
			WithArgs("%tornillo%", 2).
			WillReturnRows(productRows())

		_, total, err := repo.List(context.Background(), ProductFilter{
			Name:       "tornillo",
			CategoryID: intPtr(2),
			SortBy:     "nombre",
			SortDir:    "desc",
			Pagination: NewPagination(2, 10),
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_GetByID(t *testing.T) {
	db, mock, cleanup := testutil.NewMockDB(t)
	defer cleanup()

	repo := NewProductRepository(db)

	t.Run("success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "nombre", "descripcion", "precio", "stock", "stock_minimo", "localizacion_id", "localizacion"}).
			AddRow(1, "Tornillo M4", "Caja de 100", 2.5, 120, 20, 3, "Almacén A")

		mock.ExpectQuery("SELECT p.id, (.+) FROM productos p LEFT JOIN localizaciones l (.+) WHERE p.id = ?").
			WithArgs(1).
			WillReturnRows(rows)
		mock.ExpectQuery("SELECT categoria_id FROM producto_categoria WHERE producto_id = ?").
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"categoria_id"}).AddRow(2).AddRow(5))
		mock.ExpectQuery("SELECT proveedor_id FROM producto_proveedor WHERE producto_id = ?").
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"proveedor_id"}).AddRow(1))

		p, err := repo.GetByID(context.Background(), 1)

		assert.NoError(t, err)
		assert.NotNil(t, p)
		assert.Equal(t, "Tornillo M4", p.Nombre)
		assert.Equal(t, []int{2, 5}, p.CategoryIDs)
		assert.Equal(t, []int{1}, p.SupplierIDs)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT p.id, (.+) WHERE p.id = ?").
			WithArgs(99).
			WillReturnError(sql.ErrNoRows)

		p, err := repo.GetByID(context.Background(), 99)

		assert.Nil(t, p)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestProductRepository_Create(t *testing.T) {
	db, mock, cleanup := testutil.NewMockDB(t)
	defer cleanup()

	repo := NewProductRepository(db)

	p := &models.Product{
		Nombre:      "Tornillo M4",
		Precio:      2.5,
		Stock:       120,
		StockMinimo: 20,
		CategoryIDs: []int{2},
		SupplierIDs: []int{1, 4},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO productos").
		WithArgs(p.Nombre, nil, p.Precio, p.Stock, p.StockMinimo, nil).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO producto_categoria").
		WithArgs(7, 2).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO producto_proveedor").
		WithArgs(7, 1).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO producto_proveedor").
		WithArgs(7, 4).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), p)

	assert.NoError(t, err)
	assert.Equal(t, 7, p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update(t *testing.T) {
	db, mock, cleanup := testutil.NewMockDB(t)
	defer cleanup()

	repo := NewProductRepository(db)

	p := &models.Product{
		ID:          3,
		Nombre:      "Tornillo M5",
		Precio:      3.0,
		Stock:       50,
		StockMinimo: 10,
		CategoryIDs: []int{5},
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE productos SET").
		WithArgs(p.Nombre, nil, p.Precio, p.Stock, p.StockMinimo, nil, p.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM producto_categoria WHERE producto_id = ?").
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM producto_proveedor WHERE producto_id = ?").
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO producto_categoria").
		WithArgs(3, 5).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), p)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete(t *testing.T) {
	db, mock, cleanup := testutil.NewMockDB(t)
	defer cleanup()

	repo := NewProductRepository(db)

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM productos WHERE id = ?").
			WithArgs(1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), 1))
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM productos WHERE id = ?").
			WithArgs(99).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), 99), ErrNotFound)
	})
}
