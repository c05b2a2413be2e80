package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestOpSQL(t *testing.T) {
	assert.Equal(t, "=", OpEq.SQL())
	assert.Equal(t, "<=", OpLte.SQL())
	assert.Equal(t, ">=", OpGte.SQL())

	// anything outside the map degrades to equality
	assert.Equal(t, "=", Op("").SQL())
	assert.Equal(t, "=", Op("like").SQL())
	assert.Equal(t, "=", Op("; DROP TABLE productos").SQL())
}

func TestSortWhitelistResolve(t *testing.T) {
	w := SortWhitelist{"id": "p.id", "nombre": "p.nombre"}

	assert.Equal(t, "p.nombre", w.Resolve("nombre", "id"))
	assert.Equal(t, "p.id", w.Resolve("", "id"))
	assert.Equal(t, "p.id", w.Resolve("unknown", "id"))

	// hostile sort keys never reach the SQL text
	assert.Equal(t, "p.id", w.Resolve("DROP TABLE", "id"))
	assert.Equal(t, "p.id", w.Resolve("p.id; --", "id"))
}

func TestSortDirection(t *testing.T) {
	assert.Equal(t, "DESC", SortDirection("desc"))
	assert.Equal(t, "DESC", SortDirection("DESC"))
	assert.Equal(t, "DESC", SortDirection("DeSc"))

	assert.Equal(t, "ASC", SortDirection(""))
	assert.Equal(t, "ASC", SortDirection("asc"))
	assert.Equal(t, "ASC", SortDirection("descending"))
	assert.Equal(t, "ASC", SortDirection("1; DROP TABLE"))
}

func TestNewPagination(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p := NewPagination(0, 0)
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 10, p.PageSize)
		assert.Equal(t, 0, p.Offset)
	})

	t.Run("negative page clamps to 1", func(t *testing.T) {
		p := NewPagination(-5, 10)
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 0, p.Offset)
	})

	t.Run("size capped at 100", func(t *testing.T) {
		p := NewPagination(1, 5000)
		assert.Equal(t, 100, p.PageSize)
	})

	t.Run("offset arithmetic", func(t *testing.T) {
		p := NewPagination(3, 10)
		assert.Equal(t, 20, p.Offset)

		p = NewPagination(2, 25)
		assert.Equal(t, 25, p.Offset)
	})
}

// countPlaceholders counts the bound-parameter markers in the generated
// JOIN and WHERE text.
func countPlaceholders(plan QueryPlan) int {
	return strings.Count(plan.JoinSQL, "?") + strings.Count(plan.WhereSQL, "?")
}

func TestPlanBuilderParameterParity(t *testing.T) {
	w := SortWhitelist{"id": "p.id"}

	cases := []struct {
		name  string
		build func() *PlanBuilder
	}{
		{"empty", func() *PlanBuilder {
			return NewPlanBuilder()
		}},
		{"fixed condition only", func() *PlanBuilder {
			return NewPlanBuilder().Cond("p.stock < p.stock_minimo")
		}},
		{"contains", func() *PlanBuilder {
			return NewPlanBuilder().Contains("p.nombre", "abc")
		}},
		{"numeric without operator", func() *PlanBuilder {
			return NewPlanBuilder().Numeric("p.precio", floatPtr(10), "")
		}},
		{"mixed", func() *PlanBuilder {
			return NewPlanBuilder().
				Contains("p.nombre", "abc").
				Numeric("p.precio", floatPtr(10), OpLte).
				Eq("p.localizacion_id", intPtr(4)).
				Join("JOIN producto_categoria pc ON pc.producto_id = p.id", "pc.categoria_id", intPtr(3))
		}},
		{"all filters", func() *PlanBuilder {
			return NewPlanBuilder().
				Cond("p.stock < p.stock_minimo").
				Contains("p.nombre", "x").
				Numeric("p.precio", floatPtr(1), OpEq).
				Numeric("p.stock", floatPtr(2), OpGte).
				Numeric("p.stock_minimo", floatPtr(3), OpLte).
				Eq("p.localizacion_id", intPtr(1)).
				Join("JOIN producto_categoria pc ON pc.producto_id = p.id", "pc.categoria_id", intPtr(2)).
				Join("JOIN producto_proveedor pp ON pp.producto_id = p.id", "pp.proveedor_id", intPtr(3))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan := tc.build().Build(w, "", "", "id", nil)
			assert.Equal(t, len(plan.Args), countPlaceholders(plan),
				"placeholder count must equal bound parameter count")
		})
	}
}

func TestPlanBuilderParameterOrder(t *testing.T) {
	w := SortWhitelist{"id": "p.id"}

	plan := NewPlanBuilder().
		Contains("p.nombre", "Abc").
		Numeric("p.precio", floatPtr(9.5), OpGte).
		Eq("p.localizacion_id", intPtr(7)).
		Build(w, "", "", "id", nil)

	assert.Equal(t, "WHERE LOWER(p.nombre) LIKE ? AND p.precio >= ? AND p.localizacion_id = ?", plan.WhereSQL)
	assert.Equal(t, []interface{}{"%abc%", 9.5, 7}, plan.Args)
}

func TestPlanBuilderContainsLowersAndWraps(t *testing.T) {
	plan := NewPlanBuilder().
		Contains("p.nombre", "TORNillo").
		Build(SortWhitelist{"id": "p.id"}, "", "", "id", nil)

	assert.Equal(t, []interface{}{"%tornillo%"}, plan.Args)
	assert.NotContains(t, plan.WhereSQL, "tornillo", "value must never appear in query text")
}

func TestPlanBuilderJoinDedup(t *testing.T) {
	join := "JOIN producto_categoria pc ON pc.producto_id = p.id"
	plan := NewPlanBuilder().
		Join(join, "pc.categoria_id", intPtr(1)).
		Join(join, "pc.categoria_id", intPtr(2)).
		Build(SortWhitelist{"id": "p.id"}, "", "", "id", nil)

	assert.Equal(t, join, plan.JoinSQL)
	assert.Equal(t, 1, strings.Count(plan.JoinSQL, "JOIN producto_categoria"))
	assert.Equal(t, []interface{}{1, 2}, plan.Args)
}

func TestQueryPlanCountSharesFragments(t *testing.T) {
	plan := NewPlanBuilder().
		Contains("p.nombre", "abc").
		Join("JOIN producto_categoria pc ON pc.producto_id = p.id", "pc.categoria_id", intPtr(2)).
		Build(productSortable, "precio", "desc", "id", NewPagination(1, 10))

	selectSQL := plan.SelectSQL(productCols, productBase)
	countSQL := plan.CountSQL("COUNT(DISTINCT p.id)", productBase)

	// identical FROM/JOIN/WHERE text in both variants
	from := productBase + " " + plan.JoinSQL + " " + plan.WhereSQL
	assert.Contains(t, selectSQL, from)
	assert.Contains(t, countSQL, from)

	// count variant carries no ordering or pagination
	assert.NotContains(t, countSQL, "ORDER BY")
	assert.NotContains(t, countSQL, "LIMIT")

	assert.Contains(t, selectSQL, "ORDER BY p.precio DESC")
	assert.Contains(t, selectSQL, "LIMIT 10 OFFSET 0")
}

func TestProductPlanScenario(t *testing.T) {
	// sortBy=nombre sortDir=desc qName=tornillo categoriaId=2 page=2
	repo := &productRepo{}
	plan := repo.buildPlan(ProductFilter{
		Name:       "tornillo",
		CategoryID: intPtr(2),
		SortBy:     "nombre",
		SortDir:    "desc",
		Pagination: NewPagination(2, 10),
	})

	assert.Equal(t, "WHERE LOWER(p.nombre) LIKE ? AND pc.categoria_id = ?", plan.WhereSQL)
	assert.Equal(t, "JOIN producto_categoria pc ON pc.producto_id = p.id", plan.JoinSQL)
	assert.Equal(t, []interface{}{"%tornillo%", 2}, plan.Args)
	assert.Equal(t, "p.nombre DESC", plan.OrderBy)

	sql := plan.SelectSQL(productCols, productBase)
	assert.Contains(t, sql, "LIMIT 10 OFFSET 10")
	assert.Equal(t, len(plan.Args), countPlaceholders(plan))
}

func TestProductPlanHostileSortKey(t *testing.T) {
	repo := &productRepo{}
	plan := repo.buildPlan(ProductFilter{SortBy: "DROP TABLE"})

	assert.Equal(t, "p.id ASC", plan.OrderBy)
	assert.NotContains(t, plan.SelectSQL(productCols, productBase), "DROP")
}

func TestProductPlanLowOnly(t *testing.T) {
	repo := &productRepo{}
	plan := repo.buildPlan(ProductFilter{LowOnly: true})

	assert.Equal(t, "WHERE p.stock < p.stock_minimo", plan.WhereSQL)
	assert.Empty(t, plan.Args)
}
