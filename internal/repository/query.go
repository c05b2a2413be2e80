// Package repository provides data access layer interfaces and implementations.
// This file implements the shared filter/sort/paginate plan builder used by
// every list query.
package repository

import (
	"fmt"
	"strings"
)

// Op is a whitelisted numeric comparison operator key.
type Op string

const (
	OpEq  Op = "eq"
	OpLte Op = "lte"
	OpGte Op = "gte"
)

// opSQL maps operator keys to SQL. Anything outside the map resolves
// to equality, so an unknown or missing operator never fails a query.
var opSQL = map[Op]string{
	OpEq:  "=",
	OpLte: "<=",
	OpGte: ">=",
}

// SQL returns the comparison operator for the key, defaulting to "=".
func (o Op) SQL() string {
	if s, ok := opSQL[o]; ok {
		return s
	}
	return "="
}

// SortWhitelist maps external sort keys to column expressions. Column
// expressions only ever come from these compile-time tables, never from
// request input.
type SortWhitelist map[string]string

// Resolve returns the column for key, or the column for defaultKey when
// key is absent from the whitelist.
func (w SortWhitelist) Resolve(key, defaultKey string) string {
	if col, ok := w[key]; ok {
		return col
	}
	return w[defaultKey]
}

// SortDirection normalizes a direction string: only "desc"
// (case-insensitive) sorts descending, everything else is ascending.
func SortDirection(dir string) string {
	if strings.EqualFold(dir, "desc") {
		return "DESC"
	}
	return "ASC"
}

// PlanBuilder accumulates WHERE fragments, JOIN clauses and bound
// parameters for one list query. Column expressions passed to its
// methods must come from an entity's whitelist table; request values
// are only ever appended to args.
type PlanBuilder struct {
	joins []string
	where []string
	args  []interface{}
}

// NewPlanBuilder returns an empty builder.
func NewPlanBuilder() *PlanBuilder {
	return &PlanBuilder{}
}

// Cond adds a fixed condition with no parameters, such as the
// low-stock predicate.
func (b *PlanBuilder) Cond(fragment string) *PlanBuilder {
	b.where = append(b.where, fragment)
	return b
}

// Eq adds an equality condition when v is non-nil.
func (b *PlanBuilder) Eq(col string, v *int) *PlanBuilder {
	if v == nil {
		return b
	}
	b.where = append(b.where, col+" = ?")
	b.args = append(b.args, *v)
	return b
}

// Numeric adds a comparison condition when v is non-nil. A missing or
// unknown operator key falls back to equality.
func (b *PlanBuilder) Numeric(col string, v *float64, op Op) *PlanBuilder {
	if v == nil {
		return b
	}
	b.where = append(b.where, fmt.Sprintf("%s %s ?", col, op.SQL()))
	b.args = append(b.args, *v)
	return b
}

// Contains adds a case-insensitive substring match when s is non-empty.
// The pattern travels as a bound parameter, never in the query text.
func (b *PlanBuilder) Contains(col, s string) *PlanBuilder {
	if s == "" {
		return b
	}
	b.where = append(b.where, "LOWER("+col+") LIKE ?")
	b.args = append(b.args, "%"+strings.ToLower(s)+"%")
	return b
}

// Join adds a relationship filter: an extra JOIN against the
// association table plus an equality condition, when v is non-nil.
// Duplicate join clauses are collapsed.
func (b *PlanBuilder) Join(joinClause, col string, v *int) *PlanBuilder {
	if v == nil {
		return b
	}
	for _, j := range b.joins {
		if j == joinClause {
			joinClause = ""
			break
		}
	}
	if joinClause != "" {
		b.joins = append(b.joins, joinClause)
	}
	b.where = append(b.where, col+" = ?")
	b.args = append(b.args, *v)
	return b
}

// Build assembles the final plan. sortKey is resolved through the
// whitelist with defaultKey as the fallback; dir is normalized by
// SortDirection. The pagination is clamped before computing the offset.
func (b *PlanBuilder) Build(w SortWhitelist, sortKey, dir, defaultKey string, p *Pagination) QueryPlan {
	plan := QueryPlan{
		Args:    b.args,
		OrderBy: w.Resolve(sortKey, defaultKey) + " " + SortDirection(dir),
	}
	if len(b.joins) > 0 {
		plan.JoinSQL = strings.Join(b.joins, " ")
	}
	if len(b.where) > 0 {
		plan.WhereSQL = "WHERE " + strings.Join(b.where, " AND ")
	}
	if p != nil {
		plan.Limit = p.PageSize
		plan.Offset = p.Offset
	}
	return plan
}

// QueryPlan is the assembled, fully parameterized list query. The page
// and count variants share the same WHERE/JOIN text and the same args,
// so the total is always consistent with the page contents.
type QueryPlan struct {
	JoinSQL  string
	WhereSQL string
	OrderBy  string
	Args     []interface{}
	Limit    int
	Offset   int
}

// SelectSQL renders the page query. selectCols is the projection
// (including DISTINCT when relationship joins can multiply rows) and
// base is the FROM clause with its permanent joins. Limit and offset
// are integers clamped by Pagination, so they are interpolated rather
// than bound.
func (p QueryPlan) SelectSQL(selectCols, base string) string {
	sql := fmt.Sprintf("SELECT %s %s", selectCols, p.fromSQL(base))
	sql += " ORDER BY " + p.OrderBy
	if p.Limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d OFFSET %d", p.Limit, p.Offset)
	}
	return sql
}

// CountSQL renders the count variant: identical WHERE/JOIN text, no
// ORDER BY or LIMIT. countExpr deduplicates by primary key when the
// plan added relationship joins, e.g. "COUNT(DISTINCT p.id)".
func (p QueryPlan) CountSQL(countExpr, base string) string {
	return fmt.Sprintf("SELECT %s %s", countExpr, p.fromSQL(base))
}

func (p QueryPlan) fromSQL(base string) string {
	parts := []string{base}
	if p.JoinSQL != "" {
		parts = append(parts, p.JoinSQL)
	}
	if p.WhereSQL != "" {
		parts = append(parts, p.WhereSQL)
	}
	return strings.Join(parts, " ")
}
