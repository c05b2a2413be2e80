package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	models "inventario/admin/internal/model"
)

var userSortable = SortWhitelist{
	"id":        "u.id",
	"nombre":    "u.nombre",
	"apellidos": "u.apellidos",
	"email":     "u.email",
	"rol":       "r.nombre",
}

const (
	userBase = "FROM usuarios u JOIN roles r ON u.rol_id = r.id"
	userCols = "u.id, u.nombre, u.apellidos, u.email, u.telefono, u.rol_id, r.nombre AS rol"
)

type userRepo struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) List(ctx context.Context, filter UserFilter) ([]*models.User, int64, error) {
	b := NewPlanBuilder()
	b.Contains("u.nombre", filter.Name)
	b.Contains("u.email", filter.Email)
	b.Eq("u.rol_id", filter.RoleID)
	plan := b.Build(userSortable, filter.SortBy, filter.SortDir, "id", filter.Pagination)

	var total int64
	if err := r.db.GetContext(ctx, &total, plan.CountSQL("COUNT(*)", userBase), plan.Args...); err != nil {
		return nil, 0, fmt.Errorf("count usuarios: %w", err)
	}

	var users []*models.User
	if err := r.db.SelectContext(ctx, &users, plan.SelectSQL(userCols, userBase), plan.Args...); err != nil {
		return nil, 0, fmt.Errorf("list usuarios: %w", err)
	}

	return users, total, nil
}

func (r *userRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT u.id, u.nombre, u.apellidos, u.email, u.telefono, u.rol_id, r.nombre AS rol
	          FROM usuarios u JOIN roles r ON u.rol_id = r.id WHERE u.id = ?`

	var u models.User
	if err := r.db.GetContext(ctx, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get usuario by id: %w", err)
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT u.id, u.nombre, u.apellidos, u.email, u.telefono, u.password, u.rol_id, r.nombre AS rol
	          FROM usuarios u JOIN roles r ON u.rol_id = r.id WHERE u.email = ?`

	var u models.User
	if err := r.db.GetContext(ctx, &u, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get usuario by email: %w", err)
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO usuarios (nombre, apellidos, email, telefono, password, rol_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.Nombre, u.Apellidos, u.Email, u.Telefono, u.Password, u.RoleID)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("insert usuario: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	u.ID = int(id)
	return nil
}

func (r *userRepo) Update(ctx context.Context, u *models.User) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE usuarios SET nombre = ?, apellidos = ?, email = ?, telefono = ?, rol_id = ?
		 WHERE id = ?`,
		u.Nombre, u.Apellidos, u.Email, u.Telefono, u.RoleID, u.ID)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("update usuario: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	_ = rows
	return nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, id int, hash string) error {
	result, err := r.db.ExecContext(ctx, "UPDATE usuarios SET password = ? WHERE id = ?", hash, id)
	if err != nil {
		return fmt.Errorf("update usuario password: %w", err)
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

func (r *userRepo) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM usuarios WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete usuario: %w", err)
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

func (r *userRepo) Roles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.SelectContext(ctx, &roles, "SELECT id, nombre FROM roles ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}
