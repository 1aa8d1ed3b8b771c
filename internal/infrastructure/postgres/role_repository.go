package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/elaia-api/internal/domain"
	"github.com/jhoicas/elaia-api/internal/domain/entity"
	"github.com/jhoicas/elaia-api/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepo)(nil)

// RoleRepo implementación de RoleRepository sobre PostgreSQL.
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

func (r *RoleRepo) Create(ctx context.Context, role *entity.Role) error {
	query := `INSERT INTO roles (name, created_at, updated_at) VALUES ($1, $2, $3) RETURNING id`
	err := r.q.QueryRow(ctx, query, role.Name, role.CreatedAt, role.UpdatedAt).Scan(&role.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("ya existe un rol con ese nombre")
		}
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

func (r *RoleRepo) GetByID(ctx context.Context, id int64) (*entity.Role, error) {
	query := `SELECT id, name, created_at, updated_at FROM roles WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get role")
}

// GetByName busca por nombre exacto excluyendo excludeID.
func (r *RoleRepo) GetByName(ctx context.Context, name string, excludeID int64) (*entity.Role, error) {
	query := `SELECT id, name, created_at, updated_at FROM roles WHERE name = $1 AND id <> $2 LIMIT 1`
	return r.scanOne(r.q.QueryRow(ctx, query, name, excludeID), "get role by name")
}

// ListWithUsers dos consultas: roles y luego todos sus usuarios agrupados por rol.
func (r *RoleRepo) ListWithUsers(ctx context.Context) ([]*entity.Role, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, created_at, updated_at FROM roles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Role
	byID := make(map[int64]*entity.Role)
	for rows.Next() {
		var role entity.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		list = append(list, &role)
		byID[role.ID] = &role
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()
	if len(list) == 0 {
		return list, nil
	}

	urows, err := r.q.Query(ctx, `SELECT `+userColumns+userFrom+` ORDER BY u.id`)
	if err != nil {
		return nil, fmt.Errorf("list role users: %w", err)
	}
	defer urows.Close()
	for urows.Next() {
		u, err := scanUser(urows)
		if err != nil {
			return nil, fmt.Errorf("scan role user: %w", err)
		}
		if role, ok := byID[u.RoleID]; ok {
			role.Users = append(role.Users, *u)
		}
	}
	return list, urows.Err()
}

func (r *RoleRepo) CountUsers(ctx context.Context, roleID int64) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role_id = $1`, roleID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count role users: %w", err)
	}
	return n, nil
}

func (r *RoleRepo) Update(ctx context.Context, role *entity.Role) error {
	query := `UPDATE roles SET name = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, role.ID, role.Name, role.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("ya existe un rol con ese nombre")
		}
		return fmt.Errorf("update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RoleRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Conflict("el rol tiene usuarios asociados")
		}
		return fmt.Errorf("delete role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RoleRepo) scanOne(row pgx.Row, op string) (*entity.Role, error) {
	var role entity.Role
	if err := row.Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &role, nil
}
