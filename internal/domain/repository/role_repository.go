package repository

import (
	"context"

	"github.com/jhoicas/elaia-api/internal/domain/entity"
)

// RoleRepository define el puerto de persistencia para Role.
type RoleRepository interface {
	Create(ctx context.Context, role *entity.Role) error
	GetByID(ctx context.Context, id int64) (*entity.Role, error)
	// GetByName busca por nombre exacto ignorando excludeID (0 = no excluir).
	GetByName(ctx context.Context, name string, excludeID int64) (*entity.Role, error)
	// ListWithUsers devuelve los roles ordenados por ID con sus usuarios.
	ListWithUsers(ctx context.Context) ([]*entity.Role, error)
	CountUsers(ctx context.Context, roleID int64) (int, error)
	Update(ctx context.Context, role *entity.Role) error
	Delete(ctx context.Context, id int64) error
}
