package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/elaia-api/internal/application/dto"
	"github.com/jhoicas/elaia-api/internal/domain"
	"github.com/jhoicas/elaia-api/internal/domain/entity"
	"github.com/jhoicas/elaia-api/internal/domain/repository"
)

// RoleUseCase administración de roles.
type RoleUseCase struct {
	repo repository.RoleRepository
}

// NewRoleUseCase construye el caso de uso.
func NewRoleUseCase(repo repository.RoleRepository) *RoleUseCase {
	return &RoleUseCase{repo: repo}
}

// List devuelve todos los roles con sus usuarios.
func (uc *RoleUseCase) List(ctx context.Context) ([]dto.RoleResponse, error) {
	list, err := uc.repo.ListWithUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RoleResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.ToRoleResponse(r))
	}
	return out, nil
}

func (uc *RoleUseCase) GetByID(ctx context.Context, id int64) (*dto.RoleResponse, error) {
	role, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.ToRoleResponse(role)
	return &out, nil
}

func (uc *RoleUseCase) Create(ctx context.Context, in dto.RoleRequest) (*dto.RoleResponse, error) {
	name, err := uc.checkName(ctx, in.Name, 0)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	role := &entity.Role{Name: name, CreatedAt: now, UpdatedAt: now}
	if err := uc.repo.Create(ctx, role); err != nil {
		return nil, err
	}
	out := dto.ToRoleResponse(role)
	return &out, nil
}

func (uc *RoleUseCase) Update(ctx context.Context, id int64, in dto.RoleRequest) (*dto.RoleResponse, error) {
	role, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	name, err := uc.checkName(ctx, in.Name, id)
	if err != nil {
		return nil, err
	}
	role.Name = name
	role.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, role); err != nil {
		return nil, err
	}
	out := dto.ToRoleResponse(role)
	return &out, nil
}

// Delete elimina el rol si no tiene usuarios asignados.
func (uc *RoleUseCase) Delete(ctx context.Context, id int64) error {
	if _, err := uc.find(ctx, id); err != nil {
		return err
	}
	n, err := uc.repo.CountUsers(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return &domain.ReferenceError{Resource: "el rol", Referenced: "usuario(s)", Count: n}
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *RoleUseCase) find(ctx context.Context, id int64) (*entity.Role, error) {
	role, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.NotFound("rol no encontrado")
	}
	return role, nil
}

func (uc *RoleUseCase) checkName(ctx context.Context, raw string, excludeID int64) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", domain.InvalidInput("el nombre del rol es obligatorio")
	}
	other, err := uc.repo.GetByName(ctx, name, excludeID)
	if err != nil {
		return "", err
	}
	if other != nil {
		return "", domain.Conflict("ya existe un rol con ese nombre")
	}
	return name, nil
}
