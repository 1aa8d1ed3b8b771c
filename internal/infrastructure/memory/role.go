package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/elaia-api/internal/domain"
	"github.com/jhoicas/elaia-api/internal/domain/entity"
	"github.com/jhoicas/elaia-api/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepo)(nil)

// RoleRepo RoleRepository en memoria.
type RoleRepo struct {
	s  *Store
	tx bool // creado por TxRunner, que ya tiene txMu
}

// NewRoleRepository construye el repositorio de roles sobre el store.
func NewRoleRepository(s *Store) *RoleRepo { return &RoleRepo{s: s} }

// Create inserta el rol y asigna su ID. El nombre es único.
func (r *RoleRepo) Create(_ context.Context, role *entity.Role) error {
	defer r.s.lockWrite(r.tx)()
	for _, other := range r.s.data.roles {
		if other.Name == role.Name {
			return domain.Conflict("ya existe un rol con ese nombre")
		}
	}
	role.ID = r.s.data.next("roles")
	stored := *role
	stored.Users = nil
	r.s.data.roles[role.ID] = stored
	return nil
}

// GetByID obtiene un rol; nil si no existe.
func (r *RoleRepo) GetByID(_ context.Context, id int64) (*entity.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	role, ok := r.s.data.roles[id]
	if !ok {
		return nil, nil
	}
	return &role, nil
}

// GetByName busca por nombre exacto ignorando excludeID; nil si no hay coincidencia.
func (r *RoleRepo) GetByName(_ context.Context, name string, excludeID int64) (*entity.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, role := range r.s.data.roles {
		if role.Name == name && role.ID != excludeID {
			return &role, nil
		}
	}
	return nil, nil
}

// ListWithUsers lista los roles con sus usuarios.
func (r *RoleRepo) ListWithUsers(_ context.Context) ([]*entity.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Role, 0, len(r.s.data.roles))
	byID := make(map[int64]*entity.Role, len(r.s.data.roles))
	for _, role := range r.s.data.roles {
		list = append(list, &role)
		byID[role.ID] = &role
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	users := make([]entity.User, 0, len(r.s.data.users))
	for _, u := range r.s.data.users {
		users = append(users, *r.s.data.userWithRole(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	for _, u := range users {
		if role, ok := byID[u.RoleID]; ok {
			role.Users = append(role.Users, u)
		}
	}
	return list, nil
}

// CountUsers número de usuarios con el rol.
func (r *RoleRepo) CountUsers(_ context.Context, roleID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, u := range r.s.data.users {
		if u.RoleID == roleID {
			n++
		}
	}
	return n, nil
}

// Update reemplaza el nombre del rol.
func (r *RoleRepo) Update(_ context.Context, role *entity.Role) error {
	defer r.s.lockWrite(r.tx)()
	if _, ok := r.s.data.roles[role.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, other := range r.s.data.roles {
		if other.Name == role.Name && other.ID != role.ID {
			return domain.Conflict("ya existe un rol con ese nombre")
		}
	}
	stored := *role
	stored.Users = nil
	r.s.data.roles[role.ID] = stored
	return nil
}

// Delete elimina el rol. Falla con ReferenceError si tiene usuarios.
func (r *RoleRepo) Delete(_ context.Context, id int64) error {
	defer r.s.lockWrite(r.tx)()
	if _, ok := r.s.data.roles[id]; !ok {
		return domain.ErrNotFound
	}
	for _, u := range r.s.data.users {
		if u.RoleID == id {
			return domain.Conflict("el rol tiene usuarios asociados")
		}
	}
	delete(r.s.data.roles, id)
	return nil
}
