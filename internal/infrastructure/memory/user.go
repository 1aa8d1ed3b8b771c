package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/elaia-api/internal/domain"
	"github.com/jhoicas/elaia-api/internal/domain/entity"
	"github.com/jhoicas/elaia-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo UserRepository en memoria.
type UserRepo struct {
	s  *Store
	tx bool // creado por TxRunner, que ya tiene txMu
}

// NewUserRepository construye el repositorio de usuarios sobre el store.
func NewUserRepository(s *Store) *UserRepo { return &UserRepo{s: s} }

// Create inserta el usuario y asigna su ID. Email único y rol existente.
func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	defer r.s.lockWrite(r.tx)()
	if err := r.check(user); err != nil {
		return err
	}
	user.ID = r.s.data.next("users")
	r.s.data.users[user.ID] = *user
	return nil
}

// GetByID obtiene un usuario con su rol; nil si no existe.
func (r *UserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, nil
	}
	return r.s.data.userWithRole(u), nil
}

// GetByEmail busca por email exacto; nil si no existe.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.data.users {
		if u.Email == email {
			return r.s.data.userWithRole(u), nil
		}
	}
	return nil, nil
}

// List lista todos los usuarios por ID.
func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.User, 0, len(r.s.data.users))
	for _, u := range r.s.data.users {
		list = append(list, r.s.data.userWithRole(u))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// Update reemplaza el usuario completo.
func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	defer r.s.lockWrite(r.tx)()
	if _, ok := r.s.data.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	if err := r.check(user); err != nil {
		return err
	}
	r.s.data.users[user.ID] = *user
	return nil
}

// Delete elimina el usuario y en cascada sus pedidos con sus líneas.
func (r *UserRepo) Delete(_ context.Context, id int64) error {
	defer r.s.lockWrite(r.tx)()
	if _, ok := r.s.data.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	for oid, o := range r.s.data.orders {
		if o.UserID == id {
			r.s.data.deleteOrder(oid)
		}
	}
	delete(r.s.data.users, id)
	return nil
}

// check mismas restricciones que la base: email único y rol existente.
func (r *UserRepo) check(user *entity.User) error {
	for _, other := range r.s.data.users {
		if other.Email == user.Email && other.ID != user.ID {
			return domain.ErrEmailAlreadyExists
		}
	}
	if _, ok := r.s.data.roles[user.RoleID]; !ok {
		return domain.NotFound("el rol indicado no existe")
	}
	return nil
}
