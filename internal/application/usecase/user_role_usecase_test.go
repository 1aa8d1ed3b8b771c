package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/elaia-api/internal/application/dto"
	"github.com/jhoicas/elaia-api/internal/application/usecase"
	"github.com/jhoicas/elaia-api/internal/domain"
	"github.com/jhoicas/elaia-api/internal/domain/entity"
	"github.com/jhoicas/elaia-api/internal/infrastructure/memory"
)

func newUsers() (*usecase.UserUseCase, *usecase.RoleUseCase, *memory.UserRepo) {
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	roles := memory.NewRoleRepository(store)
	return usecase.NewUserUseCase(users, roles), usecase.NewRoleUseCase(roles), users
}

func newUserRequest(email string, roleID int64) dto.CreateUserRequest {
	return dto.CreateUserRequest{FirstName: "Ana", LastName: "Gómez", Email: email, Password: "secreto1", RoleID: roleID}
}

func TestUserCreate(t *testing.T) {
	uc, _, repo := newUsers()
	ctx := context.Background()

	out, err := uc.Create(ctx, newUserRequest(" Ana@Elaia.co ", 2))
	require.NoError(t, err)
	assert.Equal(t, "ana@elaia.co", out.Email)
	assert.Equal(t, entity.RoleClient, out.Role)

	stored, err := repo.GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secreto1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreto1")))

	_, err = uc.Create(ctx, newUserRequest("ana@elaia.co", 2))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.Create(ctx, newUserRequest("otro@elaia.co", 99))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserUpdate(t *testing.T) {
	uc, _, repo := newUsers()
	ctx := context.Background()
	ana, err := uc.Create(ctx, newUserRequest("ana@elaia.co", 2))
	require.NoError(t, err)
	_, err = uc.Create(ctx, newUserRequest("luis@elaia.co", 2))
	require.NoError(t, err)

	taken := "luis@elaia.co"
	_, err = uc.Update(ctx, ana.ID, dto.UpdateUserRequest{Email: &taken})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	same := "ana@elaia.co"
	role := int64(1)
	pass := "nuevo123"
	out, err := uc.Update(ctx, ana.ID, dto.UpdateUserRequest{Email: &same, RoleID: &role, Password: &pass})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, out.Role)

	stored, err := repo.GetByID(ctx, ana.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(pass)))

	_, err = uc.Update(ctx, 999, dto.UpdateUserRequest{Email: &same})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserDelete(t *testing.T) {
	uc, _, _ := newUsers()
	ctx := context.Background()
	ana, err := uc.Create(ctx, newUserRequest("ana@elaia.co", 2))
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, ana.ID))
	_, err = uc.GetByID(ctx, ana.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, ana.ID), domain.ErrNotFound)
}

func TestRole(t *testing.T) {
	users, roles, _ := newUsers()
	ctx := context.Background()

	_, err := roles.Create(ctx, dto.RoleRequest{Name: entity.RoleClient})
	assert.ErrorIs(t, err, domain.ErrConflict)

	vendedor, err := roles.Create(ctx, dto.RoleRequest{Name: "Vendedor"})
	require.NoError(t, err)

	_, err = users.Create(ctx, newUserRequest("ana@elaia.co", vendedor.ID))
	require.NoError(t, err)
	_, err = users.Create(ctx, newUserRequest("luis@elaia.co", vendedor.ID))
	require.NoError(t, err)

	list, err := roles.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for _, r := range list {
		if r.ID == vendedor.ID {
			assert.Len(t, r.Users, 2)
		}
	}

	err = roles.Delete(ctx, vendedor.ID)
	var ref *domain.ReferenceError
	require.ErrorAs(t, err, &ref)
	assert.Equal(t, 2, ref.Count)

	renamed, err := roles.Update(ctx, vendedor.ID, dto.RoleRequest{Name: "Ventas"})
	require.NoError(t, err)
	assert.Equal(t, "Ventas", renamed.Name)

	libre, err := roles.Create(ctx, dto.RoleRequest{Name: "Temporal"})
	require.NoError(t, err)
	require.NoError(t, roles.Delete(ctx, libre.ID))
	_, err = roles.GetByID(ctx, libre.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
