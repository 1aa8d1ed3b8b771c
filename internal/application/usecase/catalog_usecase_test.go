package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/elaia-api/internal/application/dto"
	"github.com/jhoicas/elaia-api/internal/application/usecase"
	"github.com/jhoicas/elaia-api/internal/domain"
	"github.com/jhoicas/elaia-api/internal/domain/entity"
	"github.com/jhoicas/elaia-api/internal/infrastructure/memory"
)

type catalog struct {
	store      *memory.Store
	products   *usecase.ProductUseCase
	categories *usecase.CategoryUseCase
}

func newCatalog() *catalog {
	store := memory.NewStore()
	return &catalog{
		store:      store,
		products:   usecase.NewProductUseCase(memory.NewProductRepository(store), memory.NewTxRunner(store)),
		categories: usecase.NewCategoryUseCase(memory.NewCategoryRepository(store)),
	}
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func (c *catalog) category(t *testing.T, name string) int64 {
	t.Helper()
	out, err := c.categories.Create(context.Background(), dto.CategoryRequest{Name: name})
	require.NoError(t, err)
	return out.ID
}

func (c *catalog) product(t *testing.T, name string, categoryIDs ...int64) int64 {
	t.Helper()
	out, err := c.products.Create(context.Background(), dto.CreateProductRequest{Name: name, Price: dec("1000"), CategoryIDs: categoryIDs})
	require.NoError(t, err)
	return out.ID
}

func TestProductCreate(t *testing.T) {
	c := newCatalog()
	ctx := context.Background()
	velas := c.category(t, "Velas")
	aromas := c.category(t, "Aromas")

	out, err := c.products.Create(ctx, dto.CreateProductRequest{
		Name: "  Vela lavanda ", Price: dec("12.50"), CategoryIDs: []int64{velas, aromas, velas},
	})
	require.NoError(t, err)
	assert.Equal(t, "Vela lavanda", out.Name)
	assert.Equal(t, 12.5, out.Price)
	assert.Len(t, out.Categories, 2, "los ids repetidos se ignoran")

	t.Run("sin precio", func(t *testing.T) {
		_, err := c.products.Create(ctx, dto.CreateProductRequest{Name: "X", CategoryIDs: []int64{velas}})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("precio negativo", func(t *testing.T) {
		_, err := c.products.Create(ctx, dto.CreateProductRequest{Name: "X", Price: dec("-1"), CategoryIDs: []int64{velas}})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("precio con tres decimales", func(t *testing.T) {
		_, err := c.products.Create(ctx, dto.CreateProductRequest{Name: "X", Price: dec("0.333"), CategoryIDs: []int64{velas}})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("precio fuera de rango", func(t *testing.T) {
		_, err := c.products.Create(ctx, dto.CreateProductRequest{Name: "X", Price: dec("10000000000"), CategoryIDs: []int64{velas}})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("sin categorías", func(t *testing.T) {
		_, err := c.products.Create(ctx, dto.CreateProductRequest{Name: "X", Price: dec("1")})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("categoría inexistente no deja producto", func(t *testing.T) {
		_, err := c.products.Create(ctx, dto.CreateProductRequest{Name: "Huérfano", Price: dec("1"), CategoryIDs: []int64{velas, 999}})
		assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

		list, err := c.products.List(ctx, dto.ProductQuery{Search: "Huérfano"})
		require.NoError(t, err)
		assert.Zero(t, list.Total)
	})
}

func TestProductUpdate(t *testing.T) {
	c := newCatalog()
	ctx := context.Background()
	velas := c.category(t, "Velas")
	jabones := c.category(t, "Jabones")
	id := c.product(t, "Vela", velas)

	t.Run("categorías vacías se rechazan sin escribir", func(t *testing.T) {
		name := "Cambiado"
		empty := []int64{}
		_, err := c.products.Update(ctx, id, dto.UpdateProductRequest{Name: &name, CategoryIDs: &empty})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		got, err := c.products.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Vela", got.Name)
		assert.Len(t, got.Categories, 1)
	})

	t.Run("reemplaza categorías", func(t *testing.T) {
		ids := []int64{jabones}
		out, err := c.products.Update(ctx, id, dto.UpdateProductRequest{CategoryIDs: &ids})
		require.NoError(t, err)
		require.Len(t, out.Categories, 1)
		assert.Equal(t, jabones, out.Categories[0].ID)
	})

	t.Run("categoría inexistente revierte", func(t *testing.T) {
		name := "No aplica"
		ids := []int64{999}
		_, err := c.products.Update(ctx, id, dto.UpdateProductRequest{Name: &name, CategoryIDs: &ids})
		assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

		got, err := c.products.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Vela", got.Name)
	})

	t.Run("parcial conserva categorías", func(t *testing.T) {
		out, err := c.products.Update(ctx, id, dto.UpdateProductRequest{Price: dec("20")})
		require.NoError(t, err)
		assert.Equal(t, 20.0, out.Price)
		assert.Len(t, out.Categories, 1)
	})

	t.Run("precio inválido no escribe", func(t *testing.T) {
		for _, p := range []string{"1.001", "123456789012.5"} {
			_, err := c.products.Update(ctx, id, dto.UpdateProductRequest{Price: dec(p)})
			assert.ErrorIs(t, err, domain.ErrInvalidInput, p)
		}
		got, err := c.products.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 20.0, got.Price)
	})

	t.Run("inexistente", func(t *testing.T) {
		_, err := c.products.Update(ctx, 999, dto.UpdateProductRequest{Price: dec("1")})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestProductDelete_ConLineasDePedido(t *testing.T) {
	c := newCatalog()
	ctx := context.Background()
	velas := c.category(t, "Velas")
	id := c.product(t, "Vela", velas)

	now := time.Now()
	users := memory.NewUserRepository(c.store)
	u := &entity.User{Email: "ana@elaia.co", RoleID: 2, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, users.Create(ctx, u))
	orders := memory.NewOrderRepository(c.store)
	o := &entity.Order{UserID: u.ID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, orders.Create(ctx, o))
	require.NoError(t, orders.CreateLines(ctx, []entity.OrderLine{
		{OrderID: o.ID, ProductID: id, Quantity: 1, UnitPrice: decimal.NewFromInt(1)},
	}))

	err := c.products.Delete(ctx, id)
	var ref *domain.ReferenceError
	require.ErrorAs(t, err, &ref)
	assert.Equal(t, 1, ref.Count)
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, orders.Delete(ctx, o.ID))
	require.NoError(t, c.products.Delete(ctx, id))
	assert.ErrorIs(t, c.products.Delete(ctx, id), domain.ErrNotFound)
}

func TestProductList_Filtros(t *testing.T) {
	c := newCatalog()
	ctx := context.Background()
	velas := c.category(t, "Velas aromáticas")
	jabones := c.category(t, "Jabones")
	c.product(t, "Vela lavanda", velas)
	c.product(t, "Vela canela", velas)
	c.product(t, "Jabón de avena", jabones)

	bySearch, err := c.products.List(ctx, dto.ProductQuery{Search: "VELA"})
	require.NoError(t, err)
	assert.Equal(t, 2, bySearch.Total)

	byCategory, err := c.products.List(ctx, dto.ProductQuery{Category: "jabon"})
	require.NoError(t, err)
	assert.Equal(t, 1, byCategory.Total)
	assert.Equal(t, "jabon", byCategory.Filters.Category)

	limit := 1
	paged, err := c.products.List(ctx, dto.ProductQuery{Limit: &limit})
	require.NoError(t, err)
	assert.Equal(t, 3, paged.Total)
	assert.Len(t, paged.Products, 1)

	neg := -1
	_, err = c.products.List(ctx, dto.ProductQuery{Offset: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCategory(t *testing.T) {
	c := newCatalog()
	ctx := context.Background()
	velas := c.category(t, "Velas")

	_, err := c.categories.Create(ctx, dto.CategoryRequest{Name: "Velas"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = c.categories.Create(ctx, dto.CategoryRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	renamed, err := c.categories.Update(ctx, velas, dto.CategoryRequest{Name: "Velas"})
	require.NoError(t, err, "conservar el propio nombre no es conflicto")
	assert.Equal(t, "Velas", renamed.Name)

	c.product(t, "Vela", velas)
	detail, err := c.categories.GetByID(ctx, velas)
	require.NoError(t, err)
	assert.Len(t, detail.Products, 1)

	err = c.categories.Delete(ctx, velas)
	var ref *domain.ReferenceError
	require.ErrorAs(t, err, &ref)
	assert.Equal(t, 1, ref.Count)

	empty := c.category(t, "Vacía")
	require.NoError(t, c.categories.Delete(ctx, empty))
	_, err = c.categories.GetByID(ctx, empty)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
