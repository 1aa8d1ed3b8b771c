package order_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/elaia-api/internal/application/dto"
	"github.com/jhoicas/elaia-api/internal/application/order"
	"github.com/jhoicas/elaia-api/internal/domain"
	"github.com/jhoicas/elaia-api/internal/domain/entity"
	"github.com/jhoicas/elaia-api/internal/infrastructure/memory"
)

type fakeReceipt struct{ rendered *entity.Order }

func (f *fakeReceipt) Render(o *entity.Order) ([]byte, error) {
	f.rendered = o
	return []byte("%PDF-fake"), nil
}

type fixture struct {
	uc       *order.UseCase
	store    *memory.Store
	receipt  *fakeReceipt
	admin    entity.Identity
	ana      entity.Identity
	luis     entity.Identity
	vela     int64
	jabon    int64
	products *memory.ProductRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	categories := memory.NewCategoryRepository(store)
	products := memory.NewProductRepository(store)

	now := time.Now()
	mkUser := func(email string, roleID int64) int64 {
		u := &entity.User{FirstName: "N", LastName: "A", Email: email, PasswordHash: "x", RoleID: roleID, CreatedAt: now, UpdatedAt: now}
		require.NoError(t, users.Create(ctx, u))
		return u.ID
	}
	adminID := mkUser("admin@elaia.co", 1)
	anaID := mkUser("ana@elaia.co", 2)
	luisID := mkUser("luis@elaia.co", 2)

	cat := &entity.Category{Name: "Velas", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, categories.Create(ctx, cat))
	mkProduct := func(name, price string) int64 {
		p := &entity.Product{Name: name, Price: decimal.RequireFromString(price), CreatedAt: now, UpdatedAt: now}
		require.NoError(t, products.Create(ctx, p))
		require.NoError(t, products.SetCategories(ctx, p.ID, []int64{cat.ID}))
		return p.ID
	}

	receipt := &fakeReceipt{}
	return &fixture{
		uc:       order.NewUseCase(memory.NewOrderRepository(store), memory.NewTxRunner(store), receipt),
		store:    store,
		receipt:  receipt,
		admin:    entity.Identity{UserID: adminID, Email: "admin@elaia.co", Role: entity.RoleAdmin},
		ana:      entity.Identity{UserID: anaID, Email: "ana@elaia.co", Role: entity.RoleClient},
		luis:     entity.Identity{UserID: luisID, Email: "luis@elaia.co", Role: entity.RoleClient},
		vela:     mkProduct("Vela", "1000"),
		jabon:    mkProduct("Jabón", "500"),
		products: products,
	}
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func (f *fixture) checkout(t *testing.T, caller entity.Identity) *dto.OrderResponse {
	t.Helper()
	out, err := f.uc.Create(context.Background(), caller, dto.CreateOrderRequest{Lines: []dto.OrderLineRequest{
		{ProductID: f.vela, Quantity: 2, UnitPrice: price("1000")},
		{ProductID: f.jabon, Quantity: 1, UnitPrice: price("500")},
	}})
	require.NoError(t, err)
	return out
}

func TestCreate_TotalYDueño(t *testing.T) {
	f := newFixture(t)
	out := f.checkout(t, f.ana)

	assert.Equal(t, f.ana.UserID, out.UserID)
	assert.Equal(t, 2500.0, out.Total)
	require.Len(t, out.Lines, 2)
	assert.Equal(t, 2000.0, out.Lines[0].Subtotal)
	require.NotNil(t, out.User)
	assert.Equal(t, "ana@elaia.co", out.User.Email)
}

func TestCreate_Defaults(t *testing.T) {
	f := newFixture(t)
	out, err := f.uc.Create(context.Background(), f.ana, dto.CreateOrderRequest{Lines: []dto.OrderLineRequest{{ProductID: f.vela}}})
	require.NoError(t, err)
	require.Len(t, out.Lines, 1)
	assert.Equal(t, 1, out.Lines[0].Quantity)
	assert.Equal(t, 0.0, out.Lines[0].UnitPrice)
}

func TestCreate_Invalidos(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name  string
		lines []dto.OrderLineRequest
	}{
		{"sin líneas", nil},
		{"cantidad negativa", []dto.OrderLineRequest{{ProductID: f.vela, Quantity: -1}}},
		{"precio negativo", []dto.OrderLineRequest{{ProductID: f.vela, Quantity: 1, UnitPrice: price("-1")}}},
		{"producto inexistente", []dto.OrderLineRequest{{ProductID: 999, Quantity: 1}}},
		{"producto repetido", []dto.OrderLineRequest{{ProductID: f.vela}, {ProductID: f.vela}}},
		{"cantidad fuera de INTEGER", []dto.OrderLineRequest{{ProductID: f.vela, Quantity: 4294967297, UnitPrice: price("1")}}},
		{"cantidad justo sobre el máximo", []dto.OrderLineRequest{{ProductID: f.vela, Quantity: entity.MaxQuantity + 1}}},
		{"precio con tres decimales", []dto.OrderLineRequest{{ProductID: f.vela, Quantity: 3, UnitPrice: price("0.333")}}},
		{"precio fuera de NUMERIC(12,2)", []dto.OrderLineRequest{{ProductID: f.vela, Quantity: 1, UnitPrice: price("123456789012.5")}}},
		{"precio igual al límite", []dto.OrderLineRequest{{ProductID: f.vela, Quantity: 1, UnitPrice: price("10000000000")}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Create(context.Background(), f.ana, dto.CreateOrderRequest{Lines: tc.lines})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	list, err := f.uc.List(context.Background(), f.admin, dto.OrderQuery{})
	require.NoError(t, err)
	assert.Zero(t, list.TotalCount, "ningún intento fallido deja pedidos")
}

func TestCreate_LimitesAceptados(t *testing.T) {
	f := newFixture(t)
	out, err := f.uc.Create(context.Background(), f.ana, dto.CreateOrderRequest{Lines: []dto.OrderLineRequest{
		{ProductID: f.vela, Quantity: entity.MaxQuantity, UnitPrice: price("0.01")},
		{ProductID: f.jabon, Quantity: 1, UnitPrice: price("9999999999.99")},
	}})
	require.NoError(t, err)
	require.Len(t, out.Lines, 2)
	assert.Equal(t, entity.MaxQuantity, out.Lines[0].Quantity)
	assert.Equal(t, 9999999999.99, out.Lines[1].UnitPrice)
}

func TestCreate_PrecioNoSeReleeDelCatalogo(t *testing.T) {
	f := newFixture(t)
	out := f.checkout(t, f.ana)

	p, err := f.products.GetByID(context.Background(), f.vela)
	require.NoError(t, err)
	p.Price = decimal.RequireFromString("9999")
	require.NoError(t, f.products.Update(context.Background(), p))

	again, err := f.uc.GetByID(context.Background(), f.ana, out.ID)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, again.Total)
}

func TestList_Visibilidad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.checkout(t, f.ana)
	f.checkout(t, f.luis)
	f.checkout(t, f.luis)

	own, err := f.uc.List(ctx, f.ana, dto.OrderQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, own.TotalCount)
	require.NotNil(t, own.Filters.UserID)
	assert.Equal(t, f.ana.UserID, *own.Filters.UserID)

	self := f.ana.UserID
	sameTarget, err := f.uc.List(ctx, f.ana, dto.OrderQuery{TargetUserID: &self})
	require.NoError(t, err)
	assert.Equal(t, 1, sameTarget.TotalCount)

	other := f.luis.UserID
	_, err = f.uc.List(ctx, f.ana, dto.OrderQuery{TargetUserID: &other})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	filtered, err := f.uc.List(ctx, f.admin, dto.OrderQuery{TargetUserID: &other})
	require.NoError(t, err)
	assert.Equal(t, 2, filtered.TotalCount)
	for _, o := range filtered.Orders {
		assert.Equal(t, other, o.UserID)
	}

	all, err := f.uc.List(ctx, f.admin, dto.OrderQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.TotalCount)
	assert.Nil(t, all.Filters.UserID)
	require.Len(t, all.Orders, 3)
	assert.Greater(t, all.Orders[0].ID, all.Orders[2].ID, "más recientes primero")
}

func TestList_Paginacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		f.checkout(t, f.ana)
	}
	limit, offset := 2, 2
	page, err := f.uc.List(ctx, f.ana, dto.OrderQuery{Limit: &limit, Offset: &offset})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalCount)
	assert.Len(t, page.Orders, 1)

	neg := -1
	_, err = f.uc.List(ctx, f.ana, dto.OrderQuery{Limit: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetDeleteReceipt_SoloDueñoOAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	luisOrder := f.checkout(t, f.luis)

	_, err := f.uc.GetByID(ctx, f.ana, luisOrder.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.Receipt(ctx, f.ana, luisOrder.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.uc.Delete(ctx, f.ana, luisOrder.ID), domain.ErrNotFound)

	pdf, err := f.uc.Receipt(ctx, f.luis, luisOrder.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	require.NotNil(t, f.receipt.rendered)
	assert.Equal(t, luisOrder.ID, f.receipt.rendered.ID)

	got, err := f.uc.GetByID(ctx, f.admin, luisOrder.ID)
	require.NoError(t, err)
	assert.Equal(t, f.luis.UserID, got.UserID)

	require.NoError(t, f.uc.Delete(ctx, f.admin, luisOrder.ID))
	_, err = f.uc.GetByID(ctx, f.admin, luisOrder.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRolConMayusculasDistintasNoEsAdmin(t *testing.T) {
	f := newFixture(t)
	f.checkout(t, f.luis)
	fake := entity.Identity{UserID: f.ana.UserID, Role: "administrador"}

	other := f.luis.UserID
	_, err := f.uc.List(context.Background(), fake, dto.OrderQuery{TargetUserID: &other})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
