package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/elaia-api/internal/application/auth"
	"github.com/jhoicas/elaia-api/internal/application/order"
	"github.com/jhoicas/elaia-api/internal/application/usecase"
	"github.com/jhoicas/elaia-api/internal/domain/entity"
	"github.com/jhoicas/elaia-api/internal/infrastructure/memory"
	"github.com/jhoicas/elaia-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/elaia-api/internal/interfaces/http"
	"github.com/jhoicas/elaia-api/pkg/logger"
	"github.com/jhoicas/elaia-api/pkg/metrics"
)

const (
	adminEmail    = "admin@elaia.co"
	adminPassword = "admin123"
	roleAdminID   = 1
	roleClientID  = 2
)

// testAPI app completa sobre el almacén en memoria.
type testAPI struct {
	t   *testing.T
	app *fiber.App
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	roleRepo := memory.NewRoleRepository(store)
	categoryRepo := memory.NewCategoryRepository(store)
	productRepo := memory.NewProductRepository(store)
	orderRepo := memory.NewOrderRepository(store)
	txRunner := memory.NewTxRunner(store)

	hash, err := auth.HashPassword(adminPassword)
	require.NoError(t, err)
	now := time.Now()
	require.NoError(t, userRepo.Create(context.Background(), &entity.User{
		FirstName: "Ada", LastName: "Admin", Email: adminEmail, PasswordHash: hash,
		RoleID: roleAdminID, CreatedAt: now, UpdatedAt: now,
	}))

	m := metrics.NewHTTPMetrics(prometheus.NewRegistry())
	app := fiber.New()
	app.Use(apphttp.RequestLogger(logger.Nop(), m))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:     auth.NewAuthUseCase(userRepo, roleRepo, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		UserUC:     usecase.NewUserUseCase(userRepo, roleRepo),
		RoleUC:     usecase.NewRoleUseCase(roleRepo),
		CategoryUC: usecase.NewCategoryUseCase(categoryRepo),
		ProductUC:  usecase.NewProductUseCase(productRepo, txRunner),
		OrderUC:    order.NewUseCase(orderRepo, txRunner, pdf.NewReceiptGenerator("ELAIA")),
		Metrics:    m,
	})
	return &testAPI{t: t, app: app}
}

// do ejecuta la petición y decodifica la respuesta JSON en out (si no es nil).
func (a *testAPI) do(method, path, token string, body any, out any) int {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (a *testAPI) login(email, password string) (string, int64) {
	a.t.Helper()
	var out struct {
		Token string `json:"token"`
		User  struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	status := a.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": email, "password": password}, &out)
	require.Equal(a.t, http.StatusOK, status)
	require.NotEmpty(a.t, out.Token)
	return out.Token, out.User.ID
}

// registerClient registra un cliente y devuelve su token e id.
func (a *testAPI) registerClient(email string) (string, int64) {
	a.t.Helper()
	status := a.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"firstName": "Cliente", "lastName": "Prueba", "email": email, "password": "secreto1", "roleId": roleClientID,
	}, nil)
	require.Equal(a.t, http.StatusCreated, status)
	return a.login(email, "secreto1")
}

type idBody struct {
	ID int64 `json:"id"`
}

// seedCatalog crea una categoría y dos productos (1000 y 500).
func (a *testAPI) seedCatalog(adminToken string) (categoryID, p1, p2 int64) {
	a.t.Helper()
	var cat idBody
	require.Equal(a.t, http.StatusCreated, a.do(http.MethodPost, "/api/categories", adminToken, map[string]any{"name": "Velas"}, &cat))
	var prod1, prod2 idBody
	require.Equal(a.t, http.StatusCreated, a.do(http.MethodPost, "/api/products", adminToken, map[string]any{
		"name": "Vela lavanda", "price": 1000, "categoryIds": []int64{cat.ID},
	}, &prod1))
	require.Equal(a.t, http.StatusCreated, a.do(http.MethodPost, "/api/products", adminToken, map[string]any{
		"name": "Jabón avena", "price": 500, "categoryIds": []int64{cat.ID},
	}, &prod2))
	return cat.ID, prod1.ID, prod2.ID
}

type orderBody struct {
	ID     int64   `json:"id"`
	UserID int64   `json:"userId"`
	Total  float64 `json:"total"`
	Lines  []struct {
		Quantity  int     `json:"quantity"`
		UnitPrice float64 `json:"unitPrice"`
		Subtotal  float64 `json:"subtotal"`
	} `json:"lines"`
}

func (a *testAPI) createOrder(token string, p1, p2 int64) orderBody {
	a.t.Helper()
	var out orderBody
	status := a.do(http.MethodPost, "/api/orders", token, map[string]any{
		"lines": []map[string]any{
			{"productId": p1, "quantity": 2, "unitPrice": 1000},
			{"productId": p2, "quantity": 1, "unitPrice": 500},
		},
	}, &out)
	require.Equal(a.t, http.StatusCreated, status)
	return out
}

func TestCheckout_TotalDerivado(t *testing.T) {
	api := newTestAPI(t)
	adminToken, _ := api.login(adminEmail, adminPassword)
	_, p1, p2 := api.seedCatalog(adminToken)
	clientToken, clientID := api.registerClient("ana@elaia.co")

	created := api.createOrder(clientToken, p1, p2)
	assert.Equal(t, clientID, created.UserID)
	assert.Equal(t, 2500.0, created.Total)
	require.Len(t, created.Lines, 2)

	var fetched orderBody
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, fmt.Sprintf("/api/orders/%d", created.ID), clientToken, nil, &fetched))
	assert.Equal(t, 2500.0, fetched.Total)
}

func TestCheckout_PrecioCongelado(t *testing.T) {
	api := newTestAPI(t)
	adminToken, _ := api.login(adminEmail, adminPassword)
	_, p1, p2 := api.seedCatalog(adminToken)
	clientToken, _ := api.registerClient("ana@elaia.co")
	created := api.createOrder(clientToken, p1, p2)

	require.Equal(t, http.StatusOK, api.do(http.MethodPut, fmt.Sprintf("/api/products/%d", p1), adminToken, map[string]any{"price": 9999}, nil))

	var fetched orderBody
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, fmt.Sprintf("/api/orders/%d", created.ID), clientToken, nil, &fetched))
	assert.Equal(t, 2500.0, fetched.Total, "el cambio de precio del catálogo no afecta pedidos existentes")
}

func TestCreateOrder_Defaults(t *testing.T) {
	api := newTestAPI(t)
	adminToken, _ := api.login(adminEmail, adminPassword)
	_, p1, _ := api.seedCatalog(adminToken)
	clientToken, _ := api.registerClient("ana@elaia.co")

	var out orderBody
	status := api.do(http.MethodPost, "/api/orders", clientToken, map[string]any{
		"lines": []map[string]any{{"productId": p1}},
	}, &out)
	require.Equal(t, http.StatusCreated, status)
	require.Len(t, out.Lines, 1)
	assert.Equal(t, 1, out.Lines[0].Quantity)
	assert.Equal(t, 0.0, out.Lines[0].UnitPrice)
	assert.Equal(t, 0.0, out.Total)
}

func TestCreateOrder_ProductoInexistente(t *testing.T) {
	api := newTestAPI(t)
	clientToken, _ := api.registerClient("ana@elaia.co")

	status := api.do(http.MethodPost, "/api/orders", clientToken, map[string]any{
		"lines": []map[string]any{{"productId": 999, "quantity": 1, "unitPrice": 10}},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	var list struct {
		TotalCount int `json:"totalCount"`
	}
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/orders", clientToken, nil, &list))
	assert.Zero(t, list.TotalCount, "no debe quedar una cabecera huérfana")
}

func TestCreateOrder_SinLineas(t *testing.T) {
	api := newTestAPI(t)
	clientToken, _ := api.registerClient("ana@elaia.co")

	status := api.do(http.MethodPost, "/api/orders", clientToken, map[string]any{"lines": []any{}}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCreateOrder_LineasFueraDeRango(t *testing.T) {
	api := newTestAPI(t)
	clientToken, _ := api.registerClient("ana@elaia.co")

	for name, line := range map[string]map[string]any{
		"cantidad":         {"productId": 1, "quantity": 3000000000, "unitPrice": 1},
		"precio decimales": {"productId": 1, "quantity": 3, "unitPrice": 0.333},
		"precio enorme":    {"productId": 1, "quantity": 1, "unitPrice": "123456789012.5"},
	} {
		status := api.do(http.MethodPost, "/api/orders", clientToken, map[string]any{"lines": []any{line}}, nil)
		assert.Equal(t, http.StatusBadRequest, status, name)
	}
}

func TestListOrders_Visibilidad(t *testing.T) {
	api := newTestAPI(t)
	adminToken, _ := api.login(adminEmail, adminPassword)
	_, p1, p2 := api.seedCatalog(adminToken)
	anaToken, anaID := api.registerClient("ana@elaia.co")
	luisToken, luisID := api.registerClient("luis@elaia.co")
	api.createOrder(anaToken, p1, p2)
	api.createOrder(luisToken, p1, p2)
	api.createOrder(luisToken, p1, p2)

	type listBody struct {
		Orders     []orderBody `json:"orders"`
		TotalCount int         `json:"totalCount"`
		Filters    struct {
			UserID *int64 `json:"userId"`
		} `json:"filters"`
	}

	t.Run("cliente solo ve los suyos", func(t *testing.T) {
		var out listBody
		require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/orders", anaToken, nil, &out))
		assert.Equal(t, 1, out.TotalCount)
		require.NotNil(t, out.Filters.UserID)
		assert.Equal(t, anaID, *out.Filters.UserID)
		for _, o := range out.Orders {
			assert.Equal(t, anaID, o.UserID)
		}
	})

	t.Run("cliente pidiendo otro usuario recibe 403", func(t *testing.T) {
		status := api.do(http.MethodGet, fmt.Sprintf("/api/orders?targetUserId=%d", luisID), anaToken, nil, nil)
		assert.Equal(t, http.StatusForbidden, status)
		status = api.do(http.MethodGet, fmt.Sprintf("/api/orders/user/%d", luisID), anaToken, nil, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("admin filtra por usuario", func(t *testing.T) {
		var out listBody
		require.Equal(t, http.StatusOK, api.do(http.MethodGet, fmt.Sprintf("/api/orders?targetUserId=%d", luisID), adminToken, nil, &out))
		assert.Equal(t, 2, out.TotalCount)
		for _, o := range out.Orders {
			assert.Equal(t, luisID, o.UserID)
		}
	})

	t.Run("admin ve todos", func(t *testing.T) {
		var out listBody
		require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/orders?limit=2", adminToken, nil, &out))
		assert.Equal(t, 3, out.TotalCount)
		assert.Len(t, out.Orders, 2)
		assert.Nil(t, out.Filters.UserID)
	})
}

func TestGetOrder_AjenoRetorna404(t *testing.T) {
	api := newTestAPI(t)
	adminToken, _ := api.login(adminEmail, adminPassword)
	_, p1, p2 := api.seedCatalog(adminToken)
	anaToken, _ := api.registerClient("ana@elaia.co")
	luisToken, _ := api.registerClient("luis@elaia.co")
	luisOrder := api.createOrder(luisToken, p1, p2)

	path := fmt.Sprintf("/api/orders/%d", luisOrder.ID)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, path, anaToken, nil, nil))
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodDelete, path, anaToken, nil, nil))
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, path, adminToken, nil, nil))
}

func TestReceipt_PDF(t *testing.T) {
	api := newTestAPI(t)
	adminToken, _ := api.login(adminEmail, adminPassword)
	_, p1, p2 := api.seedCatalog(adminToken)
	clientToken, _ := api.registerClient("ana@elaia.co")
	created := api.createOrder(clientToken, p1, p2)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/orders/%d/receipt", created.ID), nil)
	req.Header.Set("Authorization", "Bearer "+clientToken)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestDeleteGuards_Conflicto(t *testing.T) {
	api := newTestAPI(t)
	adminToken, _ := api.login(adminEmail, adminPassword)
	catID, p1, p2 := api.seedCatalog(adminToken)
	clientToken, _ := api.registerClient("ana@elaia.co")
	api.createOrder(clientToken, p1, p2)

	type conflictBody struct {
		Code  string `json:"code"`
		Count int    `json:"count"`
	}

	t.Run("categoría con productos", func(t *testing.T) {
		var out conflictBody
		assert.Equal(t, http.StatusConflict, api.do(http.MethodDelete, fmt.Sprintf("/api/categories/%d", catID), adminToken, nil, &out))
		assert.Equal(t, "HAS_REFERENCES", out.Code)
		assert.Equal(t, 2, out.Count)
	})

	t.Run("producto con líneas de pedido", func(t *testing.T) {
		var out conflictBody
		assert.Equal(t, http.StatusConflict, api.do(http.MethodDelete, fmt.Sprintf("/api/products/%d", p1), adminToken, nil, &out))
		assert.Equal(t, 1, out.Count)
	})

	t.Run("rol con usuarios", func(t *testing.T) {
		var out conflictBody
		assert.Equal(t, http.StatusConflict, api.do(http.MethodDelete, fmt.Sprintf("/api/roles/%d", roleClientID), adminToken, nil, &out))
		assert.Equal(t, 1, out.Count)
	})
}

func TestUpdateProduct_CategoriasVacias(t *testing.T) {
	api := newTestAPI(t)
	adminToken, _ := api.login(adminEmail, adminPassword)
	_, p1, _ := api.seedCatalog(adminToken)

	status := api.do(http.MethodPut, fmt.Sprintf("/api/products/%d", p1), adminToken, map[string]any{
		"name": "Otro nombre", "categoryIds": []int64{},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	var prod struct {
		Name       string `json:"name"`
		Categories []struct {
			ID int64 `json:"id"`
		} `json:"categories"`
	}
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, fmt.Sprintf("/api/products/%d", p1), "", nil, &prod))
	assert.Equal(t, "Vela lavanda", prod.Name, "la actualización rechazada no escribe nada")
	assert.Len(t, prod.Categories, 1)
}

func TestCatalog_EscrituraSoloAdmin(t *testing.T) {
	api := newTestAPI(t)
	clientToken, _ := api.registerClient("ana@elaia.co")

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/api/categories", clientToken, map[string]any{"name": "X"}, nil))
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/api/categories", "", map[string]any{"name": "X"}, nil))
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/categories", "", nil, nil))
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/products", "", nil, nil))
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, "/api/users", clientToken, nil, nil))
}

func TestAuth_RegistroYLogin(t *testing.T) {
	api := newTestAPI(t)
	api.registerClient("ana@elaia.co")

	t.Run("email duplicado", func(t *testing.T) {
		status := api.do(http.MethodPost, "/api/auth/register", "", map[string]any{
			"firstName": "Otra", "lastName": "Ana", "email": "ANA@elaia.co", "password": "secreto1", "roleId": roleClientID,
		}, nil)
		assert.Equal(t, http.StatusConflict, status)
	})

	t.Run("rol inexistente", func(t *testing.T) {
		status := api.do(http.MethodPost, "/api/auth/register", "", map[string]any{
			"firstName": "Eva", "lastName": "Ruiz", "email": "eva@elaia.co", "password": "secreto1", "roleId": 99,
		}, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("password de más de 72 bytes", func(t *testing.T) {
		status := api.do(http.MethodPost, "/api/auth/register", "", map[string]any{
			"firstName": "Eva", "lastName": "Ruiz", "email": "eva@elaia.co", "password": strings.Repeat("ñ", 40), "roleId": roleClientID,
		}, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("email desconocido", func(t *testing.T) {
		status := api.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": "nadie@elaia.co", "password": "x"}, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("password incorrecto", func(t *testing.T) {
		status := api.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ana@elaia.co", "password": "malo123"}, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("validación", func(t *testing.T) {
		var out struct {
			Code string `json:"code"`
		}
		status := api.do(http.MethodPost, "/api/auth/register", "", map[string]any{"email": "no-es-email"}, &out)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION", out.Code)
	})
}
