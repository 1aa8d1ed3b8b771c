package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea solicitada. Quantity 0 u omitida equivale a 1; UnitPrice omitido equivale a 0.
type OrderLineRequest struct {
	ProductID int64            `json:"productId" validate:"required,gt=0"`
	Quantity  int              `json:"quantity" validate:"gte=0,lte=2147483647"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
}

// CreateOrderRequest entrada para crear un pedido a nombre de quien llama.
type CreateOrderRequest struct {
	Lines []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// OrderQuery filtros del listado. TargetUserID solo lo puede usar un admin o el propio dueño.
type OrderQuery struct {
	TargetUserID *int64
	Limit        *int
	Offset       *int
}

// OrderLineResponse línea con el precio congelado y su subtotal.
type OrderLineResponse struct {
	ID        int64            `json:"id"`
	ProductID int64            `json:"productId"`
	Quantity  int              `json:"quantity"`
	UnitPrice float64          `json:"unitPrice"`
	Subtotal  float64          `json:"subtotal"`
	Product   *ProductResponse `json:"product,omitempty"`
}

// OrderResponse pedido completo. Total se deriva de las líneas en cada lectura.
type OrderResponse struct {
	ID        int64               `json:"id"`
	UserID    int64               `json:"userId"`
	User      *UserSummary        `json:"user,omitempty"`
	Lines     []OrderLineResponse `json:"lines"`
	Total     float64             `json:"total"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// OrderFilters eco de los filtros efectivamente aplicados.
type OrderFilters struct {
	UserID *int64 `json:"userId"`
	Limit  *int   `json:"limit"`
	Offset *int   `json:"offset"`
}

// OrderListResponse listado de pedidos con total sin paginar.
type OrderListResponse struct {
	Orders     []OrderResponse `json:"orders"`
	TotalCount int             `json:"totalCount"`
	Filters    OrderFilters    `json:"filters"`
}
