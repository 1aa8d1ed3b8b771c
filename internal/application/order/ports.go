package order

import (
	"context"

	"github.com/jhoicas/elaia-api/internal/domain/entity"
	"github.com/jhoicas/elaia-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con los repos que participan en la creación de pedidos.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
	) error) error
}

// ReceiptRenderer genera el comprobante (PDF) de un pedido ya cargado con líneas y productos.
type ReceiptRenderer interface {
	Render(order *entity.Order) ([]byte, error)
}
