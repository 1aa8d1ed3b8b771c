package repository

import (
	"context"

	"github.com/jhoicas/elaia-api/internal/domain/entity"
)

// OrderFilter predicado de lectura de pedidos. OwnerID nil = todos los usuarios.
type OrderFilter struct {
	OwnerID *int64
	Limit   *int
	Offset  *int
}

// OrderRepository define el puerto de persistencia para Order y sus líneas.
type OrderRepository interface {
	// Create inserta la cabecera y asigna ID.
	Create(ctx context.Context, order *entity.Order) error
	// CreateLines inserta todas las líneas en bloque.
	CreateLines(ctx context.Context, lines []entity.OrderLine) error
	// Get carga el pedido con usuario, líneas y productos. Si ownerID no es nil
	// el pedido debe además pertenecer a ese usuario. (nil, nil) si no hay fila.
	Get(ctx context.Context, id int64, ownerID *int64) (*entity.Order, error)
	// List devuelve la página pedida (más recientes primero) y el total sin paginar.
	List(ctx context.Context, f OrderFilter) ([]*entity.Order, int, error)
	// Delete elimina la cabecera; las líneas caen por cascada en el almacén.
	Delete(ctx context.Context, id int64) error
}
