package order

import (
	"context"
	"time"

	"github.com/jhoicas/elaia-api/internal/application/dto"
	"github.com/jhoicas/elaia-api/internal/domain"
	"github.com/jhoicas/elaia-api/internal/domain/entity"
	"github.com/jhoicas/elaia-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// UseCase casos de uso de pedidos. Un cliente solo ve y borra sus propios pedidos;
// el administrador ve todos y puede filtrar por usuario.
type UseCase struct {
	repo     repository.OrderRepository
	txRunner TxRunner
	receipt  ReceiptRenderer
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.OrderRepository, txRunner TxRunner, receipt ReceiptRenderer) *UseCase {
	return &UseCase{repo: repo, txRunner: txRunner, receipt: receipt}
}

// Create crea el pedido a nombre de quien llama. Cabecera y líneas se insertan en una sola transacción.
// Los precios unitarios se guardan tal como llegan y no se vuelven a leer del catálogo.
func (uc *UseCase) Create(ctx context.Context, caller entity.Identity, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.InvalidInput("el pedido debe tener al menos una línea")
	}
	lines := make([]entity.OrderLine, 0, len(in.Lines))
	productIDs := make([]int64, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.ProductID <= 0 {
			return nil, domain.InvalidInput("productId inválido")
		}
		if l.Quantity < 0 {
			return nil, domain.InvalidInput("la cantidad no puede ser negativa")
		}
		if l.Quantity > entity.MaxQuantity {
			return nil, domain.InvalidInput("la cantidad excede el máximo permitido")
		}
		qty := l.Quantity
		if qty == 0 {
			qty = 1
		}
		price := decimal.Zero
		if l.UnitPrice != nil {
			price = *l.UnitPrice
		}
		if price.IsNegative() {
			return nil, domain.InvalidInput("el precio unitario no puede ser negativo")
		}
		if !entity.ValidMoney(price) {
			return nil, domain.InvalidInput("el precio unitario admite máximo 2 decimales y debe ser menor a 10.000.000.000")
		}
		lines = append(lines, entity.OrderLine{ProductID: l.ProductID, Quantity: qty, UnitPrice: price})
		productIDs = append(productIDs, l.ProductID)
	}

	var created *entity.Order
	err := uc.txRunner.RunOrder(ctx, func(productRepo repository.ProductRepository, orderRepo repository.OrderRepository) error {
		// Un id repetido cuenta como faltante: la búsqueda devuelve filas únicas.
		products, err := productRepo.GetByIDs(ctx, productIDs)
		if err != nil {
			return err
		}
		if len(products) != len(productIDs) {
			return domain.InvalidInput("uno o más productos no existen o están repetidos")
		}

		now := time.Now()
		o := &entity.Order{UserID: caller.UserID, CreatedAt: now, UpdatedAt: now}
		if err := orderRepo.Create(ctx, o); err != nil {
			return err
		}
		for i := range lines {
			lines[i].OrderID = o.ID
		}
		if err := orderRepo.CreateLines(ctx, lines); err != nil {
			return err
		}
		created, err = orderRepo.Get(ctx, o.ID, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, domain.NotFound("pedido no encontrado")
	}
	out := dto.ToOrderResponse(created)
	return &out, nil
}

// List lista pedidos visibles para quien llama, más recientes primero.
// Un no-admin que pide los pedidos de otro usuario recibe ErrForbidden.
func (uc *UseCase) List(ctx context.Context, caller entity.Identity, q dto.OrderQuery) (*dto.OrderListResponse, error) {
	if q.Limit != nil && *q.Limit < 0 {
		return nil, domain.InvalidInput("limit no puede ser negativo")
	}
	if q.Offset != nil && *q.Offset < 0 {
		return nil, domain.InvalidInput("offset no puede ser negativo")
	}

	owner := q.TargetUserID
	if !caller.Can(entity.CapViewAllOrders) {
		if q.TargetUserID != nil && *q.TargetUserID != caller.UserID {
			return nil, domain.ErrForbidden
		}
		self := caller.UserID
		owner = &self
	}

	list, total, err := uc.repo.List(ctx, repository.OrderFilter{OwnerID: owner, Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		return nil, err
	}
	out := &dto.OrderListResponse{
		Orders:     make([]dto.OrderResponse, 0, len(list)),
		TotalCount: total,
		Filters:    dto.OrderFilters{UserID: owner, Limit: q.Limit, Offset: q.Offset},
	}
	for _, o := range list {
		out.Orders = append(out.Orders, dto.ToOrderResponse(o))
	}
	return out, nil
}

// GetByID devuelve el pedido si existe y es visible para quien llama; si no, ErrNotFound.
func (uc *UseCase) GetByID(ctx context.Context, caller entity.Identity, id int64) (*dto.OrderResponse, error) {
	o, err := uc.find(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	out := dto.ToOrderResponse(o)
	return &out, nil
}

// Delete elimina el pedido con la misma regla de visibilidad que GetByID.
func (uc *UseCase) Delete(ctx context.Context, caller entity.Identity, id int64) error {
	if _, err := uc.find(ctx, caller, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// Receipt genera el comprobante PDF del pedido.
func (uc *UseCase) Receipt(ctx context.Context, caller entity.Identity, id int64) ([]byte, error) {
	o, err := uc.find(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return uc.receipt.Render(o)
}

func (uc *UseCase) find(ctx context.Context, caller entity.Identity, id int64) (*entity.Order, error) {
	o, err := uc.repo.Get(ctx, id, ownerScope(caller))
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.NotFound("pedido no encontrado")
	}
	return o, nil
}

// ownerScope nil para quien puede ver todos los pedidos; si no, el id propio.
func ownerScope(caller entity.Identity) *int64 {
	if caller.Can(entity.CapManageAllOrders) {
		return nil
	}
	id := caller.UserID
	return &id
}
