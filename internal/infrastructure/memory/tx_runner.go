package memory

import (
	"context"

	"github.com/jhoicas/elaia-api/internal/application/order"
	"github.com/jhoicas/elaia-api/internal/application/usecase"
	"github.com/jhoicas/elaia-api/internal/domain/repository"
)

var _ order.TxRunner = (*TxRunner)(nil)
var _ usecase.CatalogTxRunner = (*TxRunner)(nil)

// TxRunner serializa las transacciones y restaura una copia del estado si fn falla.
// Mientras corre una transacción las demás escrituras esperan; las lecturas pueden ver
// sus cambios aún no confirmados.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// RunOrder ejecuta fn con repos de productos y pedidos dentro de una transacción.
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) error) error {
	return r.run(ctx, func() error {
		return fn(&ProductRepo{s: r.s, tx: true}, &OrderRepo{s: r.s, tx: true})
	})
}

// RunCatalog ejecuta fn con repos de productos y categorías dentro de una transacción.
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
) error) error {
	return r.run(ctx, func() error {
		return fn(&ProductRepo{s: r.s, tx: true}, &CategoryRepo{s: r.s, tx: true})
	})
}

func (r *TxRunner) run(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	r.s.mu.RLock()
	snapshot := r.s.data.clone()
	r.s.mu.RUnlock()

	if err := fn(); err != nil {
		r.s.mu.Lock()
		r.s.data = snapshot
		r.s.mu.Unlock()
		return err
	}
	return nil
}
