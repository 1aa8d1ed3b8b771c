package usecase

import (
	"context"

	"github.com/jhoicas/elaia-api/internal/domain/repository"
)

// CatalogTxRunner ejecuta fn dentro de una transacción que comparte repos de productos y categorías.
// Si fn retorna error se hace rollback y nada queda escrito.
type CatalogTxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		categoryRepo repository.CategoryRepository,
	) error) error
}
