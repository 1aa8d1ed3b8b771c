package repository

import (
	"context"

	"github.com/jhoicas/elaia-api/internal/domain/entity"
)

// ProductFilter filtros del listado público. Limit/Offset nil = sin paginar.
type ProductFilter struct {
	Search   string // subcadena en nombre o descripción, sin distinguir mayúsculas
	Category string // subcadena en el nombre de alguna categoría
	Limit    *int
	Offset   *int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID carga el producto con sus categorías.
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetByIDs devuelve los productos existentes entre ids (sin repetir, sin categorías).
	GetByIDs(ctx context.Context, ids []int64) ([]*entity.Product, error)
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, int, error)
	Update(ctx context.Context, product *entity.Product) error
	// SetCategories reemplaza por completo las asociaciones del producto.
	SetCategories(ctx context.Context, productID int64, categoryIDs []int64) error
	CountOrderLines(ctx context.Context, productID int64) (int, error)
	Delete(ctx context.Context, id int64) error
}
