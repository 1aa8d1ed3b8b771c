package repository

import (
	"context"

	"github.com/jhoicas/elaia-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	// GetByName busca por nombre exacto ignorando excludeID (0 = no excluir).
	GetByName(ctx context.Context, name string, excludeID int64) (*entity.Category, error)
	// GetByIDs devuelve las categorías existentes entre ids (sin repetir).
	GetByIDs(ctx context.Context, ids []int64) ([]*entity.Category, error)
	// List ordena por nombre; withProducts carga los productos de cada una.
	List(ctx context.Context, withProducts bool) ([]*entity.Category, error)
	ListProducts(ctx context.Context, categoryID int64) ([]entity.Product, error)
	CountProducts(ctx context.Context, categoryID int64) (int, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id int64) error
}
