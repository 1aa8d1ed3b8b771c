package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/elaia-api/internal/application/dto"
	"github.com/jhoicas/elaia-api/internal/domain"
	"github.com/jhoicas/elaia-api/internal/domain/entity"
	"github.com/jhoicas/elaia-api/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo de productos. Un producto siempre queda con al menos una categoría.
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner CatalogTxRunner
}

const errPriceOutOfRange = "el precio admite máximo 2 decimales y debe ser menor a 10.000.000.000"

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, txRunner CatalogTxRunner) *ProductUseCase {
	return &ProductUseCase{repo: repo, txRunner: txRunner}
}

// Create crea el producto y sus asociaciones en una sola transacción.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Price == nil {
		return nil, domain.InvalidInput("nombre y precio son obligatorios")
	}
	if in.Price.IsNegative() {
		return nil, domain.InvalidInput("el precio no puede ser negativo")
	}
	if !entity.ValidMoney(*in.Price) {
		return nil, domain.InvalidInput(errPriceOutOfRange)
	}
	if len(in.CategoryIDs) == 0 {
		return nil, domain.InvalidInput("el producto debe tener al menos una categoría")
	}
	categoryIDs := uniqueIDs(in.CategoryIDs)

	now := time.Now()
	product := &entity.Product{
		Name:        name,
		Description: in.Description,
		Price:       *in.Price,
		ImageURL:    in.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.txRunner.RunCatalog(ctx, func(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) error {
		categories, err := resolveCategories(ctx, categoryRepo, categoryIDs)
		if err != nil {
			return err
		}
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		if err := productRepo.SetCategories(ctx, product.ID, categoryIDs); err != nil {
			return err
		}
		product.Categories = categories
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToProductResponse(product)
	return &out, nil
}

// GetByID obtiene un producto con sus categorías.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto no encontrado")
	}
	out := dto.ToProductResponse(product)
	return &out, nil
}

// Update aplica una actualización parcial. Toda la validación ocurre antes de escribir:
// una lista de categorías vacía se rechaza sin tocar el producto.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.InvalidInput("el nombre no puede estar vacío")
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, domain.InvalidInput("el precio no puede ser negativo")
	}
	if in.Price != nil && !entity.ValidMoney(*in.Price) {
		return nil, domain.InvalidInput(errPriceOutOfRange)
	}
	var categoryIDs []int64
	if in.CategoryIDs != nil {
		if len(*in.CategoryIDs) == 0 {
			return nil, domain.InvalidInput("el producto debe tener al menos una categoría")
		}
		categoryIDs = uniqueIDs(*in.CategoryIDs)
	}

	var updated *entity.Product
	err := uc.txRunner.RunCatalog(ctx, func(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) error {
		product, err := productRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NotFound("producto no encontrado")
		}
		if categoryIDs != nil {
			if _, err := resolveCategories(ctx, categoryRepo, categoryIDs); err != nil {
				return err
			}
		}
		if in.Name != nil {
			product.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			product.Description = *in.Description
		}
		if in.Price != nil {
			product.Price = *in.Price
		}
		if in.ImageURL != nil {
			product.ImageURL = *in.ImageURL
		}
		product.UpdatedAt = time.Now()
		if err := productRepo.Update(ctx, product); err != nil {
			return err
		}
		if categoryIDs != nil {
			if err := productRepo.SetCategories(ctx, id, categoryIDs); err != nil {
				return err
			}
		}
		updated, err = productRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToProductResponse(updated)
	return &out, nil
}

// Delete elimina el producto si ninguna línea de pedido lo referencia.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.NotFound("producto no encontrado")
	}
	n, err := uc.repo.CountOrderLines(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return &domain.ReferenceError{Resource: "el producto", Referenced: "línea(s) de pedido", Count: n}
	}
	return uc.repo.Delete(ctx, id)
}

// List lista productos con búsqueda por texto y por nombre de categoría.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductQuery) (*dto.ProductListResponse, error) {
	if err := validatePage(q.Limit, q.Offset); err != nil {
		return nil, err
	}
	filter := repository.ProductFilter{
		Search:   strings.TrimSpace(q.Search),
		Category: strings.TrimSpace(q.Category),
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	list, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductListResponse{
		Products: make([]dto.ProductResponse, 0, len(list)),
		Total:    total,
		Filters: dto.ProductFilters{
			Search:   filter.Search,
			Category: filter.Category,
			Limit:    q.Limit,
			Offset:   q.Offset,
		},
	}
	for _, p := range list {
		out.Products = append(out.Products, dto.ToProductResponse(p))
	}
	return out, nil
}

// resolveCategories verifica que todos los ids existan (ErrCategoryNotFound si falta alguno).
func resolveCategories(ctx context.Context, repo repository.CategoryRepository, ids []int64) ([]entity.Category, error) {
	found, err := repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		return nil, domain.ErrCategoryNotFound
	}
	out := make([]entity.Category, 0, len(found))
	for _, c := range found {
		out = append(out, *c)
	}
	return out, nil
}

// uniqueIDs conserva el orden de primera aparición.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func validatePage(limit, offset *int) error {
	if limit != nil && *limit < 0 {
		return domain.InvalidInput("limit no puede ser negativo")
	}
	if offset != nil && *offset < 0 {
		return domain.InvalidInput("offset no puede ser negativo")
	}
	return nil
}
