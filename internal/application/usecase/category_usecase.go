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

// CategoryUseCase casos de uso de categorías. El nombre es único (sensible a mayúsculas).
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// List devuelve las categorías por nombre; con includeProducts se anidan sus productos.
func (uc *CategoryUseCase) List(ctx context.Context, includeProducts bool) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx, includeProducts)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.ToCategoryResponse(c))
	}
	return out, nil
}

// GetByID devuelve la categoría con sus productos.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id int64) (*dto.CategoryResponse, error) {
	category, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	products, err := uc.repo.ListProducts(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Products = products
	out := dto.ToCategoryResponse(category)
	return &out, nil
}

func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name, err := uc.checkName(ctx, in.Name, 0)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	category := &entity.Category{Name: name, CreatedAt: now, UpdatedAt: now}
	if err := uc.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	out := dto.ToCategoryResponse(category)
	return &out, nil
}

func (uc *CategoryUseCase) Update(ctx context.Context, id int64, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	category, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	name, err := uc.checkName(ctx, in.Name, id)
	if err != nil {
		return nil, err
	}
	category.Name = name
	category.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	out := dto.ToCategoryResponse(category)
	return &out, nil
}

// Delete elimina la categoría si ningún producto la usa.
func (uc *CategoryUseCase) Delete(ctx context.Context, id int64) error {
	if _, err := uc.find(ctx, id); err != nil {
		return err
	}
	n, err := uc.repo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return &domain.ReferenceError{Resource: "la categoría", Referenced: "producto(s)", Count: n}
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *CategoryUseCase) find(ctx context.Context, id int64) (*entity.Category, error) {
	category, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.NotFound("categoría no encontrada")
	}
	return category, nil
}

// checkName valida que el nombre no esté vacío ni lo use otra categoría distinta de excludeID.
func (uc *CategoryUseCase) checkName(ctx context.Context, raw string, excludeID int64) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", domain.InvalidInput("el nombre de la categoría es obligatorio")
	}
	other, err := uc.repo.GetByName(ctx, name, excludeID)
	if err != nil {
		return "", err
	}
	if other != nil {
		return "", domain.Conflict("ya existe una categoría con ese nombre")
	}
	return name, nil
}
