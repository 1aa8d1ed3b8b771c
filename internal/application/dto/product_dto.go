package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Debe traer al menos una categoría.
type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,min=1,max=200"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	ImageURL    string           `json:"imageUrl" validate:"omitempty,max=500"`
	CategoryIDs []int64          `json:"categoryIds" validate:"required,min=1,dive,gt=0"`
}

// UpdateProductRequest actualización parcial. CategoryIDs nil deja las categorías como están;
// una lista vacía es inválida.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"imageUrl" validate:"omitempty,max=500"`
	CategoryIDs *[]int64         `json:"categoryIds"`
}

// ProductQuery filtros del listado público.
type ProductQuery struct {
	Search   string
	Category string
	Limit    *int
	Offset   *int
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       float64           `json:"price"`
	ImageURL    string            `json:"imageUrl"`
	Categories  []CategorySummary `json:"categories,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// ProductFilters eco de los filtros aplicados.
type ProductFilters struct {
	Search   string `json:"search,omitempty"`
	Category string `json:"category,omitempty"`
	Limit    *int   `json:"limit"`
	Offset   *int   `json:"offset"`
}

// ProductListResponse listado de productos con total sin paginar.
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
	Filters  ProductFilters    `json:"filters"`
}
