package dto

import "time"

// CategoryRequest alta o actualización de categoría.
type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// CategoryResponse salida de una categoría. Products solo se llena si se pidieron.
type CategoryResponse struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Products  []ProductResponse `json:"products,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// CategorySummary categoría embebida en un producto.
type CategorySummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
