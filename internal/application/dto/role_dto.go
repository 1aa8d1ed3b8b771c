package dto

import "time"

// RoleRequest alta o renombrado de un rol.
type RoleRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// RoleResponse salida de un rol; Users solo viene en el listado.
type RoleResponse struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Users     []UserResponse `json:"users,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
