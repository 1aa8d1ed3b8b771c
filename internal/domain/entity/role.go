package entity

import "time"

// Nombres de rol tal como se persisten y viajan en el token.
const (
	RoleAdmin  = "Administrador"
	RoleClient = "Cliente"
)

// Role etiqueta de permisos asignada a cada usuario.
type Role struct {
	ID        int64
	Name      string
	Users     []User // solo se llena en listados que lo piden
	CreatedAt time.Time
	UpdatedAt time.Time
}
