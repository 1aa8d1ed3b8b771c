package entity

import "time"

// User representa un usuario registrado de la tienda.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string // bcrypt, nunca texto plano
	RoleID       int64
	RoleName     string // join con roles; vacío si no se cargó
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
