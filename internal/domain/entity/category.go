package entity

import "time"

// Category agrupa productos; el nombre es único (comparación exacta).
type Category struct {
	ID        int64
	Name      string
	Products  []Product // solo se llena cuando se pide el detalle
	CreatedAt time.Time
	UpdatedAt time.Time
}
