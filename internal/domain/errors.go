package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = fmt.Errorf("usuario no encontrado: %w", ErrNotFound)
	ErrCategoryNotFound   = fmt.Errorf("una o más categorías no existen: %w", ErrNotFound)
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// ReferenceError indica que un borrado dejaría referencias huérfanas.
// Count es el número exacto de filas que todavía apuntan al recurso.
type ReferenceError struct {
	Resource   string // recurso que se intentó borrar
	Referenced string // quién lo referencia
	Count      int
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("no se puede eliminar %s: tiene %d %s asociado(s)", e.Resource, e.Count, e.Referenced)
}

// Is permite errors.Is(err, ErrConflict).
func (e *ReferenceError) Is(target error) bool {
	return target == ErrConflict
}

// InvalidInput envuelve ErrInvalidInput con un mensaje legible para el cliente.
func InvalidInput(msg string) error {
	return &detailedError{msg: msg, kind: ErrInvalidInput}
}

// Conflict envuelve ErrConflict con un mensaje legible para el cliente.
func Conflict(msg string) error {
	return &detailedError{msg: msg, kind: ErrConflict}
}

// NotFound envuelve ErrNotFound con un mensaje legible para el cliente.
func NotFound(msg string) error {
	return &detailedError{msg: msg, kind: ErrNotFound}
}

type detailedError struct {
	msg  string
	kind error
}

func (e *detailedError) Error() string { return e.msg }
func (e *detailedError) Unwrap() error { return e.kind }
