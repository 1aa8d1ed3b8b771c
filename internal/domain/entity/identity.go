package entity

// Capability permiso concreto derivado del nombre de rol.
type Capability int

const (
	CapManageCatalog Capability = iota + 1
	CapManageUsers
	CapManageRoles
	CapViewAllOrders
	CapManageAllOrders
)

// adminCapabilities todo lo que habilita el rol Administrador.
var adminCapabilities = map[Capability]struct{}{
	CapManageCatalog:   {},
	CapManageUsers:     {},
	CapManageRoles:     {},
	CapViewAllOrders:   {},
	CapManageAllOrders: {},
}

// Identity quién hace la petición, tal como quedó en el token al emitirse.
// Un cambio de rol posterior no se refleja hasta volver a iniciar sesión.
type Identity struct {
	UserID int64
	Email  string
	Role   string
}

// IsAdmin comparación exacta (sensible a mayúsculas) contra "Administrador".
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Can indica si la identidad tiene el permiso.
func (i Identity) Can(c Capability) bool {
	if !i.IsAdmin() {
		return false
	}
	_, ok := adminCapabilities[c]
	return ok
}
