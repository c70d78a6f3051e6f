package entity

// Identity es el usuario autenticado que origina la operación. Se pasa explícitamente
// a cada caso de uso que la necesita (asignación de dueño, chrono, filtros).
type Identity struct {
	UserID string
	Role   string
}

// IsAdmin indica si la identidad tiene el rol elevado.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Scope restricción de visibilidad para clientes y facturas.
type Scope struct {
	UserID string
	All    bool
}

// Scope deriva la restricción de visibilidad: admin ve todo, el resto solo su subárbol.
func (i Identity) Scope() Scope {
	if i.IsAdmin() {
		return Scope{All: true}
	}
	return Scope{UserID: i.UserID}
}

// Allows indica si un recurso cuyo dueño es ownerID es visible en este scope.
func (s Scope) Allows(ownerID string) bool {
	return s.All || (s.UserID != "" && s.UserID == ownerID)
}
