package repository

import "github.com/jhoicas/facturas-api/internal/domain/entity"

// Page paginación 1-based.
type Page struct {
	Number int
	Size   int
}

// Offset desplazamiento en filas para la página.
func (p Page) Offset() int {
	if p.Number <= 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// Order criterio de ordenación sobre un campo expuesto por la API (ej. "sentAt").
type Order struct {
	Field string
	Desc  bool
}

// CustomerFilter criterios de búsqueda de clientes.
// FirstName es parcial (sin distinguir mayúsculas); LastName y Company son exactos.
type CustomerFilter struct {
	Scope     entity.Scope
	FirstName string
	LastName  string
	Company   string
	Order     []Order
	Page      Page
}

// InvoiceFilter criterios de búsqueda de facturas.
type InvoiceFilter struct {
	Scope      entity.Scope
	CustomerID string
	Order      []Order
	Page       Page
}

// Campos ordenables por recurso.
var (
	CustomerOrderFields = []string{"id", "firstName", "lastName", "email", "company"}
	InvoiceOrderFields  = []string{"id", "amount", "sentAt", "status", "chrono"}
)
