package repository

import (
	"context"

	"github.com/jhoicas/facturas-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, scope entity.Scope, id string) (*entity.Invoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]*entity.Invoice, int, error)
	// ListByCustomerIDs devuelve las facturas de varios clientes (vista de clientes, totales).
	ListByCustomerIDs(ctx context.Context, customerIDs []string) ([]*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	Delete(ctx context.Context, id string) error
	ChronoStore
}

// ChronoStore lectura del último chrono de un usuario.
type ChronoStore interface {
	// LastChrono devuelve el mayor chrono entre las facturas de los clientes del usuario,
	// o 0 si el usuario aún no tiene facturas.
	LastChrono(ctx context.Context, userID string) (int, error)
}

// ChronoLocker capacidad opcional para serializar la asignación de chrono por usuario
// dentro de la transacción en curso.
type ChronoLocker interface {
	LockChrono(ctx context.Context, userID string) error
}
