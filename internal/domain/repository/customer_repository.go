package repository

import (
	"context"

	"github.com/jhoicas/facturas-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
// Las lecturas aplican el scope del solicitante; fuera del scope se comportan como "no existe".
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, scope entity.Scope, id string) (*entity.Customer, error)
	List(ctx context.Context, filter CustomerFilter) ([]*entity.Customer, int, error)
	Update(ctx context.Context, customer *entity.Customer) error
	// Delete elimina el cliente y sus facturas.
	Delete(ctx context.Context, id string) error
}
