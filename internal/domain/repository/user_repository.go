package repository

import (
	"context"

	"github.com/jhoicas/facturas-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
// Los Get devuelven (nil, nil) cuando no existe el registro.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, page Page) ([]*entity.User, int, error)
}
