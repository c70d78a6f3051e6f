// Package hooks registra funciones previas al alta y a la actualización por tipo de entidad.
// Los casos de uso las invocan explícitamente en su ruta de escritura.
package hooks

import (
	"context"

	"github.com/jhoicas/facturas-api/internal/domain/entity"
)

// Func hook previo a la escritura; un error aborta la operación sin escribir.
type Func[T any] func(ctx context.Context, who entity.Identity, v *T) error

// Registry hooks de una entidad, ejecutados en orden de registro.
type Registry[T any] struct {
	preCreate []Func[T]
	preUpdate []Func[T]
}

// OnCreate registra un hook previo al alta.
func (r *Registry[T]) OnCreate(fn Func[T]) *Registry[T] {
	r.preCreate = append(r.preCreate, fn)
	return r
}

// OnUpdate registra un hook previo a la actualización (PUT/PATCH).
func (r *Registry[T]) OnUpdate(fn Func[T]) *Registry[T] {
	r.preUpdate = append(r.preUpdate, fn)
	return r
}

// RunCreate ejecuta los hooks de alta; se detiene en el primer error.
func (r *Registry[T]) RunCreate(ctx context.Context, who entity.Identity, v *T) error {
	return run(ctx, r.preCreate, who, v)
}

// RunUpdate ejecuta los hooks de actualización; se detiene en el primer error.
func (r *Registry[T]) RunUpdate(ctx context.Context, who entity.Identity, v *T) error {
	return run(ctx, r.preUpdate, who, v)
}

func run[T any](ctx context.Context, fns []Func[T], who entity.Identity, v *T) error {
	for _, fn := range fns {
		if err := fn(ctx, who, v); err != nil {
			return err
		}
	}
	return nil
}
