// Package chrono asigna el número consecutivo ("chrono") de las facturas.
//
// El consecutivo es por usuario: todas las facturas de todos los clientes de un
// usuario comparten una misma secuencia que empieza en 1.
package chrono

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/facturas-api/internal/domain"
	"github.com/jhoicas/facturas-api/internal/domain/entity"
	"github.com/jhoicas/facturas-api/internal/domain/repository"
)

// Sequencer calcula y asigna el siguiente chrono de un usuario.
//
// Sin serialización, dos altas concurrentes del mismo usuario pueden leer el mismo
// máximo y obtener el mismo chrono. Con serialize=true se toma el lock por usuario
// del store (si lo soporta) antes de leer el máximo.
type Sequencer struct {
	serialize bool
	now       func() time.Time
}

// NewSequencer construye el secuenciador.
func NewSequencer(serialize bool) *Sequencer {
	return &Sequencer{serialize: serialize, now: time.Now}
}

// WithClock reemplaza el reloj usado para la fecha de envío por defecto.
func (s *Sequencer) WithClock(now func() time.Time) *Sequencer {
	s.now = now
	return s
}

// Next devuelve el máximo chrono del usuario + 1, o 1 si aún no tiene facturas.
// store debe estar atado a la transacción del alta.
func (s *Sequencer) Next(ctx context.Context, store repository.ChronoStore, userID string) (int, error) {
	if userID == "" {
		return 0, fmt.Errorf("chrono: usuario requerido: %w", domain.ErrInvalidInput)
	}
	if s.serialize {
		if locker, ok := store.(repository.ChronoLocker); ok {
			if err := locker.LockChrono(ctx, userID); err != nil {
				return 0, fmt.Errorf("chrono: bloquear secuencia: %w", err)
			}
		}
	}
	last, err := store.LastChrono(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("chrono: último consecutivo: %w", err)
	}
	return last + 1, nil
}

// Assign fija el chrono de una factura nueva y, si no trae fecha de envío, la fecha actual.
func (s *Sequencer) Assign(ctx context.Context, store repository.ChronoStore, userID string, inv *entity.Invoice) error {
	next, err := s.Next(ctx, store, userID)
	if err != nil {
		return err
	}
	inv.Chrono = next
	if inv.SentAt.IsZero() {
		inv.SentAt = s.now()
	}
	return nil
}

// Increment sube el chrono en 1. No recalcula contra otras facturas ni es idempotente.
func Increment(inv *entity.Invoice) {
	inv.Chrono++
}
