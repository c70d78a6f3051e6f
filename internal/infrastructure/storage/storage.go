// Package storage arma los repositorios según STORAGE_DRIVER (postgres o memory).
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/facturas-api/internal/application/billing"
	"github.com/jhoicas/facturas-api/internal/domain/repository"
	"github.com/jhoicas/facturas-api/internal/infrastructure/memory"
	"github.com/jhoicas/facturas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/facturas-api/pkg/config"
	"github.com/jhoicas/facturas-api/pkg/logger"
)

// Storage repositorios de la aplicación sobre el driver elegido.
type Storage struct {
	Users     repository.UserRepository
	Customers repository.CustomerRepository
	Invoices  repository.InvoiceRepository
	Tx        billing.TxRunner
	close     func()
}

// Close libera el pool de conexiones, si lo hay.
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open abre el almacenamiento configurado. Con postgres aplica las migraciones
// pendientes si DB_AUTO_MIGRATE está activo.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Storage, error) {
	if cfg.App.Storage == config.StorageMemory {
		log.Warn().Msg("STORAGE_DRIVER=memory: los datos se pierden al reiniciar")
		return Memory(memory.NewStore()), nil
	}

	if cfg.DB.AutoMigrate {
		if err := migrateUp(cfg.DB.ConnectionString()); err != nil {
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return &Storage{
		Users:     postgres.NewUserRepository(pool),
		Customers: postgres.NewCustomerRepository(pool),
		Invoices:  postgres.NewInvoiceRepository(pool),
		Tx:        postgres.NewTxRunner(pool),
		close:     pool.Close,
	}, nil
}

// Memory envuelve un store en memoria.
func Memory(store *memory.Store) *Storage {
	return &Storage{
		Users:     store.Users(),
		Customers: store.Customers(),
		Invoices:  store.Invoices(),
		Tx:        store,
	}
}

func migrateUp(databaseURL string) error {
	m, err := postgres.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()
	return m.Up()
}
