package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturas-api/internal/infrastructure/storage"
	"github.com/jhoicas/facturas-api/pkg/config"
	"github.com/jhoicas/facturas-api/pkg/logger"
)

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Storage = config.StorageMemory

	s, err := storage.Open(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	assert.NotNil(t, s.Users)
	assert.NotNil(t, s.Customers)
	assert.NotNil(t, s.Invoices)
	assert.NotNil(t, s.Tx)

	u, err := s.Users.GetByEmail(context.Background(), "nadie@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}
