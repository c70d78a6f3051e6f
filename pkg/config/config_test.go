package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StoragePostgres, cfg.App.Storage)
	assert.Equal(t, 20, cfg.Pagination.ItemsPerPage)
	assert.Equal(t, 100, cfg.Pagination.MaxItemsPerPage)
	assert.False(t, cfg.Chrono.Serialize, "por defecto no se serializa la asignación del chrono")
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_ValoresComoString(t *testing.T) {
	v := viper.New()
	v.Set("DB_PORT", "6543")
	v.Set("CHRONO_SERIALIZE", "true")
	v.Set("STORAGE_DRIVER", "MEMORY")
	v.Set("PAGINATION_ITEMS_PER_PAGE", "50")
	v.Set("PAGINATION_MAX_ITEMS_PER_PAGE", "10")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 6543, cfg.DB.Port)
	assert.True(t, cfg.Chrono.Serialize)
	assert.Equal(t, StorageMemory, cfg.App.Storage)
	assert.Equal(t, 50, cfg.Pagination.MaxItemsPerPage, "el máximo nunca es menor que el tamaño por defecto")
}

func TestFromViper_StorageDesconocido(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "mongo")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "facturas", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/facturas?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://u:p@h:1/d"
	assert.Equal(t, "postgres://u:p@h:1/d", c.ConnectionString())
}
