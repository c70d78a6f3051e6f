// migrate aplica o revierte las migraciones embebidas del esquema.
//
// Uso: go run ./cmd/migrate [up|down [pasos]|version]
// Sin argumentos ejecuta "up". La conexión sale de DATABASE_URL o de DB_*.
package main

import (
	"os"
	"strconv"

	"github.com/jhoicas/facturas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/facturas-api/pkg/config"
	"github.com/jhoicas/facturas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	m, err := postgres.NewMigrator(cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migrador")
	}
	defer func() { _ = m.Close() }()

	switch cmd {
	case "up":
		err = m.Up()
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			steps, err = strconv.Atoi(os.Args[2])
			if err != nil || steps < 1 {
				log.Fatal().Str("pasos", os.Args[2]).Msg("número de pasos inválido")
			}
		}
		err = m.Down(steps)
	case "version":
	default:
		log.Fatal().Str("comando", cmd).Msg("comando desconocido (up|down|version)")
	}
	if err != nil {
		log.Fatal().Err(err).Str("comando", cmd).Msg("migración fallida")
	}

	version, dirty, err := m.Version()
	if err != nil {
		log.Fatal().Err(err).Msg("leer versión")
	}
	log.Info().Str("comando", cmd).Uint("version", version).Bool("dirty", dirty).Msg("migraciones al día")
}
