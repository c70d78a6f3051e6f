package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/facturas-api/docs"
	"github.com/jhoicas/facturas-api/internal/application/auth"
	"github.com/jhoicas/facturas-api/internal/application/billing"
	"github.com/jhoicas/facturas-api/internal/application/chrono"
	"github.com/jhoicas/facturas-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/facturas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/facturas-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/facturas-api/internal/interfaces/http"
	"github.com/jhoicas/facturas-api/pkg/config"
	"github.com/jhoicas/facturas-api/pkg/logger"
)

// @title                       Facturas API
// @version                     1.0
// @description                 Usuarios, clientes y facturas con numeración consecutiva por usuario.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.App.Storage).
		Bool("chrono_serialize", cfg.Chrono.Serialize).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		if cfg.App.Env != "development" {
			log.Fatal().Msg("JWT_SECRET es obligatorio fuera de development")
		}
		cfg.JWT.Secret = "development-secret"
		log.Warn().Msg("JWT_SECRET vacío: usando secreto de desarrollo")
	}

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.Close()

	m := metrics.New(cfg.App.Name)
	paging := billing.Paging{
		ItemsPerPage:    cfg.Pagination.ItemsPerPage,
		MaxItemsPerPage: cfg.Pagination.MaxItemsPerPage,
	}

	authUC := auth.NewAuthUseCase(store.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, 0).WithPaging(paging.ItemsPerPage, paging.MaxItemsPerPage)
	customerUC := billing.NewCustomerUseCase(store.Customers, store.Invoices, store.Users, paging)
	invoiceUC := billing.NewInvoiceUseCase(billing.InvoiceDeps{
		Tx:        store.Tx,
		Customers: store.Customers,
		Invoices:  store.Invoices,
		Users:     store.Users,
		Sequencer: chrono.NewSequencer(cfg.Chrono.Serialize),
		Recorder:  m,
		Renderer:  infrapdf.NewMarotoRenderer(cfg.App.Name),
		Paging:    paging,
		Log:       log.Named("billing"),
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(m.Middleware())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI: http://localhost:<port>/docs
	docs.SwaggerInfo.Host = cfg.HTTP.Addr()
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Facturas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", m.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		CustomerUC:     customerUC,
		InvoiceUC:      invoiceUC,
		JWTSecret:      cfg.JWT.Secret,
		Log:            log,
		LoginPerMinute: cfg.Auth.LoginRatePerMinute,
		LoginBurst:     cfg.Auth.LoginBurst,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
