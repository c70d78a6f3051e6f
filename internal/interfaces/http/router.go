package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturas-api/internal/application/auth"
	"github.com/jhoicas/facturas-api/internal/application/billing"
	"github.com/jhoicas/facturas-api/internal/domain/entity"
	"github.com/jhoicas/facturas-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	CustomerUC *billing.CustomerUseCase
	InvoiceUC  *billing.InvoiceUseCase
	JWTSecret  string
	Log        *logger.Logger

	// LoginPerMinute y LoginBurst configuran el límite de intentos de login por IP (0 = sin límite).
	LoginPerMinute int
	LoginBurst     int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, log.Named("auth"))
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", LoginThrottle(deps.LoginPerMinute, deps.LoginBurst), authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	users := protected.Group("/users")
	users.Get("/", RequireRole(entity.RoleAdmin), authHandler.ListUsers)
	users.Get("/:id", authHandler.GetUser)

	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC, log.Named("customers"))
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Replace)
	customers.Patch("/:id", customerHandler.Patch)
	customers.Delete("/:id", customerHandler.Delete)
	customers.Get("/:id/invoices", customerHandler.Invoices)

	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, log.Named("invoices"))
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Replace)
	invoices.Patch("/:id", invoiceHandler.Patch)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Post("/:id/increment", invoiceHandler.Increment)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
}
