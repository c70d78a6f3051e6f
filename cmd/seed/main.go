// seed puebla la base con datos de prueba: un admin, 10 usuarios (password "password"),
// entre 5 y 20 clientes por usuario y entre 1 y 10 facturas por cliente.
//
// Uso: go run ./cmd/seed
// Las altas pasan por los casos de uso, así el chrono de cada usuario queda consecutivo.
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jhoicas/facturas-api/internal/application/auth"
	"github.com/jhoicas/facturas-api/internal/application/billing"
	"github.com/jhoicas/facturas-api/internal/application/chrono"
	"github.com/jhoicas/facturas-api/internal/application/dto"
	"github.com/jhoicas/facturas-api/internal/domain/entity"
	"github.com/jhoicas/facturas-api/internal/infrastructure/storage"
	"github.com/jhoicas/facturas-api/pkg/config"
	"github.com/jhoicas/facturas-api/pkg/logger"
)

const seedPassword = "password"

var (
	firstNames = []string{"Ana", "Luis", "Camila", "Andrés", "Valentina", "Jorge", "Sofía", "Mateo", "Laura", "Diego", "Paula", "Santiago"}
	lastNames  = []string{"Gómez", "Rodríguez", "Martínez", "López", "Hernández", "Díaz", "Moreno", "Rojas", "Vargas", "Castro"}
	companies  = []string{"", "Ferretería El Tornillo", "Distribuidora Andina", "Café La Montaña", "Textiles del Valle", "Soluciones TIC", "Panadería San José"}
	statuses   = entity.InvoiceStatuses
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.Close()

	paging := billing.Paging{ItemsPerPage: cfg.Pagination.ItemsPerPage, MaxItemsPerPage: cfg.Pagination.MaxItemsPerPage}
	authUC := auth.NewAuthUseCase(store.Users, auth.JWTConfig{Secret: cfg.JWT.Secret}, 0)
	customerUC := billing.NewCustomerUseCase(store.Customers, store.Invoices, store.Users, paging)
	invoiceUC := billing.NewInvoiceUseCase(billing.InvoiceDeps{
		Tx:        store.Tx,
		Customers: store.Customers,
		Invoices:  store.Invoices,
		Users:     store.Users,
		Sequencer: chrono.NewSequencer(cfg.Chrono.Serialize),
		Paging:    paging,
		Log:       log.Named("billing"),
	})

	if _, err := authUC.CreateAdmin(ctx, dto.RegisterRequest{
		Email: "admin@facturas.local", Password: seedPassword, FirstName: "Admin", LastName: "Facturas",
	}); err != nil {
		log.Fatal().Err(err).Msg("crear admin")
	}

	var customers, invoices int
	for i := range 10 {
		u, err := authUC.RegisterUser(ctx, dto.RegisterRequest{
			Email:     fmt.Sprintf("user%d@facturas.local", i+1),
			Password:  seedPassword,
			FirstName: pick(firstNames),
			LastName:  pick(lastNames),
		})
		if err != nil {
			log.Fatal().Err(err).Int("usuario", i+1).Msg("registrar usuario")
		}
		who := entity.Identity{UserID: u.ID, Role: u.Role}

		for range between(5, 20) {
			c, err := customerUC.Create(ctx, who, randomCustomer())
			if err != nil {
				log.Fatal().Err(err).Str("usuario", u.Email).Msg("crear cliente")
			}
			customers++

			for range between(1, 10) {
				if _, err := invoiceUC.Create(ctx, who, randomInvoice(c.ID)); err != nil {
					log.Fatal().Err(err).Str("cliente", c.ID).Msg("crear factura")
				}
				invoices++
			}
		}
	}

	log.Info().
		Int("usuarios", 11).
		Int("clientes", customers).
		Int("facturas", invoices).
		Msg("seed completado")
}

func pick(values []string) string {
	return values[rand.IntN(len(values))]
}

// between entero aleatorio en [lo, hi].
func between(lo, hi int) int {
	return lo + rand.IntN(hi-lo+1)
}

func randomCustomer() dto.CustomerRequest {
	first, last := pick(firstNames), pick(lastNames)
	return dto.CustomerRequest{
		FirstName: first,
		LastName:  last,
		Email:     fmt.Sprintf("%s.%s.%d@cliente.local", asciiLower(first), asciiLower(last), rand.IntN(100000)),
		Company:   pick(companies),
	}
}

func randomInvoice(customerID string) dto.InvoiceRequest {
	cents := between(25000, 500000)
	sentAt := time.Now().Add(-time.Duration(rand.Int64N(int64(180 * 24 * time.Hour))))
	return dto.InvoiceRequest{
		Customer: customerID,
		Amount:   dto.NewAmount(fmt.Sprintf("%d.%02d", cents/100, cents%100)),
		SentAt:   &sentAt,
		Status:   pick(statuses),
	}
}

// asciiLower minúsculas sin tildes para armar emails válidos.
func asciiLower(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case 'á', 'Á':
			r = 'a'
		case 'é', 'É':
			r = 'e'
		case 'í', 'Í':
			r = 'i'
		case 'ó', 'Ó':
			r = 'o'
		case 'ú', 'Ú':
			r = 'u'
		case 'ñ', 'Ñ':
			r = 'n'
		}
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		out = append(out, r)
	}
	return string(out)
}
