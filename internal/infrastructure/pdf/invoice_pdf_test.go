package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturas-api/internal/application/billing"
	"github.com/jhoicas/facturas-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "0,00", formatMoney(decimal.Zero))
	assert.Equal(t, "250,00", formatMoney(decimal.NewFromInt(250)))
	assert.Equal(t, "25.000,00", formatMoney(decimal.NewFromInt(25000)))
	assert.Equal(t, "1.234.567,50", formatMoney(decimal.RequireFromString("1234567.5")))
}

func TestRender_GeneraPDF(t *testing.T) {
	doc := billing.InvoiceDocument{
		Invoice: &entity.Invoice{
			ID: "inv-1", Amount: decimal.RequireFromString("1499.90"), Status: entity.InvoiceStatusPaid,
			Chrono: 7, SentAt: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		},
		Customer: &entity.Customer{FirstName: "Carla", LastName: "Ruiz", Email: "carla@cliente.com", Company: "ACME"},
		Issuer:   &entity.User{FirstName: "Ana", LastName: "Pérez", Email: "ana@example.com"},
	}

	out, err := NewMarotoRenderer("facturas-api").Render(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRender_DocumentoIncompleto(t *testing.T) {
	_, err := NewMarotoRenderer("facturas-api").Render(billing.InvoiceDocument{})
	assert.Error(t, err)
}
