package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_EtiquetaConRuta(t *testing.T) {
	m := New("facturas-api")
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/api/invoices/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/invoices/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/invoices/:id", "200")))

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(body), "facturas_api_http_requests_total"))
}

func TestRecorder(t *testing.T) {
	m := New("facturas")
	m.InvoiceCreated()
	m.InvoiceCreated()
	m.ChronoIncremented()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.invoicesCreated))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.chronoIncrements))
}
