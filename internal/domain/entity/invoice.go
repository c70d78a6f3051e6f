package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura.
const (
	InvoiceStatusSent      = "SENT"
	InvoiceStatusPaid      = "PAID"
	InvoiceStatusCancelled = "CANCELLED"
)

// InvoiceStatuses enumeración cerrada de estados.
var InvoiceStatuses = []string{InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusCancelled}

// Invoice representa una factura emitida a un cliente.
// Chrono es el número consecutivo por usuario (no por cliente).
type Invoice struct {
	ID         string
	CustomerID string
	Amount     decimal.Decimal
	SentAt     time.Time
	Status     string
	Chrono     int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
