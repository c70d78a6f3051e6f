package dto

import "time"

// InvoiceRequest body para POST y PUT /api/invoices.
// El chrono no se acepta: lo asigna el secuenciador en el alta.
type InvoiceRequest struct {
	Customer string     `json:"customer" validate:"required"`
	Amount   Amount     `json:"amount" validate:"required,decimal,nonnegative,decimals=2,amountmax"`
	SentAt   *time.Time `json:"sentAt"`
	Status   string     `json:"status" validate:"required,oneof=SENT PAID CANCELLED"`
}

// PatchInvoiceRequest body para PATCH /api/invoices/:id.
type PatchInvoiceRequest struct {
	Customer *string    `json:"customer" validate:"omitempty,min=1"`
	Amount   Amount     `json:"amount" validate:"omitempty,decimal,nonnegative,decimals=2,amountmax"`
	SentAt   *time.Time `json:"sentAt"`
	Status   *string    `json:"status" validate:"omitempty,oneof=SENT PAID CANCELLED"`
}

// InvoiceListQuery filtros de GET /api/invoices.
type InvoiceListQuery struct {
	Order []OrderParam
	PageRequest
}
