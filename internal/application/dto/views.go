package dto

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturas-api/internal/domain/entity"
)

// Vistas de salida por endpoint. Cada función decide explícitamente qué campos expone.

// UserRead usuario sin credenciales.
type UserRead struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// CustomerSummary cliente embebido en la vista de una factura.
type CustomerSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Company   string `json:"company,omitempty"`
	User      string `json:"user"`
}

// InvoiceRead vista de una factura (colección e ítem de /api/invoices).
type InvoiceRead struct {
	ID       string           `json:"id"`
	Amount   decimal.Decimal  `json:"amount"`
	SentAt   time.Time        `json:"sentAt"`
	Status   string           `json:"status"`
	Chrono   int              `json:"chrono"`
	Customer *CustomerSummary `json:"customer,omitempty"`
}

// InvoiceSubresource factura como sub-recurso de un cliente (sin el cliente).
type InvoiceSubresource struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	SentAt time.Time       `json:"sentAt"`
	Status string          `json:"status"`
	Chrono int             `json:"chrono"`
}

// CustomerRead vista de un cliente con sus facturas y el total calculado.
type CustomerRead struct {
	ID          string               `json:"id"`
	FirstName   string               `json:"firstName"`
	LastName    string               `json:"lastName"`
	Email       string               `json:"email"`
	Company     string               `json:"company,omitempty"`
	User        string               `json:"user"`
	TotalAmount decimal.Decimal      `json:"totalAmount"`
	Invoices    []InvoiceSubresource `json:"invoices"`
}

func NewUserRead(u *entity.User) UserRead {
	return UserRead{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName, Role: u.Role}
}

func NewCustomerSummary(c *entity.Customer) *CustomerSummary {
	if c == nil {
		return nil
	}
	return &CustomerSummary{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Company:   c.Company,
		User:      c.UserID,
	}
}

// NewInvoiceRead customer puede ser nil (la factura se expone sin cliente embebido).
func NewInvoiceRead(inv *entity.Invoice, customer *entity.Customer) InvoiceRead {
	return InvoiceRead{
		ID:       inv.ID,
		Amount:   inv.Amount,
		SentAt:   inv.SentAt,
		Status:   inv.Status,
		Chrono:   inv.Chrono,
		Customer: NewCustomerSummary(customer),
	}
}

func NewInvoiceSubresource(inv *entity.Invoice) InvoiceSubresource {
	return InvoiceSubresource{ID: inv.ID, Amount: inv.Amount, SentAt: inv.SentAt, Status: inv.Status, Chrono: inv.Chrono}
}

// NewCustomerRead invoices son las facturas del cliente; el total se calcula aquí, no se persiste.
func NewCustomerRead(c *entity.Customer, invoices []*entity.Invoice) CustomerRead {
	return CustomerRead{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Company:     c.Company,
		User:        c.UserID,
		TotalAmount: TotalAmount(invoices),
		Invoices: lo.Map(invoices, func(inv *entity.Invoice, _ int) InvoiceSubresource {
			return NewInvoiceSubresource(inv)
		}),
	}
}

// TotalAmount suma de los montos de las facturas.
func TotalAmount(invoices []*entity.Invoice) decimal.Decimal {
	return lo.Reduce(invoices, func(total decimal.Decimal, inv *entity.Invoice, _ int) decimal.Decimal {
		return total.Add(inv.Amount)
	}, decimal.Zero)
}
