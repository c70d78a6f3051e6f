package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/facturas-api/internal/domain/entity"
	"github.com/jhoicas/facturas-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

type invoiceRow struct {
	seq     int64
	invoice entity.Invoice
}

// InvoiceRepo facturas en memoria.
type InvoiceRepo struct {
	s    *Store
	undo *undoLog
}

func (r *InvoiceRepo) Create(_ context.Context, invoice *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	r.undo.recordInvoice(r.s, invoice.ID)
	r.s.invoices[invoice.ID] = invoiceRow{seq: r.s.nextSeq(), invoice: *invoice}
	return nil
}

// ownerOf dueño de la factura a través de su cliente; requiere r.s.mu tomado.
func (r *InvoiceRepo) ownerOf(inv entity.Invoice) string {
	return r.s.customers[inv.CustomerID].customer.UserID
}

func (r *InvoiceRepo) GetByID(_ context.Context, scope entity.Scope, id string) (*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.invoices[id]
	if !ok || !scope.Allows(r.ownerOf(row.invoice)) {
		return nil, nil
	}
	inv := row.invoice
	return &inv, nil
}

func (r *InvoiceRepo) List(_ context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	r.s.mu.RLock()
	rows := make([]invoiceRow, 0, len(r.s.invoices))
	for _, row := range r.s.invoices {
		if !f.Scope.Allows(r.ownerOf(row.invoice)) {
			continue
		}
		if f.CustomerID != "" && row.invoice.CustomerID != f.CustomerID {
			continue
		}
		rows = append(rows, row)
	}
	r.s.mu.RUnlock()

	sortInvoiceRows(rows, f.Order)
	out := make([]*entity.Invoice, 0, len(rows))
	for _, row := range paginate(rows, f.Page) {
		inv := row.invoice
		out = append(out, &inv)
	}
	return out, len(rows), nil
}

func (r *InvoiceRepo) ListByCustomerIDs(_ context.Context, customerIDs []string) ([]*entity.Invoice, error) {
	wanted := make(map[string]bool, len(customerIDs))
	for _, id := range customerIDs {
		wanted[id] = true
	}
	r.s.mu.RLock()
	rows := make([]invoiceRow, 0)
	for _, row := range r.s.invoices {
		if wanted[row.invoice.CustomerID] {
			rows = append(rows, row)
		}
	}
	r.s.mu.RUnlock()

	sortInvoiceRows(rows, []repository.Order{{Field: "chrono"}})
	out := make([]*entity.Invoice, 0, len(rows))
	for _, row := range rows {
		inv := row.invoice
		out = append(out, &inv)
	}
	return out, nil
}

func (r *InvoiceRepo) Update(_ context.Context, invoice *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.invoices[invoice.ID]
	if !ok {
		return nil
	}
	r.undo.recordInvoice(r.s, invoice.ID)
	row.invoice = *invoice
	r.s.invoices[invoice.ID] = row
	return nil
}

func (r *InvoiceRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.undo.recordInvoice(r.s, id)
	delete(r.s.invoices, id)
	return nil
}

// LastChrono máximo chrono entre las facturas de los clientes del usuario (0 si no hay).
func (r *InvoiceRepo) LastChrono(_ context.Context, userID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	last := 0
	for _, row := range r.s.invoices {
		if r.ownerOf(row.invoice) == userID && row.invoice.Chrono > last {
			last = row.invoice.Chrono
		}
	}
	return last, nil
}

func sortInvoiceRows(rows []invoiceRow, order []repository.Order) {
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range order {
			cmp := compareInvoice(rows[i].invoice, rows[j].invoice, o.Field)
			if cmp == 0 {
				continue
			}
			if o.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return rows[i].seq < rows[j].seq
	})
}

func compareInvoice(a, b entity.Invoice, field string) int {
	switch field {
	case "id":
		return strings.Compare(a.ID, b.ID)
	case "amount":
		return a.Amount.Cmp(b.Amount)
	case "sentAt":
		return a.SentAt.Compare(b.SentAt)
	case "status":
		return strings.Compare(a.Status, b.Status)
	case "chrono":
		return a.Chrono - b.Chrono
	}
	return 0
}
