package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/facturas-api/internal/domain/entity"
	"github.com/jhoicas/facturas-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

type customerRow struct {
	seq      int64
	customer entity.Customer
}

// CustomerRepo clientes en memoria.
type CustomerRepo struct {
	s    *Store
	undo *undoLog
}

func (r *CustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	r.undo.recordCustomer(r.s, customer.ID)
	r.s.customers[customer.ID] = customerRow{seq: r.s.nextSeq(), customer: *customer}
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, scope entity.Scope, id string) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.customers[id]
	if !ok || !scope.Allows(row.customer.UserID) {
		return nil, nil
	}
	c := row.customer
	return &c, nil
}

func (r *CustomerRepo) List(_ context.Context, f repository.CustomerFilter) ([]*entity.Customer, int, error) {
	r.s.mu.RLock()
	rows := make([]customerRow, 0, len(r.s.customers))
	for _, row := range r.s.customers {
		c := row.customer
		if !f.Scope.Allows(c.UserID) {
			continue
		}
		if f.FirstName != "" && !strings.Contains(strings.ToLower(c.FirstName), strings.ToLower(f.FirstName)) {
			continue
		}
		if f.LastName != "" && c.LastName != f.LastName {
			continue
		}
		if f.Company != "" && c.Company != f.Company {
			continue
		}
		rows = append(rows, row)
	}
	r.s.mu.RUnlock()

	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range f.Order {
			cmp := compareCustomer(rows[i].customer, rows[j].customer, o.Field)
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

	out := make([]*entity.Customer, 0, len(rows))
	for _, row := range paginate(rows, f.Page) {
		c := row.customer
		out = append(out, &c)
	}
	return out, len(rows), nil
}

func (r *CustomerRepo) Update(_ context.Context, customer *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.customers[customer.ID]
	if !ok {
		return nil
	}
	r.undo.recordCustomer(r.s, customer.ID)
	row.customer = *customer
	r.s.customers[customer.ID] = row
	return nil
}

func (r *CustomerRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.undo.recordCustomer(r.s, id)
	delete(r.s.customers, id)
	for invID, row := range r.s.invoices {
		if row.invoice.CustomerID == id {
			r.undo.recordInvoice(r.s, invID)
			delete(r.s.invoices, invID)
		}
	}
	return nil
}

func compareCustomer(a, b entity.Customer, field string) int {
	switch field {
	case "id":
		return strings.Compare(a.ID, b.ID)
	case "firstName":
		return strings.Compare(a.FirstName, b.FirstName)
	case "lastName":
		return strings.Compare(a.LastName, b.LastName)
	case "email":
		return strings.Compare(a.Email, b.Email)
	case "company":
		return strings.Compare(a.Company, b.Company)
	}
	return 0
}
