package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facturas-api/internal/domain/entity"
	"github.com/jhoicas/facturas-api/internal/domain/repository"
)

var (
	_ repository.InvoiceRepository = (*InvoiceRepo)(nil)
	_ repository.ChronoLocker      = (*InvoiceRepo)(nil)
)

const invoiceColumns = `i.id, i.customer_id, i.amount, i.sent_at, i.status, i.chrono, i.created_at, i.updated_at`

var invoiceOrderColumns = map[string]string{
	"id":     "i.id",
	"amount": "i.amount",
	"sentAt": "i.sent_at",
	"status": "i.status",
	"chrono": "i.chrono",
}

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// El scope de una factura es el dueño de su cliente (JOIN con customers).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la factura.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (id, customer_id, amount, sent_at, status, chrono, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.CustomerID, invoice.Amount, invoice.SentAt, invoice.Status, invoice.Chrono,
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID dentro del scope; fuera del scope devuelve (nil, nil).
func (r *InvoiceRepo) GetByID(ctx context.Context, scope entity.Scope, id string) (*entity.Invoice, error) {
	w := &where{}
	w.add("i.id = ?", id)
	w.scope(scope, "c.user_id")
	query := `SELECT ` + invoiceColumns + ` FROM invoices i JOIN customers c ON c.id = i.customer_id` + w.String()
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, w.args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// List lista facturas del scope (opcionalmente de un cliente) con orden y paginación.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	w := &where{}
	w.scope(f.Scope, "c.user_id")
	if f.CustomerID != "" {
		w.add("i.customer_id = ?", f.CustomerID)
	}
	from := ` FROM invoices i JOIN customers c ON c.id = i.customer_id`

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*)`+from+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	query := `SELECT ` + invoiceColumns + from + w.String() + orderBy(f.Order, invoiceOrderColumns, "i.created_at, i.id")
	query += w.limit(f.Page)
	list, err := r.query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListByCustomerIDs facturas de varios clientes ordenadas por chrono.
func (r *InvoiceRepo) ListByCustomerIDs(ctx context.Context, customerIDs []string) ([]*entity.Invoice, error) {
	if len(customerIDs) == 0 {
		return []*entity.Invoice{}, nil
	}
	query := `SELECT ` + invoiceColumns + ` FROM invoices i WHERE i.customer_id = ANY($1) ORDER BY i.chrono, i.id`
	return r.query(ctx, query, customerIDs)
}

// Update actualiza cliente, monto, fecha, estado y chrono.
func (r *InvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET customer_id = $2, amount = $3, sent_at = $4, status = $5, chrono = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.CustomerID, invoice.Amount, invoice.SentAt, invoice.Status, invoice.Chrono,
		invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// Delete elimina una factura por ID.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

// LastChrono mayor chrono entre las facturas de todos los clientes del usuario; 0 si no hay.
func (r *InvoiceRepo) LastChrono(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT i.chrono FROM invoices i
		JOIN customers c ON c.id = i.customer_id
		WHERE c.user_id = $1
		ORDER BY i.chrono DESC
		LIMIT 1`
	var last int
	err := r.q.QueryRow(ctx, query, userID).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("last chrono: %w", err)
	}
	return last, nil
}

// LockChrono toma un advisory lock por usuario que dura hasta el fin de la transacción.
// Fuera de una transacción el lock se libera de inmediato.
func (r *InvoiceRepo) LockChrono(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID); err != nil {
		return fmt.Errorf("lock chrono: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(&inv.ID, &inv.CustomerID, &inv.Amount, &inv.SentAt, &inv.Status, &inv.Chrono, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
