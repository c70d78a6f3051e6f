package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facturas-api/internal/domain/entity"
	"github.com/jhoicas/facturas-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `c.id, c.user_id, c.first_name, c.last_name, c.email, COALESCE(c.company, ''), c.created_at, c.updated_at`

var customerOrderColumns = map[string]string{
	"id":        "c.id",
	"firstName": "c.first_name",
	"lastName":  "c.last_name",
	"email":     "c.email",
	"company":   "c.company",
}

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	query := `
		INSERT INTO customers (id, user_id, first_name, last_name, email, company, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		customer.ID, customer.UserID, customer.FirstName, customer.LastName, customer.Email,
		nullIfEmpty(customer.Company), customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID dentro del scope; fuera del scope devuelve (nil, nil).
func (r *CustomerRepo) GetByID(ctx context.Context, scope entity.Scope, id string) (*entity.Customer, error) {
	w := &where{}
	w.add("c.id = ?", id)
	w.scope(scope, "c.user_id")
	c, err := scanCustomer(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers c`+w.String(), w.args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// List lista clientes del scope con búsqueda, orden y paginación. Devuelve también el total.
func (r *CustomerRepo) List(ctx context.Context, f repository.CustomerFilter) ([]*entity.Customer, int, error) {
	w := &where{}
	w.scope(f.Scope, "c.user_id")
	if f.FirstName != "" {
		w.add("c.first_name ILIKE ?", "%"+f.FirstName+"%")
	}
	if f.LastName != "" {
		w.add("c.last_name = ?", f.LastName)
	}
	if f.Company != "" {
		w.add("c.company = ?", f.Company)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM customers c`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	query := `SELECT ` + customerColumns + ` FROM customers c` + w.String() +
		orderBy(f.Order, customerOrderColumns, "c.created_at, c.id")
	query += w.limit(f.Page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

// Update actualiza datos y dueño del cliente.
func (r *CustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	query := `
		UPDATE customers
		SET user_id = $2, first_name = $3, last_name = $4, email = $5, company = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		customer.ID, customer.UserID, customer.FirstName, customer.LastName, customer.Email,
		nullIfEmpty(customer.Company), customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// Delete elimina un cliente; sus facturas se borran por ON DELETE CASCADE.
func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	if err := row.Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.Email, &c.Company, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
