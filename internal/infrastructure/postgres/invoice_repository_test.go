package postgres

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturas-api/internal/domain/entity"
	"github.com/jhoicas/facturas-api/internal/domain/repository"
)

// sqlPattern regex que compara la consulta palabra por palabra, sin importar espacios y saltos de línea.
func sqlPattern(query string) string {
	words := strings.Fields(query)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return `^\s*` + strings.Join(words, `\s+`) + `\s*$`
}

func newMockRepo(t *testing.T) (*InvoiceRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewInvoiceRepository(mock), mock
}

var invoiceColumnNames = []string{"id", "customer_id", "amount", "sent_at", "status", "chrono", "created_at", "updated_at"}

const lastChronoSQL = `SELECT i.chrono FROM invoices i
	JOIN customers c ON c.id = i.customer_id
	WHERE c.user_id = $1
	ORDER BY i.chrono DESC
	LIMIT 1`

func TestLastChrono_MaximoDelUsuario(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(sqlPattern(lastChronoSQL)).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"chrono"}).AddRow(7))

	last, err := repo.LastChrono(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 7, last)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLastChrono_SinFacturasEsCero(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(sqlPattern(lastChronoSQL)).
		WithArgs("u1").
		WillReturnError(pgx.ErrNoRows)

	last, err := repo.LastChrono(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, last)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLastChrono_PropagaOtrosErrores(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("conexión perdida")
	mock.ExpectQuery(sqlPattern(lastChronoSQL)).
		WithArgs("u1").
		WillReturnError(boom)

	_, err := repo.LastChrono(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceGetByID_ScopePorDuenoDelCliente(t *testing.T) {
	repo, mock := newMockRepo(t)
	from := `SELECT ` + invoiceColumns + ` FROM invoices i JOIN customers c ON c.id = i.customer_id`

	mock.ExpectQuery(sqlPattern(from+` WHERE i.id = $1 AND c.user_id = $2`)).
		WithArgs("i1", "u1").
		WillReturnError(pgx.ErrNoRows)

	inv, err := repo.GetByID(context.Background(), entity.Scope{UserID: "u1"}, "i1")
	require.NoError(t, err)
	assert.Nil(t, inv, "fuera del scope se reporta como inexistente")

	sentAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(sqlPattern(from+` WHERE i.id = $1`)).
		WithArgs("i1").
		WillReturnRows(pgxmock.NewRows(invoiceColumnNames).
			AddRow("i1", "c1", decimal.RequireFromString("150.50"), sentAt, entity.InvoiceStatusPaid, 4, sentAt, sentAt))

	inv, err = repo.GetByID(context.Background(), entity.Scope{All: true}, "i1")
	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.Equal(t, "c1", inv.CustomerID)
	assert.Equal(t, 4, inv.Chrono)
	assert.True(t, inv.Amount.Equal(decimal.RequireFromString("150.5")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceList_ScopeOrdenYPaginacion(t *testing.T) {
	repo, mock := newMockRepo(t)
	from := ` FROM invoices i JOIN customers c ON c.id = i.customer_id WHERE c.user_id = $1`

	mock.ExpectQuery(sqlPattern(`SELECT count(*)` + from)).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(sqlPattern(`SELECT ` + invoiceColumns + from +
		` ORDER BY i.sent_at DESC, i.created_at, i.id LIMIT $2 OFFSET $3`)).
		WithArgs("u1", 2, 2).
		WillReturnRows(pgxmock.NewRows(invoiceColumnNames).
			AddRow("i3", "c1", decimal.NewFromInt(10), time.Now(), entity.InvoiceStatusSent, 1, time.Now(), time.Now()))

	list, total, err := repo.List(context.Background(), repository.InvoiceFilter{
		Scope: entity.Scope{UserID: "u1"},
		Order: []repository.Order{{Field: "sentAt", Desc: true}},
		Page:  repository.Page{Number: 2, Size: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, list, 1)
	assert.Equal(t, "i3", list[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockChrono_AdvisoryLockPorUsuario(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(sqlPattern(`SELECT pg_advisory_xact_lock(hashtext($1))`)).
		WithArgs("u1").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))

	require.NoError(t, repo.LockChrono(context.Background(), "u1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
