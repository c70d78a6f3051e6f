package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/facturas-api/internal/domain/entity"
	"github.com/jhoicas/facturas-api/internal/domain/repository"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// where acumula condiciones y argumentos numerando los placeholders ($1, $2...).
type where struct {
	conds []string
	args  []any
}

// add agrega la condición; cada "?" se reemplaza por el siguiente placeholder.
func (w *where) add(cond string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

// scope restringe al dueño indicado salvo que el scope sea global.
func (w *where) scope(s entity.Scope, column string) {
	if s.All {
		return
	}
	w.add(column+" = ?", s.UserID)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// limit agrega LIMIT/OFFSET de la página como argumentos.
func (w *where) limit(p repository.Page) string {
	if p.Size <= 0 {
		return ""
	}
	w.args = append(w.args, p.Size, p.Offset())
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(w.args)-1, len(w.args))
}

// orderBy traduce los criterios a SQL con las columnas permitidas; tiebreak asegura un orden estable.
func orderBy(order []repository.Order, columns map[string]string, tiebreak string) string {
	parts := make([]string, 0, len(order)+1)
	for _, o := range order {
		col, ok := columns[o.Field]
		if !ok {
			continue
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	parts = append(parts, tiebreak)
	return " ORDER BY " + strings.Join(parts, ", ")
}
