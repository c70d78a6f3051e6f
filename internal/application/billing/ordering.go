package billing

import (
	"strings"

	"github.com/samber/lo"

	"github.com/jhoicas/facturas-api/internal/application/dto"
	"github.com/jhoicas/facturas-api/internal/domain"
	"github.com/jhoicas/facturas-api/internal/domain/repository"
)

// parseOrder convierte los order[campo]=asc|desc en criterios, rechazando campos no ordenables.
func parseOrder(params []dto.OrderParam, allowed []string) ([]repository.Order, error) {
	out := make([]repository.Order, 0, len(params))
	for _, p := range params {
		if !lo.Contains(allowed, p.Field) {
			return nil, domain.NewValidationError("order["+p.Field+"]", "campo no ordenable; use uno de: "+strings.Join(allowed, ", "))
		}
		switch strings.ToLower(p.Direction) {
		case "", "asc":
			out = append(out, repository.Order{Field: p.Field})
		case "desc":
			out = append(out, repository.Order{Field: p.Field, Desc: true})
		default:
			return nil, domain.NewValidationError("order["+p.Field+"]", "debe ser asc o desc")
		}
	}
	return out, nil
}
