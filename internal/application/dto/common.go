package dto

import "github.com/jhoicas/facturas-api/internal/domain"

// PageRequest paginación de listados (?page=1&itemsPerPage=20).
type PageRequest struct {
	Page         int
	ItemsPerPage int
}

// Normalize aplica valores por defecto y el máximo permitido.
func (p *PageRequest) Normalize(defaultSize, maxSize int) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.ItemsPerPage <= 0 {
		p.ItemsPerPage = defaultSize
	}
	if p.ItemsPerPage > maxSize {
		p.ItemsPerPage = maxSize
	}
}

// OrderParam criterio order[campo]=asc|desc en el orden en que llegó en la query.
type OrderParam struct {
	Field     string
	Direction string
}

// ListResponse colección paginada.
type ListResponse[T any] struct {
	Items        []T `json:"items"`
	Page         int `json:"page"`
	ItemsPerPage int `json:"itemsPerPage"`
	Total        int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code       string             `json:"code"`
	Message    string             `json:"message"`
	Violations []domain.Violation `json:"violations,omitempty"`
}
