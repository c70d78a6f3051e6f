package dto

// CustomerRequest body para POST y PUT /api/customers.
// User solo lo puede fijar un admin; para el resto el dueño es quien crea.
type CustomerRequest struct {
	FirstName string `json:"firstName" validate:"required,min=3,max=255"`
	LastName  string `json:"lastName" validate:"required,max=255"`
	Email     string `json:"email" validate:"required,email"`
	Company   string `json:"company" validate:"omitempty,max=255"`
	User      string `json:"user,omitempty"`
}

// PatchCustomerRequest body para PATCH /api/customers/:id; solo se aplican los campos presentes.
type PatchCustomerRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=3,max=255"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=255"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Company   *string `json:"company" validate:"omitempty,max=255"`
	User      *string `json:"user,omitempty"`
}

// CustomerListQuery filtros de GET /api/customers.
type CustomerListQuery struct {
	FirstName string
	LastName  string
	Company   string
	Order     []OrderParam
	PageRequest
}
