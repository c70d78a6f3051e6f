package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/jhoicas/facturas-api/internal/application/dto"
	"github.com/jhoicas/facturas-api/internal/application/hooks"
	"github.com/jhoicas/facturas-api/internal/domain"
	"github.com/jhoicas/facturas-api/internal/domain/entity"
	"github.com/jhoicas/facturas-api/internal/domain/repository"
)

// CustomerUseCase casos de uso para clientes. Todas las operaciones reciben la identidad
// del solicitante y aplican su scope.
type CustomerUseCase struct {
	customers repository.CustomerRepository
	invoices  repository.InvoiceRepository
	users     repository.UserRepository
	hooks     *hooks.Registry[entity.Customer]
	paging    Paging
	now       func() time.Time
}

// NewCustomerUseCase construye el caso de uso y registra los hooks de dueño.
func NewCustomerUseCase(
	customers repository.CustomerRepository,
	invoices repository.InvoiceRepository,
	users repository.UserRepository,
	paging Paging,
) *CustomerUseCase {
	uc := &CustomerUseCase{
		customers: customers,
		invoices:  invoices,
		users:     users,
		hooks:     &hooks.Registry[entity.Customer]{},
		paging:    paging,
		now:       time.Now,
	}
	uc.hooks.OnCreate(BindOwner).OnUpdate(KeepOwner)
	return uc
}

// BindOwner hook de alta: el creador pasa a ser el dueño. Un admin puede indicar otro dueño.
func BindOwner(_ context.Context, who entity.Identity, c *entity.Customer) error {
	if who.IsAdmin() && c.UserID != "" {
		return nil
	}
	if who.UserID == "" {
		return domain.ErrUnauthorized
	}
	c.UserID = who.UserID
	return nil
}

// KeepOwner hook de actualización: solo un admin puede reasignar el dueño.
func KeepOwner(_ context.Context, who entity.Identity, c *entity.Customer) error {
	if who.IsAdmin() {
		return nil
	}
	if c.UserID != who.UserID {
		return domain.ErrForbidden
	}
	return nil
}

// Create crea un cliente para el solicitante.
func (uc *CustomerUseCase) Create(ctx context.Context, who entity.Identity, in dto.CustomerRequest) (*dto.CustomerRead, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := uc.now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Company:   in.Company,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if who.IsAdmin() && in.User != "" {
		if err := uc.checkOwner(ctx, in.User); err != nil {
			return nil, err
		}
		customer.UserID = in.User
	}
	if err := uc.hooks.RunCreate(ctx, who, customer); err != nil {
		return nil, err
	}
	if err := uc.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	out := dto.NewCustomerRead(customer, nil)
	return &out, nil
}

// Get devuelve el cliente con sus facturas.
func (uc *CustomerUseCase) Get(ctx context.Context, who entity.Identity, id string) (*dto.CustomerRead, error) {
	customer, err := uc.load(ctx, who, id)
	if err != nil {
		return nil, err
	}
	invoices, err := uc.invoices.ListByCustomerIDs(ctx, []string{customer.ID})
	if err != nil {
		return nil, err
	}
	out := dto.NewCustomerRead(customer, invoices)
	return &out, nil
}

// List lista los clientes visibles con búsqueda, orden y paginación.
func (uc *CustomerUseCase) List(ctx context.Context, who entity.Identity, q dto.CustomerListQuery) (*dto.ListResponse[dto.CustomerRead], error) {
	order, err := parseOrder(q.Order, repository.CustomerOrderFields)
	if err != nil {
		return nil, err
	}
	pageReq, page := uc.paging.page(q.PageRequest)
	list, total, err := uc.customers.List(ctx, repository.CustomerFilter{
		Scope:     who.Scope(),
		FirstName: q.FirstName,
		LastName:  q.LastName,
		Company:   q.Company,
		Order:     order,
		Page:      page,
	})
	if err != nil {
		return nil, err
	}

	ids := lo.Map(list, func(c *entity.Customer, _ int) string { return c.ID })
	invoices, err := uc.invoices.ListByCustomerIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byCustomer := lo.GroupBy(invoices, func(inv *entity.Invoice) string { return inv.CustomerID })

	return &dto.ListResponse[dto.CustomerRead]{
		Items: lo.Map(list, func(c *entity.Customer, _ int) dto.CustomerRead {
			return dto.NewCustomerRead(c, byCustomer[c.ID])
		}),
		Page:         pageReq.Page,
		ItemsPerPage: pageReq.ItemsPerPage,
		Total:        total,
	}, nil
}

// Replace reemplaza los datos del cliente (PUT).
func (uc *CustomerUseCase) Replace(ctx context.Context, who entity.Identity, id string, in dto.CustomerRequest) (*dto.CustomerRead, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	customer, err := uc.load(ctx, who, id)
	if err != nil {
		return nil, err
	}
	customer.FirstName = in.FirstName
	customer.LastName = in.LastName
	customer.Email = in.Email
	customer.Company = in.Company
	if in.User != "" {
		customer.UserID = in.User
	}
	return uc.save(ctx, who, customer)
}

// Patch aplica solo los campos presentes (PATCH).
func (uc *CustomerUseCase) Patch(ctx context.Context, who entity.Identity, id string, in dto.PatchCustomerRequest) (*dto.CustomerRead, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	customer, err := uc.load(ctx, who, id)
	if err != nil {
		return nil, err
	}
	if in.FirstName != nil {
		customer.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		customer.LastName = *in.LastName
	}
	if in.Email != nil {
		customer.Email = *in.Email
	}
	if in.Company != nil {
		customer.Company = *in.Company
	}
	if in.User != nil && *in.User != "" {
		customer.UserID = *in.User
	}
	return uc.save(ctx, who, customer)
}

// Delete elimina el cliente y sus facturas.
func (uc *CustomerUseCase) Delete(ctx context.Context, who entity.Identity, id string) error {
	customer, err := uc.load(ctx, who, id)
	if err != nil {
		return err
	}
	return uc.customers.Delete(ctx, customer.ID)
}

// Invoices sub-recurso: facturas de un cliente, paginadas y ordenadas por chrono.
func (uc *CustomerUseCase) Invoices(ctx context.Context, who entity.Identity, id string, p dto.PageRequest) (*dto.ListResponse[dto.InvoiceSubresource], error) {
	customer, err := uc.load(ctx, who, id)
	if err != nil {
		return nil, err
	}
	pageReq, page := uc.paging.page(p)
	list, total, err := uc.invoices.List(ctx, repository.InvoiceFilter{
		Scope:      who.Scope(),
		CustomerID: customer.ID,
		Order:      []repository.Order{{Field: "chrono"}},
		Page:       page,
	})
	if err != nil {
		return nil, err
	}
	return &dto.ListResponse[dto.InvoiceSubresource]{
		Items:        lo.Map(list, func(inv *entity.Invoice, _ int) dto.InvoiceSubresource { return dto.NewInvoiceSubresource(inv) }),
		Page:         pageReq.Page,
		ItemsPerPage: pageReq.ItemsPerPage,
		Total:        total,
	}, nil
}

func (uc *CustomerUseCase) save(ctx context.Context, who entity.Identity, customer *entity.Customer) (*dto.CustomerRead, error) {
	if who.IsAdmin() {
		if err := uc.checkOwner(ctx, customer.UserID); err != nil {
			return nil, err
		}
	}
	if err := uc.hooks.RunUpdate(ctx, who, customer); err != nil {
		return nil, err
	}
	customer.UpdatedAt = uc.now()
	if err := uc.customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	invoices, err := uc.invoices.ListByCustomerIDs(ctx, []string{customer.ID})
	if err != nil {
		return nil, err
	}
	out := dto.NewCustomerRead(customer, invoices)
	return &out, nil
}

func (uc *CustomerUseCase) load(ctx context.Context, who entity.Identity, id string) (*entity.Customer, error) {
	customer, err := uc.customers.GetByID(ctx, who.Scope(), id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return customer, nil
}

func (uc *CustomerUseCase) checkOwner(ctx context.Context, userID string) error {
	owner, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if owner == nil {
		return domain.NewValidationError("user", "el usuario no existe")
	}
	return nil
}
