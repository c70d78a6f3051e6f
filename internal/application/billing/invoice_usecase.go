package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturas-api/internal/application/chrono"
	"github.com/jhoicas/facturas-api/internal/application/dto"
	"github.com/jhoicas/facturas-api/internal/application/hooks"
	"github.com/jhoicas/facturas-api/internal/domain"
	"github.com/jhoicas/facturas-api/internal/domain/entity"
	"github.com/jhoicas/facturas-api/internal/domain/repository"
	"github.com/jhoicas/facturas-api/pkg/logger"
)

// InvoiceRenderer genera el documento imprimible de una factura.
type InvoiceRenderer interface {
	Render(doc InvoiceDocument) ([]byte, error)
}

// InvoiceDocument datos que necesita el PDF: la factura, su cliente y el usuario emisor.
type InvoiceDocument struct {
	Invoice  *entity.Invoice
	Customer *entity.Customer
	Issuer   *entity.User
}

// InvoiceUseCase casos de uso para facturas.
type InvoiceUseCase struct {
	tx        TxRunner
	customers repository.CustomerRepository
	invoices  repository.InvoiceRepository
	users     repository.UserRepository
	hooks     *hooks.Registry[InvoiceWrite]
	recorder  Recorder
	renderer  InvoiceRenderer
	paging    Paging
	log       *logger.Logger
	now       func() time.Time
}

// InvoiceDeps dependencias de InvoiceUseCase. Recorder, Renderer y Log son opcionales.
type InvoiceDeps struct {
	Tx        TxRunner
	Customers repository.CustomerRepository
	Invoices  repository.InvoiceRepository
	Users     repository.UserRepository
	Sequencer *chrono.Sequencer
	Recorder  Recorder
	Renderer  InvoiceRenderer
	Paging    Paging
	Log       *logger.Logger
}

// NewInvoiceUseCase construye el caso de uso. El alta asigna el chrono mediante un hook.
func NewInvoiceUseCase(d InvoiceDeps) *InvoiceUseCase {
	uc := &InvoiceUseCase{
		tx:        d.Tx,
		customers: d.Customers,
		invoices:  d.Invoices,
		users:     d.Users,
		hooks:     &hooks.Registry[InvoiceWrite]{},
		recorder:  d.Recorder,
		renderer:  d.Renderer,
		paging:    d.Paging,
		log:       d.Log,
		now:       time.Now,
	}
	if uc.recorder == nil {
		uc.recorder = nopRecorder{}
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	seq := d.Sequencer
	if seq == nil {
		seq = chrono.NewSequencer(false)
	}
	uc.hooks.OnCreate(AssignChrono(seq))
	return uc
}

// AssignChrono hook de alta: siguiente chrono del dueño del cliente, leído en la transacción.
func AssignChrono(seq *chrono.Sequencer) hooks.Func[InvoiceWrite] {
	return func(ctx context.Context, _ entity.Identity, w *InvoiceWrite) error {
		return seq.Assign(ctx, w.Invoices, w.Customer.UserID, w.Invoice)
	}
}

// Create da de alta una factura para un cliente visible por el solicitante.
func (uc *InvoiceUseCase) Create(ctx context.Context, who entity.Identity, in dto.InvoiceRequest) (*dto.InvoiceRead, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	amount, err := in.Amount.Decimal()
	if err != nil {
		return nil, domain.NewValidationError("amount", "debe ser un valor numérico")
	}

	now := uc.now()
	invoice := &entity.Invoice{
		ID:        uuid.New().String(),
		Amount:    amount,
		Status:    in.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.SentAt != nil {
		invoice.SentAt = *in.SentAt
	}

	var customer *entity.Customer
	err = uc.tx.RunInTx(ctx, func(customers repository.CustomerRepository, invoices repository.InvoiceRepository) error {
		c, err := customers.GetByID(ctx, who.Scope(), in.Customer)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.NewValidationError("customer", "el cliente no existe")
		}
		customer = c
		invoice.CustomerID = c.ID
		w := &InvoiceWrite{Invoice: invoice, Customer: c, Invoices: invoices}
		if err := uc.hooks.RunCreate(ctx, who, w); err != nil {
			return err
		}
		return invoices.Create(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.InvoiceCreated()
	uc.log.Info().
		Str("invoice_id", invoice.ID).
		Str("customer_id", customer.ID).
		Str("user_id", customer.UserID).
		Int("chrono", invoice.Chrono).
		Msg("factura creada")

	out := dto.NewInvoiceRead(invoice, customer)
	return &out, nil
}

// Get devuelve una factura visible con su cliente embebido.
func (uc *InvoiceUseCase) Get(ctx context.Context, who entity.Identity, id string) (*dto.InvoiceRead, error) {
	invoice, err := uc.load(ctx, uc.invoices, who, id)
	if err != nil {
		return nil, err
	}
	customer, err := uc.customers.GetByID(ctx, who.Scope(), invoice.CustomerID)
	if err != nil {
		return nil, err
	}
	out := dto.NewInvoiceRead(invoice, customer)
	return &out, nil
}

// List lista las facturas visibles. Sin order explícito se ordena por sentAt descendente.
func (uc *InvoiceUseCase) List(ctx context.Context, who entity.Identity, q dto.InvoiceListQuery) (*dto.ListResponse[dto.InvoiceRead], error) {
	order, err := parseOrder(q.Order, repository.InvoiceOrderFields)
	if err != nil {
		return nil, err
	}
	if len(order) == 0 {
		order = []repository.Order{{Field: "sentAt", Desc: true}}
	}
	pageReq, page := uc.paging.page(q.PageRequest)
	list, total, err := uc.invoices.List(ctx, repository.InvoiceFilter{
		Scope: who.Scope(),
		Order: order,
		Page:  page,
	})
	if err != nil {
		return nil, err
	}

	customers, err := uc.customersOf(ctx, who, list)
	if err != nil {
		return nil, err
	}
	return &dto.ListResponse[dto.InvoiceRead]{
		Items: lo.Map(list, func(inv *entity.Invoice, _ int) dto.InvoiceRead {
			return dto.NewInvoiceRead(inv, customers[inv.CustomerID])
		}),
		Page:         pageReq.Page,
		ItemsPerPage: pageReq.ItemsPerPage,
		Total:        total,
	}, nil
}

// Replace reemplaza monto, fecha, estado y cliente (PUT). El chrono se conserva.
func (uc *InvoiceUseCase) Replace(ctx context.Context, who entity.Identity, id string, in dto.InvoiceRequest) (*dto.InvoiceRead, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	amount, err := in.Amount.Decimal()
	if err != nil {
		return nil, domain.NewValidationError("amount", "debe ser un valor numérico")
	}
	return uc.update(ctx, who, id, func(inv *entity.Invoice) string {
		inv.Amount = amount
		inv.Status = in.Status
		if in.SentAt != nil {
			inv.SentAt = *in.SentAt
		}
		return in.Customer
	})
}

// Patch aplica solo los campos presentes (PATCH).
func (uc *InvoiceUseCase) Patch(ctx context.Context, who entity.Identity, id string, in dto.PatchInvoiceRequest) (*dto.InvoiceRead, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var amount *decimal.Decimal
	if in.Amount.IsSet() {
		d, err := in.Amount.Decimal()
		if err != nil {
			return nil, domain.NewValidationError("amount", "debe ser un valor numérico")
		}
		amount = &d
	}
	return uc.update(ctx, who, id, func(inv *entity.Invoice) string {
		if amount != nil {
			inv.Amount = *amount
		}
		if in.SentAt != nil {
			inv.SentAt = *in.SentAt
		}
		if in.Status != nil {
			inv.Status = *in.Status
		}
		if in.Customer != nil {
			return *in.Customer
		}
		return inv.CustomerID
	})
}

// Delete elimina una factura visible.
func (uc *InvoiceUseCase) Delete(ctx context.Context, who entity.Identity, id string) error {
	invoice, err := uc.load(ctx, uc.invoices, who, id)
	if err != nil {
		return err
	}
	return uc.invoices.Delete(ctx, invoice.ID)
}

// Increment sube en 1 el chrono de la factura y la persiste. No es idempotente.
func (uc *InvoiceUseCase) Increment(ctx context.Context, who entity.Identity, id string) (*dto.InvoiceRead, error) {
	var invoice *entity.Invoice
	var customer *entity.Customer
	err := uc.tx.RunInTx(ctx, func(customers repository.CustomerRepository, invoices repository.InvoiceRepository) error {
		inv, err := uc.load(ctx, invoices, who, id)
		if err != nil {
			return err
		}
		chrono.Increment(inv)
		inv.UpdatedAt = uc.now()
		if err := invoices.Update(ctx, inv); err != nil {
			return err
		}
		invoice = inv
		customer, err = customers.GetByID(ctx, who.Scope(), inv.CustomerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.ChronoIncremented()
	uc.log.Info().Str("invoice_id", invoice.ID).Int("chrono", invoice.Chrono).Msg("chrono incrementado")

	out := dto.NewInvoiceRead(invoice, customer)
	return &out, nil
}

// PDF genera el documento imprimible de una factura visible.
func (uc *InvoiceUseCase) PDF(ctx context.Context, who entity.Identity, id string) ([]byte, *entity.Invoice, error) {
	if uc.renderer == nil {
		return nil, nil, fmt.Errorf("pdf: generador no configurado")
	}
	invoice, err := uc.load(ctx, uc.invoices, who, id)
	if err != nil {
		return nil, nil, err
	}
	customer, err := uc.customers.GetByID(ctx, who.Scope(), invoice.CustomerID)
	if err != nil {
		return nil, nil, err
	}
	if customer == nil {
		return nil, nil, domain.ErrNotFound
	}
	issuer, err := uc.users.GetByID(ctx, customer.UserID)
	if err != nil {
		return nil, nil, err
	}
	if issuer == nil {
		return nil, nil, domain.ErrUserNotFound
	}

	pdf, err := uc.renderer.Render(InvoiceDocument{Invoice: invoice, Customer: customer, Issuer: issuer})
	if err != nil {
		return nil, nil, fmt.Errorf("pdf: generar factura %s: %w", invoice.ID, err)
	}
	return pdf, invoice, nil
}

// update carga la factura, aplica apply (que devuelve el id de cliente destino) y la guarda.
func (uc *InvoiceUseCase) update(ctx context.Context, who entity.Identity, id string, apply func(inv *entity.Invoice) string) (*dto.InvoiceRead, error) {
	var invoice *entity.Invoice
	var customer *entity.Customer
	err := uc.tx.RunInTx(ctx, func(customers repository.CustomerRepository, invoices repository.InvoiceRepository) error {
		inv, err := uc.load(ctx, invoices, who, id)
		if err != nil {
			return err
		}
		customerID := apply(inv)
		c, err := customers.GetByID(ctx, who.Scope(), customerID)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.NewValidationError("customer", "el cliente no existe")
		}
		inv.CustomerID = c.ID
		if err := uc.hooks.RunUpdate(ctx, who, &InvoiceWrite{Invoice: inv, Customer: c, Invoices: invoices}); err != nil {
			return err
		}
		inv.UpdatedAt = uc.now()
		if err := invoices.Update(ctx, inv); err != nil {
			return err
		}
		invoice, customer = inv, c
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewInvoiceRead(invoice, customer)
	return &out, nil
}

func (uc *InvoiceUseCase) load(ctx context.Context, invoices repository.InvoiceRepository, who entity.Identity, id string) (*entity.Invoice, error) {
	invoice, err := invoices.GetByID(ctx, who.Scope(), id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	return invoice, nil
}

// customersOf resuelve los clientes de una página de facturas.
func (uc *InvoiceUseCase) customersOf(ctx context.Context, who entity.Identity, list []*entity.Invoice) (map[string]*entity.Customer, error) {
	out := make(map[string]*entity.Customer)
	for _, id := range lo.Uniq(lo.Map(list, func(inv *entity.Invoice, _ int) string { return inv.CustomerID })) {
		c, err := uc.customers.GetByID(ctx, who.Scope(), id)
		if err != nil {
			return nil, err
		}
		if c != nil {
			out[id] = c
		}
	}
	return out, nil
}
