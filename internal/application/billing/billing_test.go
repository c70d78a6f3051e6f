package billing_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturas-api/internal/application/billing"
	"github.com/jhoicas/facturas-api/internal/application/chrono"
	"github.com/jhoicas/facturas-api/internal/application/dto"
	"github.com/jhoicas/facturas-api/internal/domain"
	"github.com/jhoicas/facturas-api/internal/domain/entity"
	"github.com/jhoicas/facturas-api/internal/infrastructure/memory"
)

var (
	ana   = entity.Identity{UserID: "u-ana", Role: entity.RoleUser}
	luis  = entity.Identity{UserID: "u-luis", Role: entity.RoleUser}
	admin = entity.Identity{UserID: "u-admin", Role: entity.RoleAdmin}
)

type fixture struct {
	store     *memory.Store
	customers *billing.CustomerUseCase
	invoices  *billing.InvoiceUseCase
	recorder  *countingRecorder
}

type countingRecorder struct {
	mu                 sync.Mutex
	created, increment int
}

func (r *countingRecorder) InvoiceCreated() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created++
}

func (r *countingRecorder) ChronoIncremented() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.increment++
}

type stubRenderer struct{ doc billing.InvoiceDocument }

func (s *stubRenderer) Render(doc billing.InvoiceDocument) ([]byte, error) {
	s.doc = doc
	return []byte("%PDF-1.4"), nil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	for _, u := range []entity.User{
		{ID: ana.UserID, Email: "ana@example.com", FirstName: "Ana", LastName: "Pérez", Role: entity.RoleUser},
		{ID: luis.UserID, Email: "luis@example.com", FirstName: "Luis", LastName: "Gómez", Role: entity.RoleUser},
		{ID: admin.UserID, Email: "admin@example.com", FirstName: "Root", LastName: "Admin", Role: entity.RoleAdmin},
	} {
		u := u
		require.NoError(t, store.Users().Create(ctx, &u))
	}

	paging := billing.Paging{ItemsPerPage: 20, MaxItemsPerPage: 100}
	rec := &countingRecorder{}
	return &fixture{
		store:     store,
		customers: billing.NewCustomerUseCase(store.Customers(), store.Invoices(), store.Users(), paging),
		invoices: billing.NewInvoiceUseCase(billing.InvoiceDeps{
			Tx:        store,
			Customers: store.Customers(),
			Invoices:  store.Invoices(),
			Users:     store.Users(),
			Sequencer: chrono.NewSequencer(true),
			Recorder:  rec,
			Renderer:  &stubRenderer{},
			Paging:    paging,
		}),
		recorder: rec,
	}
}

func (f *fixture) customer(t *testing.T, who entity.Identity, firstName string) *dto.CustomerRead {
	t.Helper()
	c, err := f.customers.Create(context.Background(), who, dto.CustomerRequest{
		FirstName: firstName,
		LastName:  "Ruiz",
		Email:     firstName + "@cliente.com",
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) invoice(t *testing.T, who entity.Identity, customerID, amount string) *dto.InvoiceRead {
	t.Helper()
	inv, err := f.invoices.Create(context.Background(), who, dto.InvoiceRequest{
		Customer: customerID,
		Amount:   dto.NewAmount(amount),
		Status:   entity.InvoiceStatusSent,
	})
	require.NoError(t, err)
	return inv
}

func TestCustomerCreate_AsignaDuenoAlSolicitante(t *testing.T) {
	f := newFixture(t)

	c := f.customer(t, ana, "Carla")
	assert.Equal(t, ana.UserID, c.User)
	assert.Empty(t, c.Invoices)
	assert.True(t, c.TotalAmount.IsZero())
}

func TestCustomerCreate_AdminPuedeElegirDueno(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.customers.Create(ctx, admin, dto.CustomerRequest{FirstName: "Carla", LastName: "Ruiz", Email: "c@x.com", User: luis.UserID})
	require.NoError(t, err)
	assert.Equal(t, luis.UserID, c.User)

	_, err = f.customers.Create(ctx, admin, dto.CustomerRequest{FirstName: "Carla", LastName: "Ruiz", Email: "c@x.com", User: "no-existe"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "user", verr.Violations[0].Field)
}

func TestCustomerCreate_UsuarioNoPuedeCrearParaOtro(t *testing.T) {
	f := newFixture(t)

	c, err := f.customers.Create(context.Background(), ana, dto.CustomerRequest{FirstName: "Carla", LastName: "Ruiz", Email: "c@x.com", User: luis.UserID})
	require.NoError(t, err)
	assert.Equal(t, ana.UserID, c.User, "el campo user se ignora para no admins")
}

func TestCustomerCreate_Validacion(t *testing.T) {
	f := newFixture(t)

	_, err := f.customers.Create(context.Background(), ana, dto.CustomerRequest{FirstName: "Al", Email: "no-es-email"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Violations, 3)
}

func TestCustomerScope_AjenoEsNoEncontrado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.customer(t, ana, "Carla")

	_, err := f.customers.Get(ctx, luis, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.customers.Delete(ctx, luis, c.ID), domain.ErrNotFound)

	got, err := f.customers.Get(ctx, admin, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
}

func TestCustomerPatch_UsuarioNoPuedeReasignar(t *testing.T) {
	f := newFixture(t)
	c := f.customer(t, ana, "Carla")

	other := luis.UserID
	_, err := f.customers.Patch(context.Background(), ana, c.ID, dto.PatchCustomerRequest{User: &other})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	company := "ACME"
	got, err := f.customers.Patch(context.Background(), ana, c.ID, dto.PatchCustomerRequest{Company: &company})
	require.NoError(t, err)
	assert.Equal(t, "ACME", got.Company)
	assert.Equal(t, "Carla", got.FirstName)
}

func TestCustomerList_TotalYFacturas(t *testing.T) {
	f := newFixture(t)
	c := f.customer(t, ana, "Carla")
	f.customer(t, luis, "Camila")
	f.invoice(t, ana, c.ID, "100.50")
	f.invoice(t, ana, c.ID, "200")

	res, err := f.customers.List(context.Background(), ana, dto.CustomerListQuery{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 20, res.ItemsPerPage)
	assert.Equal(t, "300.5", res.Items[0].TotalAmount.String())
	assert.Len(t, res.Items[0].Invoices, 2)

	all, err := f.customers.List(context.Background(), admin, dto.CustomerListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)
}

func TestCustomerList_OrdenInvalido(t *testing.T) {
	f := newFixture(t)

	_, err := f.customers.List(context.Background(), ana, dto.CustomerListQuery{
		Order: []dto.OrderParam{{Field: "password", Direction: "asc"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInvoiceCreate_ChronoConsecutivoPorUsuario(t *testing.T) {
	f := newFixture(t)
	c1 := f.customer(t, ana, "Carla")
	c2 := f.customer(t, ana, "Marta")
	other := f.customer(t, luis, "Pablo")

	assert.Equal(t, 1, f.invoice(t, ana, c1.ID, "100").Chrono)
	assert.Equal(t, 2, f.invoice(t, ana, c1.ID, "100").Chrono)
	// misma secuencia entre clientes del mismo usuario
	assert.Equal(t, 3, f.invoice(t, ana, c2.ID, "100").Chrono)
	// otro usuario empieza en 1
	assert.Equal(t, 1, f.invoice(t, luis, other.ID, "100").Chrono)
	assert.Equal(t, 4, f.invoice(t, ana, c2.ID, "100").Chrono)
	assert.Equal(t, 5, f.recorder.created)
}

func TestInvoiceCreate_AdminUsaSecuenciaDelDueno(t *testing.T) {
	f := newFixture(t)
	c := f.customer(t, ana, "Carla")
	f.invoice(t, ana, c.ID, "100")

	inv := f.invoice(t, admin, c.ID, "100")
	assert.Equal(t, 2, inv.Chrono)
	assert.Equal(t, ana.UserID, inv.Customer.User)
}

func TestInvoiceCreate_SentAtPorDefecto(t *testing.T) {
	f := newFixture(t)
	c := f.customer(t, ana, "Carla")

	before := time.Now()
	inv := f.invoice(t, ana, c.ID, "100")
	assert.False(t, inv.SentAt.Before(before))

	sent := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	got, err := f.invoices.Create(context.Background(), ana, dto.InvoiceRequest{
		Customer: c.ID, Amount: dto.NewAmount("50"), Status: entity.InvoiceStatusPaid, SentAt: &sent,
	})
	require.NoError(t, err)
	assert.True(t, sent.Equal(got.SentAt))
}

func TestInvoiceCreate_ClienteAjenoEsViolacion(t *testing.T) {
	f := newFixture(t)
	c := f.customer(t, ana, "Carla")

	_, err := f.invoices.Create(context.Background(), luis, dto.InvoiceRequest{
		Customer: c.ID, Amount: dto.NewAmount("10"), Status: entity.InvoiceStatusSent,
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "customer", verr.Violations[0].Field)
	assert.Equal(t, 0, f.recorder.created)
}

func TestInvoiceCreate_MontoInvalido(t *testing.T) {
	f := newFixture(t)
	c := f.customer(t, ana, "Carla")

	_, err := f.invoices.Create(context.Background(), ana, dto.InvoiceRequest{
		Customer: c.ID, Amount: dto.NewAmount("abc"), Status: "DRAFT",
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Violations, 2)
}

func TestInvoiceCreate_Concurrente_SinDuplicados(t *testing.T) {
	f := newFixture(t)
	c := f.customer(t, ana, "Carla")

	const n = 20
	chronos := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inv, err := f.invoices.Create(context.Background(), ana, dto.InvoiceRequest{
				Customer: c.ID, Amount: dto.NewAmount("1"), Status: entity.InvoiceStatusSent,
			})
			if err == nil {
				chronos <- inv.Chrono
			}
		}()
	}
	wg.Wait()
	close(chronos)

	seen := map[int]bool{}
	for ch := range chronos {
		assert.False(t, seen[ch], "chrono duplicado %d", ch)
		seen[ch] = true
	}
	assert.Len(t, seen, n)
}

func TestInvoiceIncrement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.customer(t, ana, "Carla")
	var inv *dto.InvoiceRead
	for i := 0; i < 5; i++ {
		inv = f.invoice(t, ana, c.ID, "10")
	}
	require.Equal(t, 5, inv.Chrono)

	got, err := f.invoices.Increment(ctx, ana, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Chrono)
	got, err = f.invoices.Increment(ctx, ana, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Chrono)
	assert.Equal(t, 2, f.recorder.increment)

	stored, err := f.invoices.Get(ctx, ana, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.Chrono)

	_, err = f.invoices.Increment(ctx, luis, inv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.invoices.Increment(ctx, ana, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoiceReplace_ConservaChrono(t *testing.T) {
	f := newFixture(t)
	c := f.customer(t, ana, "Carla")
	f.invoice(t, ana, c.ID, "10")
	inv := f.invoice(t, ana, c.ID, "10")

	got, err := f.invoices.Replace(context.Background(), ana, inv.ID, dto.InvoiceRequest{
		Customer: c.ID, Amount: dto.NewAmount("99.90"), Status: entity.InvoiceStatusPaid,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, got.Chrono)
	assert.Equal(t, "99.9", got.Amount.String())
	assert.Equal(t, entity.InvoiceStatusPaid, got.Status)
}

func TestInvoicePatch_SoloCamposPresentes(t *testing.T) {
	f := newFixture(t)
	c := f.customer(t, ana, "Carla")
	inv := f.invoice(t, ana, c.ID, "10")

	status := entity.InvoiceStatusCancelled
	got, err := f.invoices.Patch(context.Background(), ana, inv.ID, dto.PatchInvoiceRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusCancelled, got.Status)
	assert.Equal(t, "10", got.Amount.String())
	assert.Equal(t, c.ID, got.Customer.ID)

	other := f.customer(t, luis, "Pablo")
	_, err = f.invoices.Patch(context.Background(), ana, inv.ID, dto.PatchInvoiceRequest{Customer: &other.ID})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestInvoiceList_PorDefectoSentAtDesc(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.customer(t, ana, "Carla")
	for i, day := range []int{5, 20, 12} {
		sent := time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)
		_, err := f.invoices.Create(ctx, ana, dto.InvoiceRequest{
			Customer: c.ID, Amount: dto.NewAmount("1"), Status: entity.InvoiceStatusSent, SentAt: &sent,
		})
		require.NoError(t, err, i)
	}

	res, err := f.invoices.List(ctx, ana, dto.InvoiceListQuery{})
	require.NoError(t, err)
	require.Len(t, res.Items, 3)
	assert.Equal(t, 20, res.Items[0].SentAt.Day())
	assert.Equal(t, 12, res.Items[1].SentAt.Day())
	assert.Equal(t, 5, res.Items[2].SentAt.Day())
	assert.Equal(t, c.ID, res.Items[0].Customer.ID)

	asc, err := f.invoices.List(ctx, ana, dto.InvoiceListQuery{Order: []dto.OrderParam{{Field: "chrono", Direction: "asc"}}})
	require.NoError(t, err)
	assert.Equal(t, 1, asc.Items[0].Chrono)

	none, err := f.invoices.List(ctx, luis, dto.InvoiceListQuery{})
	require.NoError(t, err)
	assert.Empty(t, none.Items)
	assert.Equal(t, 0, none.Total)
}

func TestCustomerInvoices_SubRecurso(t *testing.T) {
	f := newFixture(t)
	c := f.customer(t, ana, "Carla")
	f.invoice(t, ana, c.ID, "10")
	f.invoice(t, ana, c.ID, "20")

	res, err := f.customers.Invoices(context.Background(), ana, c.ID, dto.PageRequest{ItemsPerPage: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 1, res.Items[0].Chrono)

	_, err = f.customers.Invoices(context.Background(), luis, c.ID, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerDelete_BorraFacturas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.customer(t, ana, "Carla")
	inv := f.invoice(t, ana, c.ID, "10")

	require.NoError(t, f.customers.Delete(ctx, ana, c.ID))
	_, err := f.invoices.Get(ctx, ana, inv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoicePDF_ResuelveEmisor(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: ana.UserID, Email: "ana@example.com", FirstName: "Ana", Role: entity.RoleUser}))
	renderer := &stubRenderer{}
	paging := billing.Paging{ItemsPerPage: 20, MaxItemsPerPage: 100}
	customers := billing.NewCustomerUseCase(store.Customers(), store.Invoices(), store.Users(), paging)
	invoices := billing.NewInvoiceUseCase(billing.InvoiceDeps{
		Tx: store, Customers: store.Customers(), Invoices: store.Invoices(), Users: store.Users(),
		Renderer: renderer, Paging: paging,
	})

	c, err := customers.Create(ctx, ana, dto.CustomerRequest{FirstName: "Carla", LastName: "Ruiz", Email: "c@x.com"})
	require.NoError(t, err)
	inv, err := invoices.Create(ctx, ana, dto.InvoiceRequest{Customer: c.ID, Amount: dto.NewAmount("10"), Status: entity.InvoiceStatusSent})
	require.NoError(t, err)

	pdf, got, err := invoices.PDF(ctx, ana, inv.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, 1, got.Chrono)
	assert.Equal(t, "Ana", renderer.doc.Issuer.FirstName)
	assert.Equal(t, "Carla", renderer.doc.Customer.FirstName)

	_, _, err = invoices.PDF(ctx, entity.Identity{UserID: "otro", Role: entity.RoleUser}, inv.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
