package billing

import (
	"context"

	"github.com/jhoicas/facturas-api/internal/application/dto"
	"github.com/jhoicas/facturas-api/internal/domain/entity"
	"github.com/jhoicas/facturas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con repos de clientes y facturas
// atados a ella. Si fn retorna error se hace rollback.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(customers repository.CustomerRepository, invoices repository.InvoiceRepository) error) error
}

// Recorder métricas de negocio de facturación.
type Recorder interface {
	InvoiceCreated()
	ChronoIncremented()
}

type nopRecorder struct{}

func (nopRecorder) InvoiceCreated()    {}
func (nopRecorder) ChronoIncremented() {}

// InvoiceWrite lo que reciben los hooks de escritura de facturas: la factura, su cliente
// ya resuelto y el repositorio atado a la transacción en curso.
type InvoiceWrite struct {
	Invoice  *entity.Invoice
	Customer *entity.Customer
	Invoices repository.InvoiceRepository
}

// Paging tamaño de página por defecto y máximo de los listados.
type Paging struct {
	ItemsPerPage    int
	MaxItemsPerPage int
}

func (p Paging) page(in dto.PageRequest) (dto.PageRequest, repository.Page) {
	in.Normalize(p.ItemsPerPage, p.MaxItemsPerPage)
	return in, repository.Page{Number: in.Page, Size: in.ItemsPerPage}
}
