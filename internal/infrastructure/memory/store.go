// Package memory implementa los puertos de persistencia en memoria.
// Se usa con STORAGE_DRIVER=memory (desarrollo local) y en los tests de handlers.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/facturas-api/internal/domain/repository"
)

// Store datos compartidos por los repositorios en memoria.
type Store struct {
	mu        sync.RWMutex
	seq       int64
	users     map[string]userRow
	customers map[string]customerRow
	invoices  map[string]invoiceRow

	// txMu serializa las transacciones completas (incluida la asignación de chrono).
	txMu sync.Mutex
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		users:     make(map[string]userRow),
		customers: make(map[string]customerRow),
		invoices:  make(map[string]invoiceRow),
	}
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Customers repositorio de clientes.
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{s: s} }

// Invoices repositorio de facturas.
func (s *Store) Invoices() *InvoiceRepo { return &InvoiceRepo{s: s} }

// RunInTx ejecuta fn de forma exclusiva respecto de otras transacciones. Si fn falla se
// deshacen solo las escrituras hechas a través de los repositorios de la transacción.
func (s *Store) RunInTx(_ context.Context, fn func(customers repository.CustomerRepository, invoices repository.InvoiceRepository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	undo := newUndoLog()
	if err := fn(&CustomerRepo{s: s, undo: undo}, &InvoiceRepo{s: s, undo: undo}); err != nil {
		s.rollback(undo)
		return err
	}
	return nil
}

// undoLog estado previo de cada clave tocada por una transacción; nil = no existía.
type undoLog struct {
	customers map[string]*customerRow
	invoices  map[string]*invoiceRow
}

func newUndoLog() *undoLog {
	return &undoLog{
		customers: make(map[string]*customerRow),
		invoices:  make(map[string]*invoiceRow),
	}
}

// Los record* requieren s.mu tomado para escritura. Solo se guarda la primera imagen.
func (u *undoLog) recordCustomer(s *Store, id string) {
	if u == nil {
		return
	}
	if _, seen := u.customers[id]; seen {
		return
	}
	var prev *customerRow
	if row, ok := s.customers[id]; ok {
		prev = &row
	}
	u.customers[id] = prev
}

func (u *undoLog) recordInvoice(s *Store, id string) {
	if u == nil {
		return
	}
	if _, seen := u.invoices[id]; seen {
		return
	}
	var prev *invoiceRow
	if row, ok := s.invoices[id]; ok {
		prev = &row
	}
	u.invoices[id] = prev
}

func (s *Store) rollback(u *undoLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, prev := range u.customers {
		if prev == nil {
			delete(s.customers, id)
			continue
		}
		s.customers[id] = *prev
	}
	for id, prev := range u.invoices {
		if prev == nil {
			delete(s.invoices, id)
			continue
		}
		s.invoices[id] = *prev
	}
}

func paginate[T any](items []T, page repository.Page) []T {
	if page.Size <= 0 {
		return items
	}
	off := page.Offset()
	if off >= len(items) {
		return []T{}
	}
	end := off + page.Size
	if end > len(items) {
		end = len(items)
	}
	return items[off:end]
}
