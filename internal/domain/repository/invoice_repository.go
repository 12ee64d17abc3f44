package repository

import "github.com/localito/localito-api/internal/domain/entity"

// InvoiceRepository puerto de persistencia de facturas CFDI.
// NextFolio devuelve el siguiente consecutivo de la serie indicada de forma
// atómica (unique-together serie+folio como respaldo).
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateConcept(concept *entity.InvoiceConcept) error
	GetByID(id string) (*entity.Invoice, error)
	GetBySaleID(saleID string) (*entity.Invoice, error)
	GetConcepts(invoiceID string) ([]*entity.InvoiceConcept, error)
	List(limit, offset int) ([]*entity.Invoice, error)
	Update(invoice *entity.Invoice) error
	NextFolio(serie string) (int, error)
}
