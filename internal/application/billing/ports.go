package billing

import (
	"context"
	"time"

	"github.com/localito/localito-api/internal/domain/entity"
	"github.com/localito/localito-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que cabecera, conceptos y consecutivo de folio se confirmen juntos.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error
}

// StampResult respuesta del PAC al timbrar un CFDI.
type StampResult struct {
	FolioFiscal   string // UUID fiscal asignado por el SAT
	PACID         string // identificador del documento en el PAC
	XMLURL        string
	PDFURL        string
	FechaTimbrado time.Time
}

// PAC puerto del proveedor autorizado de certificación. El timbrado y la
// cancelación ante el SAT se delegan completos al PAC; el sistema nunca firma
// CFDIs localmente.
type PAC interface {
	Stamp(ctx context.Context, invoice *entity.Invoice, conceptos []*entity.InvoiceConcept) (*StampResult, error)
	Cancel(ctx context.Context, pacID, motivo string) error
}
