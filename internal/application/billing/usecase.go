package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/localito/localito-api/internal/domain"
	"github.com/localito/localito-api/internal/domain/entity"
	"github.com/localito/localito-api/internal/domain/repository"
	"github.com/localito/localito-api/pkg/events"
)

// Valores por defecto para el CFDI.
const (
	DefaultSerie   = "A"
	DefaultUsoCFDI = "P01"

	// Claves SAT genéricas para conceptos de mostrador
	claveProdServGenerica = "01010101"
	claveUnidadPieza      = "H87"
	unidadPieza           = "Pieza"
)

// usosCFDIValidos catálogo reducido del SAT aceptado por el sistema.
var usosCFDIValidos = map[string]bool{
	"G01": true, "G02": true, "G03": true,
	"I01": true, "I02": true, "I04": true, "I08": true,
	"D01": true, "P01": true, "S01": true,
}

// InvoiceUseCase emite facturas CFDI 4.0 a partir de ventas: crea la factura
// en borrador con su consecutivo serie+folio y la timbra vía PAC. Los totales
// se copian de la venta, nunca se recalculan.
type InvoiceUseCase struct {
	txRunner    TxRunner
	invoiceRepo repository.InvoiceRepository
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	pac         PAC
	dispatcher  *events.Dispatcher
}

// NewInvoiceUseCase construye el caso de uso. pac puede ser nil: las facturas
// se quedan en borrador hasta que el PAC esté configurado.
func NewInvoiceUseCase(
	txRunner TxRunner,
	invoiceRepo repository.InvoiceRepository,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	pac PAC,
	dispatcher *events.Dispatcher,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		pac:         pac,
		dispatcher:  dispatcher,
	}
}

// CreateInvoiceInput entrada para facturar una venta.
type CreateInvoiceInput struct {
	SaleID        string
	Serie         string
	ClienteRFC    string
	ClienteNombre string
	ClienteEmail  string
	ClienteCP     string
	UsoCFDI       string
	UserID        string
}

// CreateInvoice factura una venta: valida que exista, no esté cancelada y no
// tenga ya factura; arma los conceptos desde las líneas, asigna el consecutivo
// de la serie y guarda todo en una transacción. Si hay PAC configurado intenta
// timbrar de inmediato; si el timbrado falla la factura queda en borrador.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*entity.Invoice, []*entity.InvoiceConcept, error) {
	if input.SaleID == "" || input.ClienteNombre == "" || input.UserID == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	if l := len(input.ClienteRFC); l != 12 && l != 13 {
		return nil, nil, domain.ErrInvalidInput
	}
	if len(input.ClienteCP) != 5 {
		return nil, nil, domain.ErrInvalidInput
	}
	if input.Serie == "" {
		input.Serie = DefaultSerie
	}
	if input.UsoCFDI == "" {
		input.UsoCFDI = DefaultUsoCFDI
	}
	if !usosCFDIValidos[input.UsoCFDI] {
		return nil, nil, domain.ErrInvalidInput
	}

	sale, err := uc.saleRepo.GetByID(input.SaleID)
	if err != nil {
		return nil, nil, err
	}
	if sale.Cancelada {
		return nil, nil, domain.ErrAlreadyCancelled
	}
	existing, err := uc.invoiceRepo.GetBySaleID(input.SaleID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, domain.ErrDuplicate
	}

	details, err := uc.saleRepo.GetDetails(input.SaleID)
	if err != nil {
		return nil, nil, err
	}
	if len(details) == 0 {
		return nil, nil, domain.ErrInvalidInput
	}

	now := time.Now()
	invoice := &entity.Invoice{
		ID:            uuid.New().String(),
		SaleID:        sale.ID,
		Serie:         input.Serie,
		ClienteRFC:    input.ClienteRFC,
		ClienteNombre: input.ClienteNombre,
		ClienteEmail:  input.ClienteEmail,
		ClienteCP:     input.ClienteCP,
		UsoCFDI:       input.UsoCFDI,
		Subtotal:      sale.Subtotal,
		IVA:           sale.IVA,
		Total:         sale.Total,
		Status:        entity.InvoiceBorrador,
		UserID:        input.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	conceptos := make([]*entity.InvoiceConcept, 0, len(details))
	for _, d := range details {
		product, err := uc.productRepo.GetByID(d.ProductID)
		if err != nil {
			return nil, nil, err
		}
		conceptos = append(conceptos, &entity.InvoiceConcept{
			ID:            uuid.New().String(),
			InvoiceID:     invoice.ID,
			ClaveProdServ: claveProdServGenerica,
			ClaveUnidad:   claveUnidadPieza,
			Cantidad:      decimal.NewFromInt(int64(d.Cantidad)),
			Unidad:        unidadPieza,
			Descripcion:   product.Nombre,
			ValorUnitario: d.PrecioUnitario,
			Importe:       d.Subtotal,
			IVA:           d.Subtotal.Mul(entity.TasaIVA).Round(2),
		})
	}

	err = uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		folio, err := invoiceRepo.NextFolio(invoice.Serie)
		if err != nil {
			return err
		}
		invoice.Folio = folio
		if err := invoiceRepo.Create(invoice); err != nil {
			return err
		}
		for _, c := range conceptos {
			if err := invoiceRepo.CreateConcept(c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if uc.pac == nil {
		return invoice, conceptos, nil
	}
	if err := uc.stamp(ctx, invoice, conceptos); err != nil {
		return invoice, conceptos, fmt.Errorf("timbrar factura %s: %w", invoice.NumeroCompleto(), err)
	}
	return invoice, conceptos, nil
}

// StampInvoice timbra una factura que quedó en borrador.
func (uc *InvoiceUseCase) StampInvoice(ctx context.Context, invoiceID string) (*entity.Invoice, error) {
	invoice, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != entity.InvoiceBorrador {
		return nil, domain.ErrInvalidInput
	}
	if uc.pac == nil {
		return nil, domain.ErrInvalidInput
	}
	conceptos, err := uc.invoiceRepo.GetConcepts(invoiceID)
	if err != nil {
		return nil, err
	}
	if err := uc.stamp(ctx, invoice, conceptos); err != nil {
		return nil, fmt.Errorf("timbrar factura %s: %w", invoice.NumeroCompleto(), err)
	}
	return invoice, nil
}

func (uc *InvoiceUseCase) stamp(ctx context.Context, invoice *entity.Invoice, conceptos []*entity.InvoiceConcept) error {
	result, err := uc.pac.Stamp(ctx, invoice, conceptos)
	if err != nil {
		return err
	}
	invoice.FolioFiscal = result.FolioFiscal
	invoice.PACID = result.PACID
	invoice.XMLURL = result.XMLURL
	invoice.PDFURL = result.PDFURL
	invoice.FechaTimbrado = &result.FechaTimbrado
	invoice.Status = entity.InvoiceTimbrada
	invoice.UpdatedAt = time.Now()
	if err := uc.invoiceRepo.Update(invoice); err != nil {
		return err
	}
	uc.dispatcher.FireAsync(events.FacturaTimbrada, invoice)
	return nil
}

// CancelInvoice cancela una factura timbrada ante el SAT vía PAC y la marca
// como cancelada. Los borradores no se cancelan, se quedan sin timbrar.
func (uc *InvoiceUseCase) CancelInvoice(ctx context.Context, invoiceID, motivo string) (*entity.Invoice, error) {
	if motivo == "" {
		return nil, domain.ErrInvalidInput
	}
	invoice, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	switch invoice.Status {
	case entity.InvoiceCancelada:
		return nil, domain.ErrAlreadyCancelled
	case entity.InvoiceTimbrada:
	default:
		return nil, domain.ErrInvalidInput
	}
	if uc.pac == nil {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.pac.Cancel(ctx, invoice.PACID, motivo); err != nil {
		return nil, fmt.Errorf("cancelar factura %s ante el PAC: %w", invoice.NumeroCompleto(), err)
	}
	now := time.Now()
	invoice.Status = entity.InvoiceCancelada
	invoice.FechaCancelacion = &now
	invoice.MotivoCancelacion = motivo
	invoice.UpdatedAt = now
	if err := uc.invoiceRepo.Update(invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// GetInvoice devuelve la factura con sus conceptos.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, invoiceID string) (*entity.Invoice, []*entity.InvoiceConcept, error) {
	invoice, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, nil, err
	}
	conceptos, err := uc.invoiceRepo.GetConcepts(invoiceID)
	if err != nil {
		return nil, nil, err
	}
	return invoice, conceptos, nil
}

// GetInvoiceBySale devuelve la factura asociada a una venta, si existe.
func (uc *InvoiceUseCase) GetInvoiceBySale(ctx context.Context, saleID string) (*entity.Invoice, error) {
	return uc.invoiceRepo.GetBySaleID(saleID)
}

// ListInvoices lista facturas paginadas.
func (uc *InvoiceUseCase) ListInvoices(ctx context.Context, limit, offset int) ([]*entity.Invoice, error) {
	return uc.invoiceRepo.List(limit, offset)
}
