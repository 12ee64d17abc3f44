package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localito/localito-api/internal/application/billing"
	"github.com/localito/localito-api/internal/domain"
	"github.com/localito/localito-api/internal/domain/entity"
	"github.com/localito/localito-api/internal/domain/repository"
	"github.com/localito/localito-api/pkg/events"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeInvoiceRepo struct {
	invoices      map[string]*entity.Invoice
	concepts      []*entity.InvoiceConcept
	folios        map[string]int
	saleLookupErr error
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: make(map[string]*entity.Invoice),
		folios:   make(map[string]int),
	}
}

func (f *fakeInvoiceRepo) Create(invoice *entity.Invoice) error {
	cp := *invoice
	f.invoices[invoice.ID] = &cp
	return nil
}

func (f *fakeInvoiceRepo) CreateConcept(concept *entity.InvoiceConcept) error {
	cp := *concept
	f.concepts = append(f.concepts, &cp)
	return nil
}

func (f *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeInvoiceRepo) GetBySaleID(saleID string) (*entity.Invoice, error) {
	if f.saleLookupErr != nil {
		return nil, f.saleLookupErr
	}
	for _, inv := range f.invoices {
		if inv.SaleID == saleID {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInvoiceRepo) GetConcepts(invoiceID string) ([]*entity.InvoiceConcept, error) {
	var out []*entity.InvoiceConcept
	for _, c := range f.concepts {
		if c.InvoiceID == invoiceID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeInvoiceRepo) List(limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range f.invoices {
		cp := *inv
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeInvoiceRepo) Update(invoice *entity.Invoice) error {
	if _, ok := f.invoices[invoice.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *invoice
	f.invoices[invoice.ID] = &cp
	return nil
}

func (f *fakeInvoiceRepo) NextFolio(serie string) (int, error) {
	f.folios[serie]++
	return f.folios[serie], nil
}

type fakeBillingTxRunner struct {
	invoiceRepo *fakeInvoiceRepo
}

func (f *fakeBillingTxRunner) RunBilling(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error {
	return fn(f.invoiceRepo)
}

type fakeSaleRepo struct {
	sales   map[string]*entity.Sale
	details map[string][]*entity.SaleDetail
}

func (f *fakeSaleRepo) Create(sale *entity.Sale) error { return nil }

func (f *fakeSaleRepo) CreateDetail(detail *entity.SaleDetail) error { return nil }

func (f *fakeSaleRepo) GetByID(id string) (*entity.Sale, error) {
	s, ok := f.sales[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSaleRepo) GetDetails(saleID string) ([]*entity.SaleDetail, error) {
	return f.details[saleID], nil
}

func (f *fakeSaleRepo) List(filter repository.SaleFilter) ([]*entity.Sale, error) { return nil, nil }
func (f *fakeSaleRepo) ListCredit() ([]*entity.Sale, error)                       { return nil, nil }
func (f *fakeSaleRepo) SetCancelled(id string) error                              { return nil }
func (f *fakeSaleRepo) UpdateCreditStatus(id, estado string, pagadaEn *time.Time) error {
	return nil
}
func (f *fakeSaleRepo) NextFolio() (int, error) { return 0, nil }

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (f *fakeProductRepo) Create(p *entity.Product) error { return nil }

func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) GetByCodigo(codigo string) (*entity.Product, error) {
	return nil, domain.ErrNotFound
}
func (f *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) { return f.GetByID(id) }
func (f *fakeProductRepo) List(search, categoriaID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) ListStockBajo() ([]*entity.Product, error) { return nil, nil }

func (f *fakeProductRepo) Update(p *entity.Product) error { return nil }

func (f *fakeProductRepo) UpdateStock(id string, stock int) error { return nil }

func (f *fakeProductRepo) UpdateCost(id string, cost decimal.Decimal) error { return nil }

func (f *fakeProductRepo) SoftDelete(id string) error { return nil }

type fakePAC struct {
	stampErr  error
	cancelErr error
	stamped   int
	cancelled int
}

func (f *fakePAC) Stamp(ctx context.Context, invoice *entity.Invoice, conceptos []*entity.InvoiceConcept) (*billing.StampResult, error) {
	if f.stampErr != nil {
		return nil, f.stampErr
	}
	f.stamped++
	return &billing.StampResult{
		FolioFiscal:   "6128396f-c09b-4ec6-8699-43c5f7e3b230",
		PACID:         "pac-doc-1",
		XMLURL:        "https://pac.example.com/cfdi/1.xml",
		PDFURL:        "https://pac.example.com/cfdi/1.pdf",
		FechaTimbrado: time.Now(),
	}, nil
}

func (f *fakePAC) Cancel(ctx context.Context, pacID, motivo string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled++
	return nil
}

func ventaFacturada() (*fakeSaleRepo, *fakeProductRepo) {
	sale := &entity.Sale{
		ID:         "sale-1",
		Folio:      "V-00001",
		Fecha:      time.Now(),
		MetodoPago: entity.PaymentEfectivo,
		Subtotal:   decimal.NewFromInt(80),
		IVA:        decimal.NewFromFloat(12.80),
		Total:      decimal.NewFromFloat(92.80),
		UserID:     "user-1",
	}
	detail := entity.NewSaleDetail("sale-1", "prod-a", 3, decimal.NewFromInt(10), decimal.NewFromInt(6))
	detail.ID = "det-1"
	saleRepo := &fakeSaleRepo{
		sales:   map[string]*entity.Sale{"sale-1": sale},
		details: map[string][]*entity.SaleDetail{"sale-1": {detail}},
	}
	productRepo := &fakeProductRepo{products: map[string]*entity.Product{
		"prod-a": {ID: "prod-a", Codigo: "A001", Nombre: "Refresco 600ml", Activo: true},
	}}
	return saleRepo, productRepo
}

func setupBilling(pac billing.PAC) (*billing.InvoiceUseCase, *fakeInvoiceRepo, *fakeSaleRepo) {
	invoiceRepo := newFakeInvoiceRepo()
	saleRepo, productRepo := ventaFacturada()
	uc := billing.NewInvoiceUseCase(
		&fakeBillingTxRunner{invoiceRepo: invoiceRepo},
		invoiceRepo, saleRepo, productRepo, pac,
		events.NewDispatcher(),
	)
	return uc, invoiceRepo, saleRepo
}

func inputValido() billing.CreateInvoiceInput {
	return billing.CreateInvoiceInput{
		SaleID:        "sale-1",
		ClienteRFC:    "XAXX010101000",
		ClienteNombre: "Abarrotes La Esquina SA de CV",
		ClienteEmail:  "facturas@laesquina.mx",
		ClienteCP:     "06700",
		UserID:        "user-1",
	}
}

// ── Creación y timbrado ───────────────────────────────────────────────────────

// TestCreateInvoice_TimbraConPAC cubre el flujo completo: borrador con
// consecutivo A-1, conceptos derivados de las líneas de la venta, totales
// copiados tal cual, y timbrado inmediato vía PAC.
func TestCreateInvoice_TimbraConPAC(t *testing.T) {
	pac := &fakePAC{}
	uc, invoiceRepo, _ := setupBilling(pac)

	invoice, conceptos, err := uc.CreateInvoice(context.Background(), inputValido())
	require.NoError(t, err)

	assert.Equal(t, "A-1", invoice.NumeroCompleto())
	assert.Equal(t, entity.InvoiceTimbrada, invoice.Status)
	assert.NotEmpty(t, invoice.FolioFiscal, "el PAC asigna el folio fiscal")
	assert.NotNil(t, invoice.FechaTimbrado)
	assert.Equal(t, billing.DefaultUsoCFDI, invoice.UsoCFDI)
	assert.True(t, invoice.Total.Equal(decimal.NewFromFloat(92.80)),
		"los totales se copian de la venta, no se recalculan")

	require.Len(t, conceptos, 1)
	assert.Equal(t, "Refresco 600ml", conceptos[0].Descripcion)
	assert.True(t, conceptos[0].Cantidad.Equal(decimal.NewFromInt(3)))
	assert.True(t, conceptos[0].Importe.Equal(decimal.NewFromInt(30)))

	persisted, _ := invoiceRepo.GetByID(invoice.ID)
	assert.Equal(t, entity.InvoiceTimbrada, persisted.Status)
	assert.Equal(t, 1, pac.stamped)
}

// TestCreateInvoice_SinPACQuedaBorrador verifica que sin PAC configurado la
// factura se guarda en borrador con su folio reservado.
func TestCreateInvoice_SinPACQuedaBorrador(t *testing.T) {
	uc, invoiceRepo, _ := setupBilling(nil)

	invoice, _, err := uc.CreateInvoice(context.Background(), inputValido())
	require.NoError(t, err)

	assert.Equal(t, entity.InvoiceBorrador, invoice.Status)
	assert.Empty(t, invoice.FolioFiscal)
	assert.Equal(t, 1, invoice.Folio, "el consecutivo se reserva aunque no se timbre")

	persisted, _ := invoiceRepo.GetByID(invoice.ID)
	assert.Equal(t, entity.InvoiceBorrador, persisted.Status)
}

// TestCreateInvoice_PACFallaQuedaBorrador verifica que un error del PAC no
// pierde la factura: queda en borrador y el error se propaga.
func TestCreateInvoice_PACFallaQuedaBorrador(t *testing.T) {
	pac := &fakePAC{stampErr: errors.New("PAC no disponible")}
	uc, invoiceRepo, _ := setupBilling(pac)

	invoice, _, err := uc.CreateInvoice(context.Background(), inputValido())
	require.Error(t, err)
	require.NotNil(t, invoice)

	persisted, _ := invoiceRepo.GetByID(invoice.ID)
	assert.Equal(t, entity.InvoiceBorrador, persisted.Status,
		"la factura queda en borrador para reintentar el timbrado")
}

func TestStampInvoice_ReintentaBorrador(t *testing.T) {
	pac := &fakePAC{stampErr: errors.New("PAC no disponible")}
	uc, _, _ := setupBilling(pac)

	invoice, _, err := uc.CreateInvoice(context.Background(), inputValido())
	require.Error(t, err)

	pac.stampErr = nil
	stamped, err := uc.StampInvoice(context.Background(), invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceTimbrada, stamped.Status)
}

func TestCreateInvoice_VentaYaFacturada(t *testing.T) {
	uc, _, _ := setupBilling(&fakePAC{})

	_, _, err := uc.CreateInvoice(context.Background(), inputValido())
	require.NoError(t, err)

	_, _, err = uc.CreateInvoice(context.Background(), inputValido())
	assert.ErrorIs(t, err, domain.ErrDuplicate, "una venta solo puede facturarse una vez")
}

// TestCreateInvoice_FallaVerificacionDeDuplicado verifica que un error real al
// consultar si la venta ya fue facturada se propaga en lugar de tratarse como
// "no hay factura previa" y seguir adelante.
func TestCreateInvoice_FallaVerificacionDeDuplicado(t *testing.T) {
	uc, invoiceRepo, _ := setupBilling(&fakePAC{})
	invoiceRepo.saleLookupErr = errors.New("conexión perdida")

	_, _, err := uc.CreateInvoice(context.Background(), inputValido())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrDuplicate)
	assert.ErrorContains(t, err, "conexión perdida", "el error de la consulta debe propagarse")
	assert.Empty(t, invoiceRepo.invoices, "no debe crearse ninguna factura")
}

func TestCreateInvoice_VentaCancelada(t *testing.T) {
	uc, _, saleRepo := setupBilling(&fakePAC{})
	saleRepo.sales["sale-1"].Cancelada = true

	_, _, err := uc.CreateInvoice(context.Background(), inputValido())
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
}

func TestCreateInvoice_ValidaDatosFiscales(t *testing.T) {
	uc, _, _ := setupBilling(&fakePAC{})
	ctx := context.Background()

	in := inputValido()
	in.ClienteRFC = "MAL"
	_, _, err := uc.CreateInvoice(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "RFC de longitud inválida")

	in = inputValido()
	in.ClienteCP = "123"
	_, _, err = uc.CreateInvoice(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "código postal inválido")

	in = inputValido()
	in.UsoCFDI = "Z99"
	_, _, err = uc.CreateInvoice(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "uso CFDI fuera de catálogo")
}

func TestCreateInvoice_FolioPorSerie(t *testing.T) {
	uc, _, saleRepo := setupBilling(&fakePAC{})

	// Segunda venta para la serie B
	sale2 := *saleRepo.sales["sale-1"]
	sale2.ID = "sale-2"
	saleRepo.sales["sale-2"] = &sale2
	saleRepo.details["sale-2"] = saleRepo.details["sale-1"]

	in1 := inputValido()
	inv1, _, err := uc.CreateInvoice(context.Background(), in1)
	require.NoError(t, err)

	in2 := inputValido()
	in2.SaleID = "sale-2"
	in2.Serie = "B"
	inv2, _, err := uc.CreateInvoice(context.Background(), in2)
	require.NoError(t, err)

	assert.Equal(t, "A-1", inv1.NumeroCompleto())
	assert.Equal(t, "B-1", inv2.NumeroCompleto(), "cada serie lleva su propio consecutivo")
}

// ── Cancelación ───────────────────────────────────────────────────────────────

func TestCancelInvoice_TimbradaSeCancelaViaPAC(t *testing.T) {
	pac := &fakePAC{}
	uc, _, _ := setupBilling(pac)

	invoice, _, err := uc.CreateInvoice(context.Background(), inputValido())
	require.NoError(t, err)

	cancelled, err := uc.CancelInvoice(context.Background(), invoice.ID, "error en datos del receptor")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceCancelada, cancelled.Status)
	assert.NotNil(t, cancelled.FechaCancelacion)
	assert.Equal(t, "error en datos del receptor", cancelled.MotivoCancelacion)
	assert.Equal(t, 1, pac.cancelled)

	_, err = uc.CancelInvoice(context.Background(), invoice.ID, "otra vez")
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
}

func TestCancelInvoice_BorradorNoSeCancela(t *testing.T) {
	uc, _, _ := setupBilling(nil)

	invoice, _, err := uc.CreateInvoice(context.Background(), inputValido())
	require.NoError(t, err)

	_, err = uc.CancelInvoice(context.Background(), invoice.ID, "motivo")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCancelInvoice_SinMotivo(t *testing.T) {
	uc, _, _ := setupBilling(&fakePAC{})

	invoice, _, err := uc.CreateInvoice(context.Background(), inputValido())
	require.NoError(t, err)

	_, err = uc.CancelInvoice(context.Background(), invoice.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
