package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/localito/localito-api/internal/domain"
	"github.com/localito/localito-api/internal/domain/credit"
	"github.com/localito/localito-api/internal/domain/entity"
	"github.com/localito/localito-api/internal/domain/repository"
	"github.com/localito/localito-api/pkg/events"
)

// Cliente por defecto para ventas de mostrador sin datos fiscales.
const DefaultClienteNombre = "Público General"

// Reintentos ante colisión de folio (el consecutivo es atómico en BD, así que
// en la práctica solo ocurre si alguien insertó folios a mano).
const maxFolioRetries = 3

// SaleUseCase implementa el punto de venta: creación atómica de ventas con
// descuento de stock y movimientos de inventario, cancelación con reposición,
// y el ciclo de vida del crédito.
type SaleUseCase struct {
	txRunner    TxRunner
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	dispatcher  *events.Dispatcher
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	dispatcher *events.Dispatcher,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:    txRunner,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		dispatcher:  dispatcher,
	}
}

// SaleLineInput línea solicitada en una venta.
type SaleLineInput struct {
	ProductID      string
	Cantidad       int
	PrecioUnitario decimal.Decimal
}

// CreateSaleInput entrada para crear una venta.
type CreateSaleInput struct {
	UserID        string
	ClienteNombre string
	ClienteRFC    string
	MetodoPago    string
	DiasCredito   *int
	Observaciones string
	Lineas        []SaleLineInput
}

// CreateSale crea la venta de forma atómica: asigna folio consecutivo, congela
// el costo promedio en cada línea, descuenta stock bajo bloqueo de fila y
// registra un movimiento de salida por producto referenciando la venta.
// El stock se valida dos veces: antes de abrir la transacción (falla rápido)
// y de nuevo con las filas ya bloqueadas (decisión definitiva).
func (uc *SaleUseCase) CreateSale(ctx context.Context, input CreateSaleInput) (*entity.Sale, []*entity.SaleDetail, error) {
	if len(input.Lineas) == 0 || input.UserID == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	switch input.MetodoPago {
	case entity.PaymentEfectivo, entity.PaymentTarjeta, entity.PaymentTransferencia, entity.PaymentCredito:
	default:
		return nil, nil, domain.ErrInvalidInput
	}
	if err := credit.ValidateTerms(input.MetodoPago, input.DiasCredito); err != nil {
		return nil, nil, err
	}
	for _, l := range input.Lineas {
		if l.ProductID == "" || l.Cantidad <= 0 || l.PrecioUnitario.LessThan(decimal.Zero) {
			return nil, nil, domain.ErrInvalidInput
		}
	}
	if input.ClienteNombre == "" {
		input.ClienteNombre = DefaultClienteNombre
	}

	// Cantidad total requerida por producto (una venta puede repetir producto)
	required := map[string]int{}
	for _, l := range input.Lineas {
		required[l.ProductID] += l.Cantidad
	}
	productIDs := make([]string, 0, len(required))
	for id := range required {
		productIDs = append(productIDs, id)
	}
	// Orden determinista para bloquear filas siempre igual y evitar deadlocks
	sort.Strings(productIDs)

	// Validación previa sin bloquear filas: falla rápido si algo no alcanza
	for _, id := range productIDs {
		p, err := uc.productRepo.GetByID(id)
		if err != nil {
			return nil, nil, err
		}
		if !p.Activo {
			return nil, nil, domain.ErrNotFound
		}
		if p.Stock < required[id] {
			return nil, nil, fmt.Errorf("%w: producto %s, disponible %d", domain.ErrInsufficientStock, p.Nombre, p.Stock)
		}
	}

	now := time.Now()
	var sale *entity.Sale
	var details []*entity.SaleDetail

	var err error
	for attempt := 0; attempt < maxFolioRetries; attempt++ {
		err = uc.txRunner.RunSale(ctx, func(
			saleRepo repository.SaleRepository,
			productRepo repository.ProductRepository,
			movRepo repository.InventoryMovementRepository,
		) error {
			// Bloquea las filas de producto y revalida con el stock definitivo
			locked := make(map[string]*entity.Product, len(productIDs))
			for _, id := range productIDs {
				p, err := productRepo.GetForUpdate(id)
				if err != nil {
					return err
				}
				if p.Stock < required[id] {
					return fmt.Errorf("%w: producto %s, disponible %d", domain.ErrInsufficientStock, p.Nombre, p.Stock)
				}
				locked[id] = p
			}

			n, err := saleRepo.NextFolio()
			if err != nil {
				return err
			}

			sale = &entity.Sale{
				ID:            uuid.New().String(),
				Folio:         fmt.Sprintf("V-%05d", n),
				Fecha:         now,
				ClienteNombre: input.ClienteNombre,
				ClienteRFC:    input.ClienteRFC,
				MetodoPago:    input.MetodoPago,
				Observaciones: input.Observaciones,
				UserID:        input.UserID,
			}
			if input.MetodoPago == entity.PaymentCredito {
				venc := credit.DueDate(now, *input.DiasCredito)
				sale.DiasCredito = input.DiasCredito
				sale.FechaVencimiento = &venc
				sale.EstadoCredito = entity.CreditPendiente
			}

			// Líneas con costo promedio congelado al momento de la venta
			details = details[:0]
			subtotal := decimal.Zero
			for _, l := range input.Lineas {
				d := entity.NewSaleDetail(sale.ID, l.ProductID, l.Cantidad, l.PrecioUnitario, locked[l.ProductID].PrecioCosto)
				d.ID = uuid.New().String()
				details = append(details, d)
				subtotal = subtotal.Add(d.Subtotal)
			}
			sale.Subtotal = subtotal.Round(2)
			sale.IVA = subtotal.Mul(entity.TasaIVA).Round(2)
			sale.Total = sale.Subtotal.Add(sale.IVA)

			if err := saleRepo.Create(sale); err != nil {
				return err
			}
			for _, d := range details {
				if err := saleRepo.CreateDetail(d); err != nil {
					return err
				}
			}

			// Descuenta stock y registra la salida en el ledger, por producto
			for _, id := range productIDs {
				p := locked[id]
				newStock := p.Stock - required[id]
				if err := productRepo.UpdateStock(id, newStock); err != nil {
					return err
				}
				mov := &entity.InventoryMovement{
					ID:            uuid.New().String(),
					ProductID:     id,
					Tipo:          entity.MovementTypeSalida,
					Cantidad:      required[id],
					StockAnterior: p.Stock,
					StockNuevo:    newStock,
					Motivo:        "venta " + sale.Folio,
					ReferenciaID:  sale.ID,
					UserID:        input.UserID,
					Fecha:         now,
				}
				if err := movRepo.Create(mov); err != nil {
					return err
				}
			}
			return nil
		})
		if !errors.Is(err, domain.ErrFolioConflict) {
			break
		}
	}
	if err != nil {
		return nil, nil, err
	}

	uc.dispatcher.FireAsync(events.VentaCreada, sale)
	return sale, details, nil
}

// CancelSale cancela una venta reponiendo el stock de cada producto y
// registrando movimientos de entrada que referencian la venta. Una venta a
// crédito ya pagada no puede cancelarse.
func (uc *SaleUseCase) CancelSale(ctx context.Context, saleID, userID string) (*entity.Sale, error) {
	if saleID == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var cancelled *entity.Sale

	err := uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		productRepo repository.ProductRepository,
		movRepo repository.InventoryMovementRepository,
	) error {
		sale, err := saleRepo.GetByID(saleID)
		if err != nil {
			return err
		}
		if sale.Cancelada {
			return domain.ErrAlreadyCancelled
		}
		if sale.EsCredito() && sale.EstadoCredito == entity.CreditPagada {
			return domain.ErrCannotCancelPaidCredit
		}

		details, err := saleRepo.GetDetails(saleID)
		if err != nil {
			return err
		}
		restore := map[string]int{}
		for _, d := range details {
			restore[d.ProductID] += d.Cantidad
		}
		productIDs := make([]string, 0, len(restore))
		for id := range restore {
			productIDs = append(productIDs, id)
		}
		sort.Strings(productIDs)

		for _, id := range productIDs {
			p, err := productRepo.GetForUpdate(id)
			if err != nil {
				return err
			}
			newStock := p.Stock + restore[id]
			if err := productRepo.UpdateStock(id, newStock); err != nil {
				return err
			}
			mov := &entity.InventoryMovement{
				ID:            uuid.New().String(),
				ProductID:     id,
				Tipo:          entity.MovementTypeEntrada,
				Cantidad:      restore[id],
				StockAnterior: p.Stock,
				StockNuevo:    newStock,
				Motivo:        "cancelación de venta " + sale.Folio,
				ReferenciaID:  sale.ID,
				UserID:        userID,
				Fecha:         now,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
		}

		if err := saleRepo.SetCancelled(saleID); err != nil {
			return err
		}
		sale.Cancelada = true
		cancelled = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.dispatcher.FireAsync(events.VentaCancelada, cancelled)
	return cancelled, nil
}

// GetSale devuelve la venta con sus líneas. Si es un crédito pendiente ya
// vencido, aplica la transición a vencida antes de responder.
func (uc *SaleUseCase) GetSale(ctx context.Context, saleID string) (*entity.Sale, []*entity.SaleDetail, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, nil, err
	}
	if err := uc.refreshOverdue(sale); err != nil {
		return nil, nil, err
	}
	details, err := uc.saleRepo.GetDetails(saleID)
	if err != nil {
		return nil, nil, err
	}
	return sale, details, nil
}

// ListSales lista ventas con filtros de método de pago, estado y rango de fechas.
func (uc *SaleUseCase) ListSales(ctx context.Context, filter repository.SaleFilter) ([]*entity.Sale, error) {
	return uc.saleRepo.List(filter)
}

// ListCredit lista las ventas a crédito aplicando de paso la transición
// pendiente -> vencida a las que ya pasaron su fecha de vencimiento.
// El vencimiento se detecta al leer, no con un proceso en segundo plano.
func (uc *SaleUseCase) ListCredit(ctx context.Context) ([]*entity.Sale, error) {
	sales, err := uc.saleRepo.ListCredit()
	if err != nil {
		return nil, err
	}
	for _, s := range sales {
		if err := uc.refreshOverdue(s); err != nil {
			return nil, err
		}
	}
	return sales, nil
}

// MarkCreditPaid aplica la transición a pagada de una venta a crédito
// (desde pendiente o vencida). No aplica a ventas canceladas.
func (uc *SaleUseCase) MarkCreditPaid(ctx context.Context, saleID string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale.Cancelada {
		return nil, domain.ErrAlreadyCancelled
	}
	now := time.Now()
	credit.RefreshOverdue(sale, now)
	if err := credit.MarkPaid(sale, now); err != nil {
		return nil, err
	}
	if err := uc.saleRepo.UpdateCreditStatus(sale.ID, sale.EstadoCredito, sale.PagadaEn); err != nil {
		return nil, err
	}
	return sale, nil
}

func (uc *SaleUseCase) refreshOverdue(sale *entity.Sale) error {
	if !credit.RefreshOverdue(sale, time.Now()) {
		return nil
	}
	return uc.saleRepo.UpdateCreditStatus(sale.ID, sale.EstadoCredito, sale.PagadaEn)
}
