package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/localito/localito-api/internal/domain"
	"github.com/localito/localito-api/internal/domain/entity"
	"github.com/localito/localito-api/internal/domain/inventory"
	"github.com/localito/localito-api/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos de inventario de forma transaccional
// (entrada, salida, ajuste) con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
// Cada movimiento congela stock_anterior y stock_nuevo; el ledger nunca se edita.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	movRepo  repository.InventoryMovementRepository
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner, movRepo repository.InventoryMovementRepository) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner: txRunner,
		movRepo:  movRepo,
	}
}

// MovementInput entrada para registrar un movimiento de inventario.
// Para entrada/salida Cantidad es el delta (> 0); para ajuste es el stock
// absoluto resultante (>= 0). PrecioUnitario es opcional y solo aplica a
// entradas: si viene, dispara el recálculo del costo promedio ponderado;
// sin él la entrada suma stock y deja el costo intacto.
type MovementInput struct {
	UserID         string
	ProductID      string
	Tipo           string
	Cantidad       int
	Motivo         string
	Observaciones  string
	PrecioUnitario *decimal.Decimal
}

// RegisterMovement inicia una transacción, bloquea la fila del producto
// (SELECT FOR UPDATE), aplica la lógica según tipo y hace Commit o Rollback.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) (*entity.InventoryMovement, error) {
	if input.ProductID == "" || input.Motivo == "" {
		return nil, domain.ErrInvalidInput
	}
	switch input.Tipo {
	case entity.MovementTypeEntrada:
		if input.Cantidad <= 0 {
			return nil, domain.ErrInvalidInput
		}
		if input.PrecioUnitario != nil && input.PrecioUnitario.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	case entity.MovementTypeSalida:
		if input.Cantidad <= 0 {
			return nil, domain.ErrInvalidInput
		}
		input.PrecioUnitario = nil
	case entity.MovementTypeAjuste:
		if input.Cantidad < 0 {
			return nil, domain.ErrInvalidInput
		}
		input.PrecioUnitario = nil
	default:
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var registered *entity.InventoryMovement

	// Inicia transacción; Commit si todo ok, Rollback si algo falla (TxRunner.Run lo hace)
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		// Bloquea la fila del producto (SELECT FOR UPDATE) para serializar cambios de stock
		product, err := productRepo.GetForUpdate(input.ProductID)
		if err != nil {
			return err
		}

		var mov *entity.InventoryMovement
		switch input.Tipo {
		case entity.MovementTypeEntrada:
			mov, err = uc.doEntrada(productRepo, product, input, now)
		case entity.MovementTypeSalida:
			mov, err = uc.doSalida(productRepo, product, input, now)
		case entity.MovementTypeAjuste:
			mov, err = uc.doAjuste(productRepo, product, input, now)
		}
		if err != nil {
			return err
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		registered = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return registered, nil
}

// doEntrada: si la entrada trae precio unitario recalcula el costo promedio
// ponderado con el stock PREVIO a la entrada; después suma el stock y arma el
// movimiento. Sin precio la entrada solo suma stock.
func (uc *RegisterMovementUseCase) doEntrada(
	productRepo repository.ProductRepository,
	product *entity.Product,
	input MovementInput,
	now time.Time,
) (*entity.InventoryMovement, error) {
	stockAnterior := product.Stock
	if input.PrecioUnitario != nil {
		newCost := inventory.CostCalculator(stockAnterior, product.PrecioCosto, input.Cantidad, *input.PrecioUnitario)
		if err := productRepo.UpdateCost(product.ID, newCost); err != nil {
			return nil, err
		}
	}
	stockNuevo := inventory.ApplyEntrada(stockAnterior, input.Cantidad)
	if err := productRepo.UpdateStock(product.ID, stockNuevo); err != nil {
		return nil, err
	}
	return uc.buildMovement(product.ID, input, stockAnterior, stockNuevo, now), nil
}

// doSalida: verifica stock suficiente ya con la fila bloqueada y resta.
func (uc *RegisterMovementUseCase) doSalida(
	productRepo repository.ProductRepository,
	product *entity.Product,
	input MovementInput,
	now time.Time,
) (*entity.InventoryMovement, error) {
	stockAnterior := product.Stock
	stockNuevo, err := inventory.ApplySalida(stockAnterior, input.Cantidad)
	if err != nil {
		return nil, fmt.Errorf("%w: producto %s, disponible %d", err, product.Nombre, stockAnterior)
	}
	if err := productRepo.UpdateStock(product.ID, stockNuevo); err != nil {
		return nil, err
	}
	return uc.buildMovement(product.ID, input, stockAnterior, stockNuevo, now), nil
}

// doAjuste: fija el stock en el valor absoluto indicado; no toca el costo.
func (uc *RegisterMovementUseCase) doAjuste(
	productRepo repository.ProductRepository,
	product *entity.Product,
	input MovementInput,
	now time.Time,
) (*entity.InventoryMovement, error) {
	stockAnterior := product.Stock
	stockNuevo, err := inventory.ApplyAjuste(input.Cantidad)
	if err != nil {
		return nil, err
	}
	if err := productRepo.UpdateStock(product.ID, stockNuevo); err != nil {
		return nil, err
	}
	return uc.buildMovement(product.ID, input, stockAnterior, stockNuevo, now), nil
}

func (uc *RegisterMovementUseCase) buildMovement(productID string, input MovementInput, stockAnterior, stockNuevo int, now time.Time) *entity.InventoryMovement {
	return &entity.InventoryMovement{
		ID:             uuid.New().String(),
		ProductID:      productID,
		Tipo:           input.Tipo,
		Cantidad:       input.Cantidad,
		StockAnterior:  stockAnterior,
		StockNuevo:     stockNuevo,
		PrecioUnitario: input.PrecioUnitario,
		Motivo:         input.Motivo,
		Observaciones:  input.Observaciones,
		UserID:         input.UserID,
		Fecha:          now,
	}
}

// ListByProduct historial de movimientos de un producto, del más reciente al más antiguo.
func (uc *RegisterMovementUseCase) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movRepo.ListByProduct(productID, limit, offset)
}

// List historial global de movimientos.
func (uc *RegisterMovementUseCase) List(ctx context.Context, limit, offset int) ([]*entity.InventoryMovement, error) {
	return uc.movRepo.List(limit, offset)
}
