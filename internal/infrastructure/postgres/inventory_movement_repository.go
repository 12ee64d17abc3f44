package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/localito/localito-api/internal/domain/entity"
	"github.com/localito/localito-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

const movementColumns = `id, product_id, tipo, cantidad, stock_anterior, stock_nuevo,
	precio_unitario, motivo, observaciones, referencia_id, user_id, fecha`

// InventoryMovementRepo implementación del ledger de movimientos sobre
// PostgreSQL. Solo inserta y lee; el ledger es inmutable.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador del ledger.
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento del ledger.
func (r *InventoryMovementRepo) Create(mov *entity.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements (id, product_id, tipo, cantidad, stock_anterior, stock_nuevo,
			precio_unitario, motivo, observaciones, referencia_id, user_id, fecha)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		mov.ID, mov.ProductID, mov.Tipo, mov.Cantidad, mov.StockAnterior, mov.StockNuevo,
		mov.PrecioUnitario, mov.Motivo, mov.Observaciones, nullIfEmpty(mov.ReferenciaID),
		mov.UserID, mov.Fecha,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// ListByProduct lista el historial de movimientos de un producto, más reciente primero.
func (r *InventoryMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM inventory_movements WHERE product_id = $1
		ORDER BY fecha DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by product: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// List lista los movimientos globales, más reciente primero.
func (r *InventoryMovementRepo) List(limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM inventory_movements ORDER BY fecha DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *InventoryMovementRepo) scanAll(rows pgx.Rows) ([]*entity.InventoryMovement, error) {
	var movements []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		var referencia *string
		if err := rows.Scan(
			&m.ID, &m.ProductID, &m.Tipo, &m.Cantidad, &m.StockAnterior, &m.StockNuevo,
			&m.PrecioUnitario, &m.Motivo, &m.Observaciones, &referencia, &m.UserID, &m.Fecha,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if referencia != nil {
			m.ReferenciaID = *referencia
		}
		movements = append(movements, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movements: %w", err)
	}
	return movements, nil
}
