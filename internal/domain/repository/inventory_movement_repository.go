package repository

import "github.com/localito/localito-api/internal/domain/entity"

// InventoryMovementRepository puerto del ledger de movimientos (append-only:
// sin Update ni Delete).
type InventoryMovementRepository interface {
	Create(mov *entity.InventoryMovement) error
	ListByProduct(productID string, limit, offset int) ([]*entity.InventoryMovement, error)
	List(limit, offset int) ([]*entity.InventoryMovement, error)
}
