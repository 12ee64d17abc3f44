package repository

import (
	"github.com/localito/localito-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository puerto de persistencia de productos.
// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE) y solo tiene sentido
// dentro de una transacción; serializa los cambios de stock por producto.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCodigo(codigo string) (*entity.Product, error)
	GetForUpdate(id string) (*entity.Product, error)
	List(search string, categoriaID string, limit, offset int) ([]*entity.Product, error)
	ListStockBajo() ([]*entity.Product, error)
	Update(product *entity.Product) error
	UpdateStock(id string, stock int) error
	UpdateCost(id string, cost decimal.Decimal) error
	SoftDelete(id string) error
}
