package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeEntrada = "entrada" // suma Cantidad al stock
	MovementTypeSalida  = "salida"  // resta Cantidad; falla si queda negativo
	MovementTypeAjuste  = "ajuste"  // fija el stock en Cantidad (valor absoluto)
)

// InventoryMovement es un registro inmutable del ledger de inventario.
// StockAnterior y StockNuevo se capturan al crearlo y nunca se recalculan.
type InventoryMovement struct {
	ID             string
	ProductID      string
	Tipo           string
	Cantidad       int
	StockAnterior  int
	StockNuevo     int
	PrecioUnitario *decimal.Decimal // precio de compra, solo entradas
	Motivo         string
	Observaciones  string
	ReferenciaID   string // ID de la venta cuando el movimiento proviene de una venta o cancelación
	UserID         string
	Fecha          time.Time
}
