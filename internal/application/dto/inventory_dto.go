package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// PrecioUnitario solo aplica a entradas y dispara el recálculo del costo
// promedio ponderado. Para ajustes, Cantidad es el stock absoluto resultante.
type RegisterMovementRequest struct {
	ProductID      string           `json:"product_id"`
	Tipo           string           `json:"tipo"` // entrada | salida | ajuste
	Cantidad       int              `json:"cantidad"`
	Motivo         string           `json:"motivo"`
	Observaciones  string           `json:"observaciones,omitempty"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario,omitempty"`
}

// MovementResponse movimiento del ledger.
type MovementResponse struct {
	ID             string           `json:"id"`
	ProductID      string           `json:"product_id"`
	Tipo           string           `json:"tipo"`
	Cantidad       int              `json:"cantidad"`
	StockAnterior  int              `json:"stock_anterior"`
	StockNuevo     int              `json:"stock_nuevo"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario,omitempty"`
	Motivo         string           `json:"motivo"`
	Observaciones  string           `json:"observaciones,omitempty"`
	ReferenciaID   string           `json:"referencia_id,omitempty"`
	UserID         string           `json:"user_id"`
	Fecha          time.Time        `json:"fecha"`
}
