package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo con su nivel de stock.
// PrecioCosto es costo promedio ponderado: lo recalculan las entradas de
// inventario con precio de compra. Stock nunca es negativo.
type Product struct {
	ID           string
	Codigo       string // código único entre productos activos
	Nombre       string
	Descripcion  string
	CategoriaID  string
	Stock        int
	StockMinimo  int
	PrecioCosto  decimal.Decimal // costo promedio ponderado
	PrecioVenta  decimal.Decimal
	CodigoBarras string
	Activo       bool
	DeletedAt    *time.Time // soft delete; la unicidad del código aplica solo a filas activas
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StockBajo indica si el stock está en o por debajo del mínimo configurado.
func (p *Product) StockBajo() bool {
	return p.Stock <= p.StockMinimo
}

// MargenUtilidad devuelve el margen porcentual sobre el costo:
// (venta - costo) / costo * 100. Retorna 0 si el costo es 0.
func (p *Product) MargenUtilidad() decimal.Decimal {
	if !p.PrecioCosto.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	cien := decimal.NewFromInt(100)
	return p.PrecioVenta.Sub(p.PrecioCosto).Div(p.PrecioCosto).Mul(cien).Round(2)
}
