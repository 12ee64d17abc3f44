package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummary agregado general de ventas en un rango de fechas.
type SalesSummary struct {
	TotalVentas    int
	MontoTotal     decimal.Decimal
	TicketPromedio decimal.Decimal
	TotalUtilidad  decimal.Decimal
}

// SalesByDay ventas agregadas por día.
type SalesByDay struct {
	Dia      time.Time
	Total    decimal.Decimal
	Cantidad int
}

// TopProduct producto más vendido en el rango.
type TopProduct struct {
	ProductID        string
	Codigo           string
	Nombre           string
	UnidadesVendidas int
	MontoVendido     decimal.Decimal
	Utilidad         decimal.Decimal
}

// InventoryValuation valuación del inventario activo a costo promedio.
type InventoryValuation struct {
	TotalProductos  int
	UnidadesTotales int
	ValorCosto      decimal.Decimal
	ValorVenta      decimal.Decimal
}

// ReportRepository consultas de solo lectura para reportes; la agregación
// vive en SQL, el dominio no participa.
type ReportRepository interface {
	SalesSummary(desde, hasta time.Time) (*SalesSummary, error)
	SalesByDay(desde, hasta time.Time) ([]*SalesByDay, error)
	TopProducts(desde, hasta time.Time, limit int) ([]*TopProduct, error)
	InventoryValuation() (*InventoryValuation, error)
}
