package dto

import "github.com/shopspring/decimal"

// SalesReportResponse reporte general de ventas en un rango.
type SalesReportResponse struct {
	FechaInicio    string           `json:"fecha_inicio"`
	FechaFin       string           `json:"fecha_fin"`
	TotalVentas    int              `json:"total_ventas"`
	MontoTotal     decimal.Decimal  `json:"monto_total"`
	TicketPromedio decimal.Decimal  `json:"ticket_promedio"`
	TotalUtilidad  decimal.Decimal  `json:"total_utilidad"`
	VentasPorDia   []SalesByDayItem `json:"ventas_por_dia"`
	TopProductos   []TopProductItem `json:"top_productos"`
}

// SalesByDayItem ventas agregadas de un día.
type SalesByDayItem struct {
	Dia      string          `json:"dia"` // YYYY-MM-DD
	Total    decimal.Decimal `json:"total"`
	Cantidad int             `json:"cantidad"`
}

// TopProductItem producto más vendido.
type TopProductItem struct {
	ProductID        string          `json:"product_id"`
	Codigo           string          `json:"codigo"`
	Nombre           string          `json:"nombre"`
	UnidadesVendidas int             `json:"unidades_vendidas"`
	MontoVendido     decimal.Decimal `json:"monto_vendido"`
	Utilidad         decimal.Decimal `json:"utilidad"`
}

// InventoryReportResponse valuación del inventario activo.
type InventoryReportResponse struct {
	TotalProductos  int             `json:"total_productos"`
	UnidadesTotales int             `json:"unidades_totales"`
	ValorCosto      decimal.Decimal `json:"valor_costo"`
	ValorVenta      decimal.Decimal `json:"valor_venta"`
}
