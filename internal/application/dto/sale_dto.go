package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea solicitada en una venta.
type SaleLineRequest struct {
	ProductID      string          `json:"product_id"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
}

// CreateSaleRequest body para POST /api/sales.
// DiasCredito es obligatorio (15 o 30) si MetodoPago es "credito" y debe
// omitirse en ventas de contado.
type CreateSaleRequest struct {
	ClienteNombre string            `json:"cliente_nombre,omitempty"`
	ClienteRFC    string            `json:"cliente_rfc,omitempty"`
	MetodoPago    string            `json:"metodo_pago"`
	DiasCredito   *int              `json:"dias_credito,omitempty"`
	Observaciones string            `json:"observaciones,omitempty"`
	Lineas        []SaleLineRequest `json:"lineas"`
}

// SaleLineResponse línea de venta con costo congelado y utilidad.
type SaleLineResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	CostoUnitario  decimal.Decimal `json:"costo_unitario"`
	Utilidad       decimal.Decimal `json:"utilidad"`
}

// SaleResponse venta completa.
type SaleResponse struct {
	ID               string             `json:"id"`
	Folio            string             `json:"folio"`
	Fecha            time.Time          `json:"fecha"`
	ClienteNombre    string             `json:"cliente_nombre"`
	ClienteRFC       string             `json:"cliente_rfc,omitempty"`
	Subtotal         decimal.Decimal    `json:"subtotal"`
	IVA              decimal.Decimal    `json:"iva"`
	Total            decimal.Decimal    `json:"total"`
	MetodoPago       string             `json:"metodo_pago"`
	DiasCredito      *int               `json:"dias_credito,omitempty"`
	FechaVencimiento *time.Time         `json:"fecha_vencimiento,omitempty"`
	EstadoCredito    string             `json:"estado_credito,omitempty"`
	PagadaEn         *time.Time         `json:"pagada_en,omitempty"`
	Cancelada        bool               `json:"cancelada"`
	Observaciones    string             `json:"observaciones,omitempty"`
	UserID           string             `json:"user_id"`
	Lineas           []SaleLineResponse `json:"lineas,omitempty"`
}

// CreditSaleResponse venta a crédito con los derivados del ciclo de vida.
type CreditSaleResponse struct {
	SaleResponse
	DiasParaVencer *int `json:"dias_para_vencer,omitempty"`
	PorVencer      bool `json:"por_vencer"`
}

// ListSalesRequest filtros de listado de ventas.
type ListSalesRequest struct {
	MetodoPago  string `query:"metodo_pago"`
	Cancelada   *bool  `query:"cancelada"`
	FechaInicio string `query:"fecha_inicio"` // YYYY-MM-DD
	FechaFin    string `query:"fecha_fin"`    // YYYY-MM-DD
	PageRequest
}
