package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago.
const (
	PaymentEfectivo      = "efectivo"
	PaymentTarjeta       = "tarjeta"
	PaymentTransferencia = "transferencia"
	PaymentCredito       = "credito"
)

// Estados del crédito de una venta (vacío para ventas de contado).
const (
	CreditPendiente = "pendiente"
	CreditPagada    = "pagada"
	CreditVencida   = "vencida"
)

// Plazos de crédito permitidos, en días.
var AllowedCreditDays = []int{15, 30}

// IVA aplicado sobre el subtotal de la venta.
var TasaIVA = decimal.NewFromFloat(0.16)

// Sale representa una venta del punto de venta con sus totales.
// Folio es secuencial y único (formato V-00001). Los campos de crédito
// (DiasCredito, FechaVencimiento, EstadoCredito) se llenan si y solo si
// MetodoPago es "credito".
type Sale struct {
	ID               string
	Folio            string
	Fecha            time.Time // inmutable una vez creada
	ClienteNombre    string
	ClienteRFC       string
	Subtotal         decimal.Decimal
	IVA              decimal.Decimal
	Total            decimal.Decimal
	MetodoPago       string
	DiasCredito      *int
	FechaVencimiento *time.Time // fecha (sin hora) = Fecha + DiasCredito
	EstadoCredito    string
	PagadaEn         *time.Time
	Cancelada        bool
	Observaciones    string
	UserID           string
}

// EsCredito indica si la venta fue pactada a crédito.
func (s *Sale) EsCredito() bool {
	return s.MetodoPago == PaymentCredito
}

// SaleDetail es una línea de venta. CostoUnitario se congela con el costo
// promedio del producto al momento de la venta y no se recalcula aunque el
// costo del producto cambie después.
type SaleDetail struct {
	ID             string
	SaleID         string
	ProductID      string
	Cantidad       int
	PrecioUnitario decimal.Decimal
	Subtotal       decimal.Decimal // Cantidad * PrecioUnitario
	CostoUnitario  decimal.Decimal
	Utilidad       decimal.Decimal // (PrecioUnitario - CostoUnitario) * Cantidad
}

// NewSaleDetail construye la línea calculando sus campos derivados.
// Los derivados se fijan aquí, nunca en hooks de persistencia.
func NewSaleDetail(saleID, productID string, cantidad int, precioUnitario, costoUnitario decimal.Decimal) *SaleDetail {
	qty := decimal.NewFromInt(int64(cantidad))
	return &SaleDetail{
		SaleID:         saleID,
		ProductID:      productID,
		Cantidad:       cantidad,
		PrecioUnitario: precioUnitario,
		Subtotal:       precioUnitario.Mul(qty),
		CostoUnitario:  costoUnitario,
		Utilidad:       precioUnitario.Sub(costoUnitario).Mul(qty),
	}
}
