package entity

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la factura CFDI.
const (
	InvoiceBorrador  = "borrador"  // guardada, pendiente de timbrar
	InvoiceTimbrada  = "timbrada"  // aceptada por el PAC, con folio fiscal
	InvoiceCancelada = "cancelada" // cancelada ante el SAT vía PAC
)

// Invoice es la cabecera de una factura CFDI 4.0 emitida a partir de una venta.
// FolioFiscal (UUID) lo asigna el PAC al timbrar; Serie+Folio son el
// consecutivo interno, únicos en conjunto.
type Invoice struct {
	ID                string
	SaleID            string
	FolioFiscal       string
	Serie             string
	Folio             int
	ClienteRFC        string
	ClienteNombre     string
	ClienteEmail      string
	ClienteCP         string // código postal del receptor
	UsoCFDI           string // catálogo SAT, ej. G01, G03, P01
	Subtotal          decimal.Decimal
	IVA               decimal.Decimal
	Total             decimal.Decimal
	Status            string
	XMLURL            string
	PDFURL            string
	PACID             string // identificador del documento en el PAC
	FechaTimbrado     *time.Time
	FechaCancelacion  *time.Time
	MotivoCancelacion string
	UserID            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NumeroCompleto devuelve el consecutivo interno legible (ej. A-12).
func (i *Invoice) NumeroCompleto() string {
	return i.Serie + "-" + strconv.Itoa(i.Folio)
}

// InvoiceConcept es una línea (concepto) de la factura, derivada de la línea
// de venta correspondiente.
type InvoiceConcept struct {
	ID            string
	InvoiceID     string
	ClaveProdServ string // clave SAT de producto/servicio
	ClaveUnidad   string // clave SAT de unidad (H87 = pieza)
	Cantidad      decimal.Decimal
	Unidad        string
	Descripcion   string
	ValorUnitario decimal.Decimal
	Importe       decimal.Decimal // Cantidad * ValorUnitario
	IVA           decimal.Decimal // Importe * 0.16
}
