package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body para POST /api/invoices: factura una venta existente.
type CreateInvoiceRequest struct {
	SaleID        string `json:"sale_id"`
	Serie         string `json:"serie,omitempty"` // default "A"
	ClienteRFC    string `json:"cliente_rfc"`
	ClienteNombre string `json:"cliente_nombre"`
	ClienteEmail  string `json:"cliente_email"`
	ClienteCP     string `json:"cliente_cp"`
	UsoCFDI       string `json:"uso_cfdi,omitempty"` // default "P01"
}

// CancelInvoiceRequest body para cancelar una factura timbrada.
type CancelInvoiceRequest struct {
	Motivo string `json:"motivo"`
}

// InvoiceConceptResponse concepto de la factura.
type InvoiceConceptResponse struct {
	ID            string          `json:"id"`
	ClaveProdServ string          `json:"clave_prod_serv"`
	ClaveUnidad   string          `json:"clave_unidad"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	Unidad        string          `json:"unidad"`
	Descripcion   string          `json:"descripcion"`
	ValorUnitario decimal.Decimal `json:"valor_unitario"`
	Importe       decimal.Decimal `json:"importe"`
	IVA           decimal.Decimal `json:"iva"`
}

// InvoiceResponse factura CFDI.
type InvoiceResponse struct {
	ID             string                   `json:"id"`
	SaleID         string                   `json:"sale_id"`
	NumeroCompleto string                   `json:"numero_completo"`
	FolioFiscal    string                   `json:"folio_fiscal,omitempty"`
	ClienteRFC     string                   `json:"cliente_rfc"`
	ClienteNombre  string                   `json:"cliente_nombre"`
	UsoCFDI        string                   `json:"uso_cfdi"`
	Subtotal       decimal.Decimal          `json:"subtotal"`
	IVA            decimal.Decimal          `json:"iva"`
	Total          decimal.Decimal          `json:"total"`
	Status         string                   `json:"status"`
	XMLURL         string                   `json:"xml_url,omitempty"`
	PDFURL         string                   `json:"pdf_url,omitempty"`
	FechaTimbrado  *time.Time               `json:"fecha_timbrado,omitempty"`
	Conceptos      []InvoiceConceptResponse `json:"conceptos,omitempty"`
}
