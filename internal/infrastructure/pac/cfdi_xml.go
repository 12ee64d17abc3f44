package pac

import (
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/localito/localito-api/internal/domain/entity"
)

// Namespaces oficiales CFDI 4.0 (Anexo 20 del SAT).
const (
	nsCFDI = "http://www.sat.gob.mx/cfd/4"
	nsXsi  = "http://www.w3.org/2001/XMLSchema-instance"

	schemaLocationCFDI = "http://www.sat.gob.mx/cfd/4 http://www.sat.gob.mx/sitio_internet/cfd/4/cfdv40.xsd"

	// Impuesto 002 = IVA, tasa fija del régimen.
	impuestoIVA = "002"
	tasaIVA     = "0.160000"
)

// Emisor datos fiscales del emisor del comprobante.
type Emisor struct {
	RFC           string
	Nombre        string
	CP            string // lugar de expedición
	RegimenFiscal string
}

// CFDIBuilder construye el XML del comprobante CFDI 4.0 sin sellar; el sello
// y el timbre fiscal los agrega el PAC.
type CFDIBuilder struct {
	emisor Emisor
}

// NewCFDIBuilder crea el constructor con los datos del emisor.
func NewCFDIBuilder(emisor Emisor) *CFDIBuilder {
	return &CFDIBuilder{emisor: emisor}
}

// Build genera el XML del comprobante a partir de la factura y sus conceptos.
// Los totales se toman tal cual de la factura, nunca se recalculan aquí.
func (b *CFDIBuilder) Build(invoice *entity.Invoice, conceptos []*entity.InvoiceConcept, fecha time.Time) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("cfdi:Comprobante")
	root.CreateAttr("xmlns:cfdi", nsCFDI)
	root.CreateAttr("xmlns:xsi", nsXsi)
	root.CreateAttr("xsi:schemaLocation", schemaLocationCFDI)
	root.CreateAttr("Version", "4.0")
	root.CreateAttr("Serie", invoice.Serie)
	root.CreateAttr("Folio", strconv.Itoa(invoice.Folio))
	root.CreateAttr("Fecha", fecha.Format("2006-01-02T15:04:05"))
	root.CreateAttr("SubTotal", invoice.Subtotal.StringFixed(2))
	root.CreateAttr("Moneda", "MXN")
	root.CreateAttr("Total", invoice.Total.StringFixed(2))
	root.CreateAttr("TipoDeComprobante", "I")
	root.CreateAttr("Exportacion", "01")
	root.CreateAttr("MetodoPago", "PUE")
	root.CreateAttr("FormaPago", "01")
	root.CreateAttr("LugarExpedicion", b.emisor.CP)

	emisor := root.CreateElement("cfdi:Emisor")
	emisor.CreateAttr("Rfc", b.emisor.RFC)
	emisor.CreateAttr("Nombre", b.emisor.Nombre)
	emisor.CreateAttr("RegimenFiscal", b.emisor.RegimenFiscal)

	receptor := root.CreateElement("cfdi:Receptor")
	receptor.CreateAttr("Rfc", invoice.ClienteRFC)
	receptor.CreateAttr("Nombre", invoice.ClienteNombre)
	receptor.CreateAttr("DomicilioFiscalReceptor", invoice.ClienteCP)
	receptor.CreateAttr("RegimenFiscalReceptor", "616")
	receptor.CreateAttr("UsoCFDI", invoice.UsoCFDI)

	conceptosEl := root.CreateElement("cfdi:Conceptos")
	for _, c := range conceptos {
		el := conceptosEl.CreateElement("cfdi:Concepto")
		el.CreateAttr("ClaveProdServ", c.ClaveProdServ)
		el.CreateAttr("Cantidad", c.Cantidad.StringFixed(2))
		el.CreateAttr("ClaveUnidad", c.ClaveUnidad)
		el.CreateAttr("Unidad", c.Unidad)
		el.CreateAttr("Descripcion", c.Descripcion)
		el.CreateAttr("ValorUnitario", c.ValorUnitario.StringFixed(2))
		el.CreateAttr("Importe", c.Importe.StringFixed(2))
		el.CreateAttr("ObjetoImp", "02")

		impuestos := el.CreateElement("cfdi:Impuestos")
		traslados := impuestos.CreateElement("cfdi:Traslados")
		traslado := traslados.CreateElement("cfdi:Traslado")
		traslado.CreateAttr("Base", c.Importe.StringFixed(2))
		traslado.CreateAttr("Impuesto", impuestoIVA)
		traslado.CreateAttr("TipoFactor", "Tasa")
		traslado.CreateAttr("TasaOCuota", tasaIVA)
		traslado.CreateAttr("Importe", c.IVA.StringFixed(2))
	}

	impuestos := root.CreateElement("cfdi:Impuestos")
	impuestos.CreateAttr("TotalImpuestosTrasladados", invoice.IVA.StringFixed(2))
	traslados := impuestos.CreateElement("cfdi:Traslados")
	traslado := traslados.CreateElement("cfdi:Traslado")
	traslado.CreateAttr("Base", invoice.Subtotal.StringFixed(2))
	traslado.CreateAttr("Impuesto", impuestoIVA)
	traslado.CreateAttr("TipoFactor", "Tasa")
	traslado.CreateAttr("TasaOCuota", tasaIVA)
	traslado.CreateAttr("Importe", invoice.IVA.StringFixed(2))

	doc.Indent(2)
	return doc.WriteToBytes()
}
