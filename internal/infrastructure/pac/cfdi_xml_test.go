package pac

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localito/localito-api/internal/domain/entity"
)

func facturaDePrueba() (*entity.Invoice, []*entity.InvoiceConcept) {
	inv := &entity.Invoice{
		ID:            "inv-1",
		SaleID:        "sale-1",
		Serie:         "A",
		Folio:         7,
		ClienteRFC:    "XAXX010101000",
		ClienteNombre: "Público General",
		ClienteCP:     "06000",
		UsoCFDI:       "P01",
		Subtotal:      decimal.RequireFromString("80"),
		IVA:           decimal.RequireFromString("12.80"),
		Total:         decimal.RequireFromString("92.80"),
		Status:        entity.InvoiceBorrador,
	}
	conceptos := []*entity.InvoiceConcept{
		{
			InvoiceID:     "inv-1",
			ClaveProdServ: "01010101",
			ClaveUnidad:   "H87",
			Cantidad:      decimal.NewFromInt(3),
			Unidad:        "Pieza",
			Descripcion:   "Refresco 600ml",
			ValorUnitario: decimal.NewFromInt(10),
			Importe:       decimal.NewFromInt(30),
			IVA:           decimal.RequireFromString("4.80"),
		},
		{
			InvoiceID:     "inv-1",
			ClaveProdServ: "01010101",
			ClaveUnidad:   "H87",
			Cantidad:      decimal.NewFromInt(1),
			Unidad:        "Pieza",
			Descripcion:   "Galletas surtidas",
			ValorUnitario: decimal.NewFromInt(50),
			Importe:       decimal.NewFromInt(50),
			IVA:           decimal.NewFromInt(8),
		},
	}
	return inv, conceptos
}

// ──────────────────────────────────────────────────────────────────────────────

func TestCFDIBuilder_ComprobanteCompleto(t *testing.T) {
	builder := NewCFDIBuilder(Emisor{
		RFC:           "LOC123456AB1",
		Nombre:        "Abarrotes Localito",
		CP:            "06100",
		RegimenFiscal: "612",
	})
	inv, conceptos := facturaDePrueba()
	fecha := time.Date(2026, 3, 15, 12, 30, 0, 0, time.Local)

	xmlBytes, err := builder.Build(inv, conceptos, fecha)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(xmlBytes), "el XML generado debe ser parseable")

	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Comprobante", root.Tag)
	assert.Equal(t, "4.0", root.SelectAttrValue("Version", ""))
	assert.Equal(t, "A", root.SelectAttrValue("Serie", ""))
	assert.Equal(t, "7", root.SelectAttrValue("Folio", ""))
	assert.Equal(t, "2026-03-15T12:30:00", root.SelectAttrValue("Fecha", ""))
	assert.Equal(t, "80.00", root.SelectAttrValue("SubTotal", ""))
	assert.Equal(t, "92.80", root.SelectAttrValue("Total", ""))
	assert.Equal(t, "MXN", root.SelectAttrValue("Moneda", ""))
	assert.Equal(t, "I", root.SelectAttrValue("TipoDeComprobante", ""))
	assert.Equal(t, "06100", root.SelectAttrValue("LugarExpedicion", ""))
}

func TestCFDIBuilder_EmisorYReceptor(t *testing.T) {
	builder := NewCFDIBuilder(Emisor{
		RFC:           "LOC123456AB1",
		Nombre:        "Abarrotes Localito",
		CP:            "06100",
		RegimenFiscal: "612",
	})
	inv, conceptos := facturaDePrueba()

	xmlBytes, err := builder.Build(inv, conceptos, time.Now())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(xmlBytes))

	emisor := doc.Root().SelectElement("Emisor")
	require.NotNil(t, emisor)
	assert.Equal(t, "LOC123456AB1", emisor.SelectAttrValue("Rfc", ""))
	assert.Equal(t, "612", emisor.SelectAttrValue("RegimenFiscal", ""))

	receptor := doc.Root().SelectElement("Receptor")
	require.NotNil(t, receptor)
	assert.Equal(t, "XAXX010101000", receptor.SelectAttrValue("Rfc", ""))
	assert.Equal(t, "06000", receptor.SelectAttrValue("DomicilioFiscalReceptor", ""))
	assert.Equal(t, "P01", receptor.SelectAttrValue("UsoCFDI", ""))
}

func TestCFDIBuilder_ConceptosConIVADesglosado(t *testing.T) {
	builder := NewCFDIBuilder(Emisor{RFC: "LOC123456AB1", Nombre: "Abarrotes Localito", CP: "06100", RegimenFiscal: "612"})
	inv, conceptos := facturaDePrueba()

	xmlBytes, err := builder.Build(inv, conceptos, time.Now())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(xmlBytes))

	elems := doc.Root().SelectElement("Conceptos").SelectElements("Concepto")
	require.Len(t, elems, 2)

	primero := elems[0]
	assert.Equal(t, "01010101", primero.SelectAttrValue("ClaveProdServ", ""))
	assert.Equal(t, "H87", primero.SelectAttrValue("ClaveUnidad", ""))
	assert.Equal(t, "Refresco 600ml", primero.SelectAttrValue("Descripcion", ""))
	assert.Equal(t, "30.00", primero.SelectAttrValue("Importe", ""))

	traslado := primero.SelectElement("Impuestos").SelectElement("Traslados").SelectElement("Traslado")
	require.NotNil(t, traslado)
	assert.Equal(t, "002", traslado.SelectAttrValue("Impuesto", ""))
	assert.Equal(t, "0.160000", traslado.SelectAttrValue("TasaOCuota", ""))
	assert.Equal(t, "4.80", traslado.SelectAttrValue("Importe", ""))

	// El resumen de impuestos usa los totales de la factura tal cual
	impuestos := doc.Root().SelectElement("Impuestos")
	require.NotNil(t, impuestos)
	assert.Equal(t, "12.80", impuestos.SelectAttrValue("TotalImpuestosTrasladados", ""))
}
