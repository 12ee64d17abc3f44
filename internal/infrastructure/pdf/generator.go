// Package pdf implementa la representación impresa de ventas (ticket) y
// facturas CFDI (representación gráfica) usando Maroto v2.
//
// Layout de la factura en A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre comercial + RFC  │  Serie-Folio + Fecha     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RECEPTOR: Nombre + RFC + CP + Uso CFDI                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Importe | IVA         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / IVA 16% / TOTAL                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: Folio fiscal (UUID) + leyenda legal                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/localito/localito-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 20, Green: 80, Blue: 60}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Emisor datos del negocio impresos en tickets y facturas.
type Emisor struct {
	Nombre string
	RFC    string
	CP     string
}

// TicketLine línea de venta con el nombre del producto resuelto.
type TicketLine struct {
	Descripcion    string
	Cantidad       int
	PrecioUnitario decimal.Decimal
	Subtotal       decimal.Decimal
}

// Generator genera los PDF del negocio.
type Generator struct {
	emisor Emisor
}

// NewGenerator construye el generador con los datos del emisor.
func NewGenerator(emisor Emisor) *Generator {
	return &Generator{emisor: emisor}
}

// RenderTicket genera el ticket de una venta y devuelve sus bytes.
func (g *Generator) RenderTicket(sale *entity.Sale, lines []TicketLine) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Ticket "+sale.Folio, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(row.New(14).Add(
		col.New(12).Add(
			text.New(g.emisor.Nombre, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Center, Color: colorPrimary, Top: 1,
			}),
			text.New("RFC: "+g.emisor.RFC, props.Text{
				Size: 8, Align: align.Center, Top: 8, Color: colorGray,
			}),
		),
	))
	m.AddRows(row.New(10).Add(
		col.New(6).Add(
			text.New("Ticket: "+sale.Folio, props.Text{Style: fontstyle.Bold, Size: 10, Top: 1}),
		),
		col.New(6).Add(
			text.New(sale.Fecha.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(row.New(6).Add(
		headerCol("Cant.", 2, align.Center),
		headerCol("Descripción", 5, align.Left),
		headerCol("P.Unit.", 2, align.Right),
		headerCol("Importe", 3, align.Right),
	))
	for _, l := range lines {
		m.AddRows(row.New(5).Add(
			col.New(2).Add(text.New(fmt.Sprintf("%d", l.Cantidad), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(l.Descripcion, props.Text{Size: 8, Align: align.Left, Top: 1})),
			col.New(2).Add(text.New(money(l.PrecioUnitario), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(3).Add(text.New(money(l.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(sale.Subtotal, sale.IVA, sale.Total)...)

	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Forma de pago: "+sale.MetodoPago, props.Text{Size: 8, Top: 2, Color: colorGray}),
	)))
	if sale.EsCredito() && sale.FechaVencimiento != nil {
		m.AddRows(row.New(6).Add(col.New(12).Add(
			text.New("Vence: "+sale.FechaVencimiento.Format("02/01/2006"), props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 1,
			}),
		)))
	}
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("¡Gracias por su compra!", props.Text{
			Size: 9, Align: align.Center, Top: 3, Color: colorPrimary,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar ticket: %w", err)
	}
	return doc.GetBytes(), nil
}

// RenderInvoice genera la representación gráfica de la factura CFDI.
func (g *Generator) RenderInvoice(invoice *entity.Invoice, conceptos []*entity.InvoiceConcept) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+invoice.NumeroCompleto(), true).
		WithAuthor(g.emisor.Nombre, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(row.New(18).Add(
		col.New(7).Add(
			text.New(g.emisor.Nombre, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("RFC: "+g.emisor.RFC+"   |   Lugar de expedición: "+g.emisor.CP, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FACTURA CFDI 4.0", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.NumeroCompleto(), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+invoice.CreatedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(row.New(14).Add(
		col.New(12).Add(
			text.New("RECEPTOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.ClienteNombre, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("RFC: %s   |   CP: %s   |   Uso CFDI: %s",
				invoice.ClienteRFC, invoice.ClienteCP, invoice.UsoCFDI,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(row.New(6).Add(
		headerCol("Cant.", 1, align.Center),
		headerCol("Descripción", 5, align.Left),
		headerCol("P.Unit.", 2, align.Right),
		headerCol("Importe", 2, align.Right),
		headerCol("IVA", 2, align.Right),
	))
	for _, c := range conceptos {
		m.AddRows(row.New(6).Add(
			col.New(1).Add(text.New(c.Cantidad.StringFixed(0), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(c.Descripcion, props.Text{Size: 8, Align: align.Left, Top: 1})),
			col.New(2).Add(text.New(money(c.ValorUnitario), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(money(c.Importe), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(money(c.IVA), props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(invoice.Subtotal, invoice.IVA, invoice.Total)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	if invoice.FolioFiscal != "" {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Folio fiscal (UUID):", props.Text{Style: fontstyle.Bold, Size: 7, Top: 1}),
			text.New(invoice.FolioFiscal, props.Text{Size: 7, Top: 5, Color: colorGray}),
		)))
	}
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New(
			"Este documento es una representación impresa de un CFDI 4.0. "+
				"Conserve el XML como comprobante fiscal.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar factura: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerCol(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 1,
	}))
}

func totalsRows(subtotal, iva, total decimal.Decimal) []core.Row {
	label := func(s string, grand bool) core.Component {
		p := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2}
		if grand {
			p.Size = 10
			p.Color = colorPrimary
		}
		return text.New(s, p)
	}
	value := func(s string, grand bool) core.Component {
		p := props.Text{Size: 9, Align: align.Right, Right: 1}
		if grand {
			p.Style = fontstyle.Bold
			p.Size = 10
			p.Color = colorPrimary
		}
		return text.New(s, p)
	}
	return []core.Row{
		row.New(6).Add(col.New(7), col.New(3).Add(label("Subtotal:", false)), col.New(2).Add(value(money(subtotal), false))),
		row.New(6).Add(col.New(7), col.New(3).Add(label("IVA 16%:", false)), col.New(2).Add(value(money(iva), false))),
		row.New(7).Add(col.New(7), col.New(3).Add(label("TOTAL:", true)), col.New(2).Add(value(money(total), true))),
	}
}

// money formatea un monto en pesos con separador de miles. Ej: 1234.5 → $1,234.50
func money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	entero, dec := s[:len(s)-3], s[len(s)-3:]
	neg := false
	if len(entero) > 0 && entero[0] == '-' {
		neg = true
		entero = entero[1:]
	}
	n := len(entero)
	buf := make([]byte, 0, n+n/3)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, entero[i])
	}
	out := "$" + string(buf) + dec
	if neg {
		out = "-" + out
	}
	return out
}
