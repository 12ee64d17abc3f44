package http

import (
	"time"

	"github.com/localito/localito-api/internal/application/dto"
	"github.com/localito/localito-api/internal/domain/credit"
	"github.com/localito/localito-api/internal/domain/entity"
)

// Mapeo entidad -> DTO de los motores que devuelven entidades (ventas,
// inventario, facturación). Los casos de uso CRUD ya devuelven DTOs.

func toSaleResponse(sale *entity.Sale, details []*entity.SaleDetail) dto.SaleResponse {
	resp := dto.SaleResponse{
		ID:               sale.ID,
		Folio:            sale.Folio,
		Fecha:            sale.Fecha,
		ClienteNombre:    sale.ClienteNombre,
		ClienteRFC:       sale.ClienteRFC,
		Subtotal:         sale.Subtotal,
		IVA:              sale.IVA,
		Total:            sale.Total,
		MetodoPago:       sale.MetodoPago,
		DiasCredito:      sale.DiasCredito,
		FechaVencimiento: sale.FechaVencimiento,
		EstadoCredito:    sale.EstadoCredito,
		PagadaEn:         sale.PagadaEn,
		Cancelada:        sale.Cancelada,
		Observaciones:    sale.Observaciones,
		UserID:           sale.UserID,
	}
	for _, d := range details {
		resp.Lineas = append(resp.Lineas, dto.SaleLineResponse{
			ID:             d.ID,
			ProductID:      d.ProductID,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
			CostoUnitario:  d.CostoUnitario,
			Utilidad:       d.Utilidad,
		})
	}
	return resp
}

func toCreditSaleResponse(sale *entity.Sale) dto.CreditSaleResponse {
	hoy := time.Now()
	return dto.CreditSaleResponse{
		SaleResponse:   toSaleResponse(sale, nil),
		DiasParaVencer: credit.DaysUntilDue(sale, hoy),
		PorVencer:      credit.IsNearDue(sale, hoy),
	}
}

func toMovementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		Tipo:           m.Tipo,
		Cantidad:       m.Cantidad,
		StockAnterior:  m.StockAnterior,
		StockNuevo:     m.StockNuevo,
		PrecioUnitario: m.PrecioUnitario,
		Motivo:         m.Motivo,
		Observaciones:  m.Observaciones,
		ReferenciaID:   m.ReferenciaID,
		UserID:         m.UserID,
		Fecha:          m.Fecha,
	}
}

func toInvoiceResponse(inv *entity.Invoice, conceptos []*entity.InvoiceConcept) dto.InvoiceResponse {
	resp := dto.InvoiceResponse{
		ID:             inv.ID,
		SaleID:         inv.SaleID,
		NumeroCompleto: inv.NumeroCompleto(),
		FolioFiscal:    inv.FolioFiscal,
		ClienteRFC:     inv.ClienteRFC,
		ClienteNombre:  inv.ClienteNombre,
		UsoCFDI:        inv.UsoCFDI,
		Subtotal:       inv.Subtotal,
		IVA:            inv.IVA,
		Total:          inv.Total,
		Status:         inv.Status,
		XMLURL:         inv.XMLURL,
		PDFURL:         inv.PDFURL,
		FechaTimbrado:  inv.FechaTimbrado,
	}
	for _, c := range conceptos {
		resp.Conceptos = append(resp.Conceptos, dto.InvoiceConceptResponse{
			ID:            c.ID,
			ClaveProdServ: c.ClaveProdServ,
			ClaveUnidad:   c.ClaveUnidad,
			Cantidad:      c.Cantidad,
			Unidad:        c.Unidad,
			Descripcion:   c.Descripcion,
			ValorUnitario: c.ValorUnitario,
			Importe:       c.Importe,
			IVA:           c.IVA,
		})
	}
	return resp
}
