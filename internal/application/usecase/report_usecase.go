package usecase

import (
	"time"

	"github.com/localito/localito-api/internal/application/dto"
	"github.com/localito/localito-api/internal/domain"
	"github.com/localito/localito-api/internal/domain/repository"
)

// Límite de productos en el top de ventas.
const topProductsLimit = 10

// ReportUseCase reportes de solo lectura: ventas por rango e inventario
// valuado a costo promedio. La agregación la hace SQL.
type ReportUseCase struct {
	repo repository.ReportRepository
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(repo repository.ReportRepository) *ReportUseCase {
	return &ReportUseCase{repo: repo}
}

// SalesReport arma el reporte de ventas del rango [desde, hasta]: resumen,
// serie por día y top de productos. Las ventas canceladas no cuentan.
func (uc *ReportUseCase) SalesReport(desde, hasta time.Time) (*dto.SalesReportResponse, error) {
	if hasta.Before(desde) {
		return nil, domain.ErrInvalidInput
	}
	summary, err := uc.repo.SalesSummary(desde, hasta)
	if err != nil {
		return nil, err
	}
	byDay, err := uc.repo.SalesByDay(desde, hasta)
	if err != nil {
		return nil, err
	}
	top, err := uc.repo.TopProducts(desde, hasta, topProductsLimit)
	if err != nil {
		return nil, err
	}

	resp := &dto.SalesReportResponse{
		FechaInicio:    desde.Format("2006-01-02"),
		FechaFin:       hasta.Format("2006-01-02"),
		TotalVentas:    summary.TotalVentas,
		MontoTotal:     summary.MontoTotal,
		TicketPromedio: summary.TicketPromedio,
		TotalUtilidad:  summary.TotalUtilidad,
		VentasPorDia:   make([]dto.SalesByDayItem, 0, len(byDay)),
		TopProductos:   make([]dto.TopProductItem, 0, len(top)),
	}
	for _, d := range byDay {
		resp.VentasPorDia = append(resp.VentasPorDia, dto.SalesByDayItem{
			Dia:      d.Dia.Format("2006-01-02"),
			Total:    d.Total,
			Cantidad: d.Cantidad,
		})
	}
	for _, t := range top {
		resp.TopProductos = append(resp.TopProductos, dto.TopProductItem{
			ProductID:        t.ProductID,
			Codigo:           t.Codigo,
			Nombre:           t.Nombre,
			UnidadesVendidas: t.UnidadesVendidas,
			MontoVendido:     t.MontoVendido,
			Utilidad:         t.Utilidad,
		})
	}
	return resp, nil
}

// InventoryReport valuación del inventario activo a costo promedio y a precio
// de venta.
func (uc *ReportUseCase) InventoryReport() (*dto.InventoryReportResponse, error) {
	val, err := uc.repo.InventoryValuation()
	if err != nil {
		return nil, err
	}
	return &dto.InventoryReportResponse{
		TotalProductos:  val.TotalProductos,
		UnidadesTotales: val.UnidadesTotales,
		ValorCosto:      val.ValorCosto,
		ValorVenta:      val.ValorVenta,
	}, nil
}
