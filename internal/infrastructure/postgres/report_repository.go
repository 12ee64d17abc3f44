package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/localito/localito-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de agregación para reportes. Las ventas canceladas se
// excluyen de todos los reportes.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// SalesSummary agrega ventas totales, monto, ticket promedio y utilidad en el
// rango [desde, hasta).
func (r *ReportRepo) SalesSummary(desde, hasta time.Time) (*repository.SalesSummary, error) {
	query := `
		SELECT count(*),
			coalesce(sum(s.total), 0),
			coalesce(avg(s.total), 0),
			coalesce((
				SELECT sum(d.utilidad)
				FROM sale_details d
				JOIN sales v ON v.id = d.sale_id
				WHERE v.cancelada = FALSE AND v.fecha >= $1 AND v.fecha < $2
			), 0)
		FROM sales s
		WHERE s.cancelada = FALSE AND s.fecha >= $1 AND s.fecha < $2`
	var summary repository.SalesSummary
	err := r.q.QueryRow(context.Background(), query, desde, hasta).Scan(
		&summary.TotalVentas, &summary.MontoTotal, &summary.TicketPromedio, &summary.TotalUtilidad,
	)
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}
	summary.MontoTotal = summary.MontoTotal.Round(2)
	summary.TicketPromedio = summary.TicketPromedio.Round(2)
	summary.TotalUtilidad = summary.TotalUtilidad.Round(2)
	return &summary, nil
}

// SalesByDay agrega ventas por día natural en el rango [desde, hasta).
func (r *ReportRepo) SalesByDay(desde, hasta time.Time) ([]*repository.SalesByDay, error) {
	query := `
		SELECT date_trunc('day', fecha) AS dia, coalesce(sum(total), 0), count(*)
		FROM sales
		WHERE cancelada = FALSE AND fecha >= $1 AND fecha < $2
		GROUP BY dia
		ORDER BY dia`
	rows, err := r.q.Query(context.Background(), query, desde, hasta)
	if err != nil {
		return nil, fmt.Errorf("sales by day: %w", err)
	}
	defer rows.Close()

	var days []*repository.SalesByDay
	for rows.Next() {
		var d repository.SalesByDay
		if err := rows.Scan(&d.Dia, &d.Total, &d.Cantidad); err != nil {
			return nil, fmt.Errorf("scan sales by day: %w", err)
		}
		d.Total = d.Total.Round(2)
		days = append(days, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales by day: %w", err)
	}
	return days, nil
}

// TopProducts lista los productos más vendidos por unidades en el rango.
func (r *ReportRepo) TopProducts(desde, hasta time.Time, limit int) ([]*repository.TopProduct, error) {
	query := `
		SELECT p.id, p.codigo, p.nombre,
			sum(d.cantidad), coalesce(sum(d.subtotal), 0), coalesce(sum(d.utilidad), 0)
		FROM sale_details d
		JOIN sales s ON s.id = d.sale_id
		JOIN products p ON p.id = d.product_id
		WHERE s.cancelada = FALSE AND s.fecha >= $1 AND s.fecha < $2
		GROUP BY p.id, p.codigo, p.nombre
		ORDER BY sum(d.cantidad) DESC, p.nombre
		LIMIT $3`
	rows, err := r.q.Query(context.Background(), query, desde, hasta, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	var products []*repository.TopProduct
	for rows.Next() {
		var p repository.TopProduct
		if err := rows.Scan(
			&p.ProductID, &p.Codigo, &p.Nombre, &p.UnidadesVendidas, &p.MontoVendido, &p.Utilidad,
		); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		p.MontoVendido = p.MontoVendido.Round(2)
		p.Utilidad = p.Utilidad.Round(2)
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top products: %w", err)
	}
	return products, nil
}

// InventoryValuation valúa el inventario activo a costo promedio y a precio de venta.
func (r *ReportRepo) InventoryValuation() (*repository.InventoryValuation, error) {
	query := `
		SELECT count(*),
			coalesce(sum(stock), 0),
			coalesce(sum(stock * precio_costo), 0),
			coalesce(sum(stock * precio_venta), 0)
		FROM products
		WHERE deleted_at IS NULL AND activo = TRUE`
	var val repository.InventoryValuation
	err := r.q.QueryRow(context.Background(), query).Scan(
		&val.TotalProductos, &val.UnidadesTotales, &val.ValorCosto, &val.ValorVenta,
	)
	if err != nil {
		return nil, fmt.Errorf("inventory valuation: %w", err)
	}
	val.ValorCosto = val.ValorCosto.Round(2)
	val.ValorVenta = val.ValorVenta.Round(2)
	return &val, nil
}
