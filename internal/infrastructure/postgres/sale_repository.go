package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/localito/localito-api/internal/domain"
	"github.com/localito/localito-api/internal/domain/entity"
	"github.com/localito/localito-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, folio, fecha, cliente_nombre, cliente_rfc, subtotal, iva, total,
	metodo_pago, dias_credito, fecha_vencimiento, estado_credito, pagada_en, cancelada,
	observaciones, user_id`

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de persistencia para ventas.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// NextFolio incrementa el consecutivo global de ventas de forma atómica.
// El upsert serializa a los vendedores concurrentes sobre la fila del contador.
func (r *SaleRepo) NextFolio() (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(), `
		INSERT INTO folio_counters (nombre, valor) VALUES ('ventas', 1)
		ON CONFLICT (nombre) DO UPDATE SET valor = folio_counters.valor + 1
		RETURNING valor`,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next sale folio: %w", err)
	}
	return n, nil
}

// Create persiste la cabecera de la venta.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, folio, fecha, cliente_nombre, cliente_rfc, subtotal, iva, total,
			metodo_pago, dias_credito, fecha_vencimiento, estado_credito, pagada_en, cancelada,
			observaciones, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.Folio, sale.Fecha, sale.ClienteNombre, nullIfEmpty(sale.ClienteRFC),
		sale.Subtotal, sale.IVA, sale.Total, sale.MetodoPago, sale.DiasCredito,
		sale.FechaVencimiento, nullIfEmpty(sale.EstadoCredito), sale.PagadaEn, sale.Cancelada,
		sale.Observaciones, sale.UserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrFolioConflict
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateDetail persiste una línea de la venta.
func (r *SaleRepo) CreateDetail(detail *entity.SaleDetail) error {
	query := `
		INSERT INTO sale_details (id, sale_id, product_id, cantidad, precio_unitario, subtotal,
			costo_unitario, utilidad)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		detail.ID, detail.SaleID, detail.ProductID, detail.Cantidad, detail.PrecioUnitario,
		detail.Subtotal, detail.CostoUnitario, detail.Utilidad,
	)
	if err != nil {
		return fmt.Errorf("insert sale detail: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetDetails obtiene las líneas de una venta.
func (r *SaleRepo) GetDetails(saleID string) ([]*entity.SaleDetail, error) {
	query := `
		SELECT id, sale_id, product_id, cantidad, precio_unitario, subtotal, costo_unitario, utilidad
		FROM sale_details WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale details: %w", err)
	}
	defer rows.Close()

	var details []*entity.SaleDetail
	for rows.Next() {
		var d entity.SaleDetail
		if err := rows.Scan(
			&d.ID, &d.SaleID, &d.ProductID, &d.Cantidad, &d.PrecioUnitario,
			&d.Subtotal, &d.CostoUnitario, &d.Utilidad,
		); err != nil {
			return nil, fmt.Errorf("scan sale detail: %w", err)
		}
		details = append(details, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sale details: %w", err)
	}
	return details, nil
}

// List lista ventas con filtros opcionales, más reciente primero.
func (r *SaleRepo) List(filter repository.SaleFilter) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE TRUE`
	args := []any{}
	n := 0
	if filter.MetodoPago != "" {
		n++
		query += fmt.Sprintf(" AND metodo_pago = $%d", n)
		args = append(args, filter.MetodoPago)
	}
	if filter.Cancelada != nil {
		n++
		query += fmt.Sprintf(" AND cancelada = $%d", n)
		args = append(args, *filter.Cancelada)
	}
	if filter.FechaInicio != nil {
		n++
		query += fmt.Sprintf(" AND fecha >= $%d", n)
		args = append(args, *filter.FechaInicio)
	}
	if filter.FechaFin != nil {
		n++
		query += fmt.Sprintf(" AND fecha < $%d", n)
		args = append(args, *filter.FechaFin)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	query += fmt.Sprintf(" ORDER BY fecha DESC LIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListCredit lista las ventas a crédito no canceladas, las más próximas a
// vencer primero.
func (r *SaleRepo) ListCredit() ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + `
		FROM sales
		WHERE metodo_pago = 'credito' AND cancelada = FALSE
		ORDER BY fecha_vencimiento, folio`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list credit sales: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// SetCancelled marca la venta como cancelada.
func (r *SaleRepo) SetCancelled(id string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE sales SET cancelada = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("cancel sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCreditStatus persiste el estado del crédito y la fecha de pago.
func (r *SaleRepo) UpdateCreditStatus(id, estado string, pagadaEn *time.Time) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE sales SET estado_credito = $2, pagada_en = $3 WHERE id = $1`,
		id, estado, pagadaEn,
	)
	if err != nil {
		return fmt.Errorf("update credit status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SaleRepo) scanOne(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var rfc, estado *string
	err := row.Scan(
		&s.ID, &s.Folio, &s.Fecha, &s.ClienteNombre, &rfc, &s.Subtotal, &s.IVA, &s.Total,
		&s.MetodoPago, &s.DiasCredito, &s.FechaVencimiento, &estado, &s.PagadaEn, &s.Cancelada,
		&s.Observaciones, &s.UserID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if rfc != nil {
		s.ClienteRFC = *rfc
	}
	if estado != nil {
		s.EstadoCredito = *estado
	}
	return &s, nil
}

func (r *SaleRepo) scanAll(rows pgx.Rows) ([]*entity.Sale, error) {
	var sales []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		var rfc, estado *string
		if err := rows.Scan(
			&s.ID, &s.Folio, &s.Fecha, &s.ClienteNombre, &rfc, &s.Subtotal, &s.IVA, &s.Total,
			&s.MetodoPago, &s.DiasCredito, &s.FechaVencimiento, &estado, &s.PagadaEn, &s.Cancelada,
			&s.Observaciones, &s.UserID,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		if rfc != nil {
			s.ClienteRFC = *rfc
		}
		if estado != nil {
			s.EstadoCredito = *estado
		}
		sales = append(sales, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales: %w", err)
	}
	return sales, nil
}
