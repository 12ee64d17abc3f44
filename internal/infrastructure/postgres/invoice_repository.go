package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/localito/localito-api/internal/domain"
	"github.com/localito/localito-api/internal/domain/entity"
	"github.com/localito/localito-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, sale_id, folio_fiscal, serie, folio, cliente_rfc, cliente_nombre,
	cliente_email, cliente_cp, uso_cfdi, subtotal, iva, total, status, xml_url, pdf_url, pac_id,
	fecha_timbrado, fecha_cancelacion, motivo_cancelacion, user_id, created_at, updated_at`

// InvoiceRepo implementación del puerto InvoiceRepository sobre PostgreSQL.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador de persistencia para facturas.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// NextFolio incrementa el consecutivo de la serie indicada de forma atómica.
func (r *InvoiceRepo) NextFolio(serie string) (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(), `
		INSERT INTO folio_counters (nombre, valor) VALUES ('facturas:' || $1, 1)
		ON CONFLICT (nombre) DO UPDATE SET valor = folio_counters.valor + 1
		RETURNING valor`,
		serie,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next invoice folio: %w", err)
	}
	return n, nil
}

// Create persiste la cabecera de la factura. Una venta solo puede tener una
// factura (sale_id único).
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, sale_id, folio_fiscal, serie, folio, cliente_rfc, cliente_nombre,
			cliente_email, cliente_cp, uso_cfdi, subtotal, iva, total, status, xml_url, pdf_url,
			pac_id, fecha_timbrado, fecha_cancelacion, motivo_cancelacion, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.SaleID, nullIfEmpty(invoice.FolioFiscal), invoice.Serie, invoice.Folio,
		invoice.ClienteRFC, invoice.ClienteNombre, nullIfEmpty(invoice.ClienteEmail), invoice.ClienteCP,
		invoice.UsoCFDI, invoice.Subtotal, invoice.IVA, invoice.Total, invoice.Status,
		nullIfEmpty(invoice.XMLURL), nullIfEmpty(invoice.PDFURL), nullIfEmpty(invoice.PACID),
		invoice.FechaTimbrado, invoice.FechaCancelacion, invoice.MotivoCancelacion,
		invoice.UserID, invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateConcept persiste un concepto de la factura.
func (r *InvoiceRepo) CreateConcept(concept *entity.InvoiceConcept) error {
	query := `
		INSERT INTO invoice_concepts (id, invoice_id, clave_prod_serv, clave_unidad, cantidad,
			unidad, descripcion, valor_unitario, importe, iva)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		concept.ID, concept.InvoiceID, concept.ClaveProdServ, concept.ClaveUnidad, concept.Cantidad,
		concept.Unidad, concept.Descripcion, concept.ValorUnitario, concept.Importe, concept.IVA,
	)
	if err != nil {
		return fmt.Errorf("insert invoice concept: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetBySaleID obtiene la factura emitida para una venta.
func (r *InvoiceRepo) GetBySaleID(saleID string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE sale_id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, saleID))
}

// GetConcepts obtiene los conceptos de una factura.
func (r *InvoiceRepo) GetConcepts(invoiceID string) ([]*entity.InvoiceConcept, error) {
	query := `
		SELECT id, invoice_id, clave_prod_serv, clave_unidad, cantidad, unidad, descripcion,
			valor_unitario, importe, iva
		FROM invoice_concepts WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice concepts: %w", err)
	}
	defer rows.Close()

	var concepts []*entity.InvoiceConcept
	for rows.Next() {
		var c entity.InvoiceConcept
		if err := rows.Scan(
			&c.ID, &c.InvoiceID, &c.ClaveProdServ, &c.ClaveUnidad, &c.Cantidad, &c.Unidad,
			&c.Descripcion, &c.ValorUnitario, &c.Importe, &c.IVA,
		); err != nil {
			return nil, fmt.Errorf("scan invoice concept: %w", err)
		}
		concepts = append(concepts, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoice concepts: %w", err)
	}
	return concepts, nil
}

// List lista facturas, más reciente primero.
func (r *InvoiceRepo) List(limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*entity.Invoice
	for rows.Next() {
		inv, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoices: %w", err)
	}
	return invoices, nil
}

// Update persiste el resultado del timbrado o la cancelación.
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET folio_fiscal = $2, status = $3, xml_url = $4, pdf_url = $5, pac_id = $6,
			fecha_timbrado = $7, fecha_cancelacion = $8, motivo_cancelacion = $9, updated_at = now()
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		invoice.ID, nullIfEmpty(invoice.FolioFiscal), invoice.Status,
		nullIfEmpty(invoice.XMLURL), nullIfEmpty(invoice.PDFURL), nullIfEmpty(invoice.PACID),
		invoice.FechaTimbrado, invoice.FechaCancelacion, invoice.MotivoCancelacion,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InvoiceRepo) scanOne(row pgx.Row) (*entity.Invoice, error) {
	inv, err := scanInvoice(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func (r *InvoiceRepo) scanRow(rows pgx.Rows) (*entity.Invoice, error) {
	inv, err := scanInvoice(rows.Scan)
	if err != nil {
		return nil, fmt.Errorf("scan invoice: %w", err)
	}
	return inv, nil
}

func scanInvoice(scan func(dest ...any) error) (*entity.Invoice, error) {
	var inv entity.Invoice
	var folioFiscal, email, xmlURL, pdfURL, pacID *string
	err := scan(
		&inv.ID, &inv.SaleID, &folioFiscal, &inv.Serie, &inv.Folio, &inv.ClienteRFC,
		&inv.ClienteNombre, &email, &inv.ClienteCP, &inv.UsoCFDI, &inv.Subtotal, &inv.IVA,
		&inv.Total, &inv.Status, &xmlURL, &pdfURL, &pacID, &inv.FechaTimbrado,
		&inv.FechaCancelacion, &inv.MotivoCancelacion, &inv.UserID, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if folioFiscal != nil {
		inv.FolioFiscal = *folioFiscal
	}
	if email != nil {
		inv.ClienteEmail = *email
	}
	if xmlURL != nil {
		inv.XMLURL = *xmlURL
	}
	if pdfURL != nil {
		inv.PDFURL = *pdfURL
	}
	if pacID != nil {
		inv.PACID = *pacID
	}
	return &inv, nil
}
