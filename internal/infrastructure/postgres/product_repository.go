package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/localito/localito-api/internal/domain"
	"github.com/localito/localito-api/internal/domain/entity"
	"github.com/localito/localito-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, codigo, nombre, descripcion, categoria_id, stock, stock_minimo,
	precio_costo, precio_venta, codigo_barras, activo, deleted_at, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL
// (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos.
// Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. La unicidad del código aplica solo entre
// filas activas (índice parcial WHERE deleted_at IS NULL).
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, codigo, nombre, descripcion, categoria_id, stock, stock_minimo,
			precio_costo, precio_venta, codigo_barras, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Codigo, product.Nombre, product.Descripcion, product.CategoriaID,
		product.Stock, product.StockMinimo, product.PrecioCosto, product.PrecioVenta,
		nullIfEmpty(product.CodigoBarras), product.Activo, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByCodigo obtiene un producto activo por código.
func (r *ProductRepo) GetByCodigo(codigo string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE codigo = $1 AND deleted_at IS NULL`
	return r.scanOne(r.q.QueryRow(context.Background(), query, codigo))
}

// GetForUpdate obtiene el producto bloqueando su fila. Solo tiene sentido
// dentro de una transacción.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// List lista productos activos con búsqueda y filtro de categoría opcionales.
// La búsqueda llega ya normalizada (minúsculas, sin acentos) desde el caso de
// uso y se compara contra columnas normalizadas con unaccent.
func (r *ProductRepo) List(search string, categoriaID string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE deleted_at IS NULL`
	args := []any{}
	n := 0
	if search != "" {
		n++
		query += fmt.Sprintf(
			" AND (lower(unaccent(nombre)) LIKE '%%' || $%d || '%%' OR lower(codigo) LIKE '%%' || $%d || '%%' OR lower(coalesce(codigo_barras, '')) LIKE '%%' || $%d || '%%')",
			n, n, n)
		args = append(args, search)
	}
	if categoriaID != "" {
		n++
		query += fmt.Sprintf(" AND categoria_id = $%d", n)
		args = append(args, categoriaID)
	}
	query += fmt.Sprintf(" ORDER BY nombre LIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListStockBajo lista los productos activos con stock en o bajo su mínimo.
func (r *ProductRepo) ListStockBajo() ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE deleted_at IS NULL AND activo = TRUE AND stock <= stock_minimo
		ORDER BY stock - stock_minimo, nombre`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// Update actualiza los datos editables del producto. Código, stock y costo no
// se tocan aquí (el stock y el costo los maneja el motor de inventario).
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products
		SET nombre = $2, descripcion = $3, categoria_id = $4, stock_minimo = $5,
			precio_venta = $6, codigo_barras = $7, activo = $8, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`
	cmd, err := r.q.Exec(context.Background(), query,
		product.ID, product.Nombre, product.Descripcion, product.CategoriaID,
		product.StockMinimo, product.PrecioVenta, nullIfEmpty(product.CodigoBarras), product.Activo,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock fija el stock del producto (usado por los motores de inventario
// y ventas, siempre bajo bloqueo de fila).
func (r *ProductRepo) UpdateStock(id string, stock int) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`,
		id, stock,
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCost actualiza solo el costo promedio (usado por el motor de inventario).
func (r *ProductRepo) UpdateCost(id string, cost decimal.Decimal) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE products SET precio_costo = $2, updated_at = now() WHERE id = $1`,
		id, cost,
	)
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marca el producto como eliminado y lo desactiva. El historial de
// movimientos y ventas que lo referencia queda intacto.
func (r *ProductRepo) SoftDelete(id string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE products SET deleted_at = now(), activo = FALSE, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) scanOne(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var codigoBarras *string
	err := row.Scan(
		&p.ID, &p.Codigo, &p.Nombre, &p.Descripcion, &p.CategoriaID, &p.Stock, &p.StockMinimo,
		&p.PrecioCosto, &p.PrecioVenta, &codigoBarras, &p.Activo, &p.DeletedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if codigoBarras != nil {
		p.CodigoBarras = *codigoBarras
	}
	return &p, nil
}

func (r *ProductRepo) scanAll(rows pgx.Rows) ([]*entity.Product, error) {
	var products []*entity.Product
	for rows.Next() {
		var p entity.Product
		var codigoBarras *string
		if err := rows.Scan(
			&p.ID, &p.Codigo, &p.Nombre, &p.Descripcion, &p.CategoriaID, &p.Stock, &p.StockMinimo,
			&p.PrecioCosto, &p.PrecioVenta, &codigoBarras, &p.Activo, &p.DeletedAt, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if codigoBarras != nil {
			p.CodigoBarras = *codigoBarras
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}
