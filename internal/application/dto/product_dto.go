package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Codigo       string          `json:"codigo"`
	Nombre       string          `json:"nombre"`
	Descripcion  string          `json:"descripcion,omitempty"`
	CategoriaID  string          `json:"categoria_id"`
	Stock        int             `json:"stock"`
	StockMinimo  int             `json:"stock_minimo"`
	PrecioCosto  decimal.Decimal `json:"precio_costo"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"`
	CodigoBarras string          `json:"codigo_barras,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id.
// Stock y PrecioCosto no se editan aquí: se mueven vía movimientos de inventario.
type UpdateProductRequest struct {
	Nombre       string          `json:"nombre"`
	Descripcion  string          `json:"descripcion,omitempty"`
	CategoriaID  string          `json:"categoria_id"`
	StockMinimo  int             `json:"stock_minimo"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"`
	CodigoBarras string          `json:"codigo_barras,omitempty"`
}

// ProductResponse producto con sus campos derivados.
type ProductResponse struct {
	ID             string          `json:"id"`
	Codigo         string          `json:"codigo"`
	Nombre         string          `json:"nombre"`
	Descripcion    string          `json:"descripcion,omitempty"`
	CategoriaID    string          `json:"categoria_id"`
	Stock          int             `json:"stock"`
	StockMinimo    int             `json:"stock_minimo"`
	PrecioCosto    decimal.Decimal `json:"precio_costo"`
	PrecioVenta    decimal.Decimal `json:"precio_venta"`
	CodigoBarras   string          `json:"codigo_barras,omitempty"`
	StockBajo      bool            `json:"stock_bajo"`
	MargenUtilidad decimal.Decimal `json:"margen_utilidad"`
	Activo         bool            `json:"activo"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CategoryRequest body para crear/actualizar categorías.
type CategoryRequest struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion,omitempty"`
	Activo      *bool  `json:"activo,omitempty"`
}

// CategoryResponse categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Nombre      string    `json:"nombre"`
	Descripcion string    `json:"descripcion,omitempty"`
	Activo      bool      `json:"activo"`
	CreatedAt   time.Time `json:"created_at"`
}
