package usecase

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/localito/localito-api/internal/application/dto"
	"github.com/localito/localito-api/internal/domain"
	"github.com/localito/localito-api/internal/domain/entity"
	"github.com/localito/localito-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. Stock y PrecioCosto se
// mueven vía movimientos de inventario, nunca por Update directo.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo}
}

// Create crea un producto. El código debe ser único entre productos activos;
// el stock y costo iniciales se aceptan aquí como carga inicial.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Codigo == "" || in.Nombre == "" || in.CategoriaID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Stock < 0 || in.StockMinimo < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.PrecioCosto.LessThan(decimal.Zero) || in.PrecioVenta.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.categoryRepo.GetByID(in.CategoriaID); err != nil {
		return nil, err
	}
	if existing, err := uc.repo.GetByCodigo(in.Codigo); err == nil && existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Codigo:       in.Codigo,
		Nombre:       in.Nombre,
		Descripcion:  in.Descripcion,
		CategoriaID:  in.CategoriaID,
		Stock:        in.Stock,
		StockMinimo:  in.StockMinimo,
		PrecioCosto:  in.PrecioCosto,
		PrecioVenta:  in.PrecioVenta,
		CodigoBarras: in.CodigoBarras,
		Activo:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByCodigo obtiene un producto por su código (lectura por escáner).
func (uc *ProductUseCase) GetByCodigo(codigo string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByCodigo(codigo)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update actualiza los datos editables del producto. Código, stock y costo no
// se tocan aquí.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.Nombre == "" || in.CategoriaID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.StockMinimo < 0 || in.PrecioVenta.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if _, err := uc.categoryRepo.GetByID(in.CategoriaID); err != nil {
		return nil, err
	}
	product.Nombre = in.Nombre
	product.Descripcion = in.Descripcion
	product.CategoriaID = in.CategoriaID
	product.StockMinimo = in.StockMinimo
	product.PrecioVenta = in.PrecioVenta
	product.CodigoBarras = in.CodigoBarras
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List busca productos por código, nombre o código de barras. El término se
// normaliza sin acentos para que "café" encuentre "cafe" y viceversa.
func (uc *ProductUseCase) List(search, categoriaID string, limit, offset int) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(normalizeSearch(search), categoriaID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// ListStockBajo productos activos con stock en o bajo el mínimo.
func (uc *ProductUseCase) ListStockBajo() ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListStockBajo()
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// Delete da de baja el producto (soft delete), tenga o no ventas: las líneas
// de venta conservan su FK a la fila y el historial queda intacto. El código
// queda libre para reutilizarse porque la unicidad solo aplica a filas activas.
func (uc *ProductUseCase) Delete(id string) error {
	if _, err := uc.repo.GetByID(id); err != nil {
		return err
	}
	return uc.repo.SoftDelete(id)
}

// normalizeSearch quita marcas diacríticas y pasa a minúsculas el término de
// búsqueda (NFD + eliminación de marcas combinantes).
func normalizeSearch(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:             p.ID,
		Codigo:         p.Codigo,
		Nombre:         p.Nombre,
		Descripcion:    p.Descripcion,
		CategoriaID:    p.CategoriaID,
		Stock:          p.Stock,
		StockMinimo:    p.StockMinimo,
		PrecioCosto:    p.PrecioCosto,
		PrecioVenta:    p.PrecioVenta,
		CodigoBarras:   p.CodigoBarras,
		StockBajo:      p.StockBajo(),
		MargenUtilidad: p.MargenUtilidad(),
		Activo:         p.Activo,
		CreatedAt:      p.CreatedAt,
	}
}
