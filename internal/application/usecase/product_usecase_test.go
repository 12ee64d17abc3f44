package usecase_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localito/localito-api/internal/application/usecase"
	"github.com/localito/localito-api/internal/domain"
	"github.com/localito/localito-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products map[string]*entity.Product
	deleted  []string
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		cp := *p
		repo.products[p.ID] = &cp
	}
	return repo
}

func (f *fakeProductRepo) Create(product *entity.Product) error {
	cp := *product
	f.products[product.ID] = &cp
	return nil
}

func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := f.products[id]
	if !ok || p.DeletedAt != nil {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) GetByCodigo(codigo string) (*entity.Product, error) {
	for _, p := range f.products {
		if p.Codigo == codigo && p.DeletedAt == nil {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) { return f.GetByID(id) }

func (f *fakeProductRepo) List(search, categoriaID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) ListStockBajo() ([]*entity.Product, error) { return nil, nil }

func (f *fakeProductRepo) Update(product *entity.Product) error {
	cp := *product
	f.products[product.ID] = &cp
	return nil
}

func (f *fakeProductRepo) UpdateStock(id string, stock int) error { return nil }

func (f *fakeProductRepo) UpdateCost(id string, cost decimal.Decimal) error { return nil }

func (f *fakeProductRepo) SoftDelete(id string) error {
	p, ok := f.products[id]
	if !ok || p.DeletedAt != nil {
		return domain.ErrNotFound
	}
	now := time.Now()
	p.DeletedAt = &now
	p.Activo = false
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeCategoryRepo struct {
	categories map[string]*entity.Category
}

func (f *fakeCategoryRepo) Create(category *entity.Category) error { return nil }

func (f *fakeCategoryRepo) GetByID(id string) (*entity.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeCategoryRepo) List() ([]*entity.Category, error) { return nil, nil }

func (f *fakeCategoryRepo) Update(category *entity.Category) error { return nil }

func setupProducts(products ...*entity.Product) (*usecase.ProductUseCase, *fakeProductRepo) {
	repo := newFakeProductRepo(products...)
	categoryRepo := &fakeCategoryRepo{categories: map[string]*entity.Category{
		"cat-1": {ID: "cat-1", Nombre: "Abarrotes", Activo: true},
	}}
	return usecase.NewProductUseCase(repo, categoryRepo), repo
}

func productoVendido() *entity.Product {
	return &entity.Product{
		ID:          "prod-1",
		Codigo:      "P001",
		Nombre:      "Café molido 500g",
		CategoriaID: "cat-1",
		Stock:       4,
		StockMinimo: 2,
		PrecioCosto: decimal.NewFromInt(50),
		PrecioVenta: decimal.NewFromInt(80),
		Activo:      true,
	}
}

// ── Baja de productos ─────────────────────────────────────────────────────────

// TestProductDelete_ConHistorialDeVentas verifica que la baja es incondicional:
// un producto que ya aparece en líneas de venta también se retira del catálogo.
// Las líneas conservan su referencia porque la fila nunca se destruye.
func TestProductDelete_ConHistorialDeVentas(t *testing.T) {
	uc, repo := setupProducts(productoVendido())

	err := uc.Delete("prod-1")
	require.NoError(t, err, "la baja procede aunque el producto tenga ventas")

	assert.Equal(t, []string{"prod-1"}, repo.deleted, "debe ejecutarse el soft delete")
	_, err = uc.GetByID("prod-1")
	assert.ErrorIs(t, err, domain.ErrNotFound, "el producto dado de baja deja de ser visible")
}

func TestProductDelete_Inexistente(t *testing.T) {
	uc, repo := setupProducts(productoVendido())

	err := uc.Delete("no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, repo.deleted)
}

func TestProductDelete_DobleBaja(t *testing.T) {
	uc, _ := setupProducts(productoVendido())

	require.NoError(t, uc.Delete("prod-1"))
	err := uc.Delete("prod-1")
	assert.ErrorIs(t, err, domain.ErrNotFound, "una segunda baja no encuentra la fila activa")
}
