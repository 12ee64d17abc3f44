package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localito/localito-api/internal/application/inventory"
	"github.com/localito/localito-api/internal/domain"
	"github.com/localito/localito-api/internal/domain/entity"
	"github.com/localito/localito-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: el fakeTxRunner simula Commit/Rollback tomando un snapshot
// de los productos antes de ejecutar fn y restaurándolo si fn falla. Así los
// tests verifican que un movimiento fallido no deja cambios a medias.
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products map[string]*entity.Product
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
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) GetByCodigo(codigo string) (*entity.Product, error) {
	for _, p := range f.products {
		if p.Codigo == codigo {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return f.GetByID(id)
}

func (f *fakeProductRepo) List(search, categoriaID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) ListStockBajo() ([]*entity.Product, error) { return nil, nil }

func (f *fakeProductRepo) Update(product *entity.Product) error {
	cp := *product
	f.products[product.ID] = &cp
	return nil
}

func (f *fakeProductRepo) UpdateStock(id string, stock int) error {
	p, ok := f.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	return nil
}

func (f *fakeProductRepo) UpdateCost(id string, cost decimal.Decimal) error {
	p, ok := f.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.PrecioCosto = cost
	return nil
}

func (f *fakeProductRepo) SoftDelete(id string) error { return nil }

func (f *fakeProductRepo) snapshot() map[string]entity.Product {
	snap := make(map[string]entity.Product, len(f.products))
	for id, p := range f.products {
		snap[id] = *p
	}
	return snap
}

func (f *fakeProductRepo) restore(snap map[string]entity.Product) {
	f.products = make(map[string]*entity.Product, len(snap))
	for id, p := range snap {
		cp := p
		f.products[id] = &cp
	}
}

type fakeMovementRepo struct {
	movements []*entity.InventoryMovement
}

func (f *fakeMovementRepo) Create(mov *entity.InventoryMovement) error {
	cp := *mov
	f.movements = append(f.movements, &cp)
	return nil
}

func (f *fakeMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range f.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMovementRepo) List(limit, offset int) ([]*entity.InventoryMovement, error) {
	return f.movements, nil
}

type fakeTxRunner struct {
	movRepo     *fakeMovementRepo
	productRepo *fakeProductRepo
}

func (f *fakeTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	snapProducts := f.productRepo.snapshot()
	snapMovs := len(f.movRepo.movements)
	if err := fn(f.movRepo, f.productRepo); err != nil {
		f.productRepo.restore(snapProducts)
		f.movRepo.movements = f.movRepo.movements[:snapMovs]
		return err
	}
	return nil
}

func setupUseCase(products ...*entity.Product) (*inventory.RegisterMovementUseCase, *fakeProductRepo, *fakeMovementRepo) {
	productRepo := newFakeProductRepo(products...)
	movRepo := &fakeMovementRepo{}
	runner := &fakeTxRunner{movRepo: movRepo, productRepo: productRepo}
	return inventory.NewRegisterMovementUseCase(runner, movRepo), productRepo, movRepo
}

func productoBase() *entity.Product {
	return &entity.Product{
		ID:          "prod-1",
		Codigo:      "P001",
		Nombre:      "Café molido 500g",
		Stock:       10,
		StockMinimo: 3,
		PrecioCosto: decimal.NewFromInt(50),
		PrecioVenta: decimal.NewFromInt(80),
		Activo:      true,
	}
}

func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }

// ── Entradas ──────────────────────────────────────────────────────────────────

// TestRegisterMovement_EntradaRecalculaCostoPromedio verifica el orden crítico:
// el costo promedio se calcula con el stock previo a la entrada y después se
// suma la cantidad. 10 uds @ $50 + entrada de 10 @ $70 => costo $60, stock 20.
func TestRegisterMovement_EntradaRecalculaCostoPromedio(t *testing.T) {
	uc, productRepo, _ := setupUseCase(productoBase())

	mov, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		UserID:         "user-1",
		ProductID:      "prod-1",
		Tipo:           entity.MovementTypeEntrada,
		Cantidad:       10,
		Motivo:         "compra a proveedor",
		PrecioUnitario: decPtr(decimal.NewFromInt(70)),
	})
	require.NoError(t, err)

	p, _ := productRepo.GetByID("prod-1")
	assert.Equal(t, 20, p.Stock, "la entrada debe sumar la cantidad al stock")
	assert.True(t, p.PrecioCosto.Equal(decimal.NewFromInt(60)),
		"el costo promedio debe calcularse con el stock previo: (10*50+10*70)/20 = 60, se obtuvo %s", p.PrecioCosto)

	assert.Equal(t, 10, mov.StockAnterior)
	assert.Equal(t, 20, mov.StockNuevo)
	require.NotNil(t, mov.PrecioUnitario)
	assert.True(t, mov.PrecioUnitario.Equal(decimal.NewFromInt(70)))
}

// TestRegisterMovement_EntradaSinPrecioNoRecalculaCosto verifica que el precio
// unitario es opcional: sin él la entrada suma el stock y el costo promedio
// queda intacto.
func TestRegisterMovement_EntradaSinPrecioNoRecalculaCosto(t *testing.T) {
	uc, productRepo, movRepo := setupUseCase(productoBase())

	mov, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		UserID:    "user-1",
		ProductID: "prod-1",
		Tipo:      entity.MovementTypeEntrada,
		Cantidad:  5,
		Motivo:    "devolución de cliente",
	})
	require.NoError(t, err, "una entrada sin precio unitario es válida")

	p, _ := productRepo.GetByID("prod-1")
	assert.Equal(t, 15, p.Stock, "la entrada debe sumar la cantidad al stock")
	assert.True(t, p.PrecioCosto.Equal(decimal.NewFromInt(50)),
		"sin precio unitario el costo promedio no se recalcula")
	assert.Nil(t, mov.PrecioUnitario)
	assert.Len(t, movRepo.movements, 1)
}

func TestRegisterMovement_EntradaPrecioNegativoEsInvalida(t *testing.T) {
	uc, _, movRepo := setupUseCase(productoBase())

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		UserID:         "user-1",
		ProductID:      "prod-1",
		Tipo:           entity.MovementTypeEntrada,
		Cantidad:       5,
		Motivo:         "compra",
		PrecioUnitario: decPtr(decimal.NewFromInt(-1)),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, movRepo.movements, "no debe registrarse ningún movimiento")
}

func TestRegisterMovement_EntradaCantidadNoPositiva(t *testing.T) {
	uc, _, _ := setupUseCase(productoBase())

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		UserID:         "user-1",
		ProductID:      "prod-1",
		Tipo:           entity.MovementTypeEntrada,
		Cantidad:       0,
		Motivo:         "compra",
		PrecioUnitario: decPtr(decimal.NewFromInt(70)),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Salidas ───────────────────────────────────────────────────────────────────

func TestRegisterMovement_SalidaRestaStock(t *testing.T) {
	uc, productRepo, _ := setupUseCase(productoBase())

	mov, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		UserID:    "user-1",
		ProductID: "prod-1",
		Tipo:      entity.MovementTypeSalida,
		Cantidad:  3,
		Motivo:    "merma",
	})
	require.NoError(t, err)

	p, _ := productRepo.GetByID("prod-1")
	assert.Equal(t, 7, p.Stock)
	assert.Equal(t, 10, mov.StockAnterior)
	assert.Equal(t, 7, mov.StockNuevo)
	assert.Nil(t, mov.PrecioUnitario, "las salidas no llevan precio unitario")
	assert.True(t, p.PrecioCosto.Equal(decimal.NewFromInt(50)), "la salida no toca el costo promedio")
}

// TestRegisterMovement_SalidaInsuficienteNoDejaCambios verifica la atomicidad:
// una salida mayor al stock disponible falla y no deja ni movimiento ni stock
// modificado.
func TestRegisterMovement_SalidaInsuficienteNoDejaCambios(t *testing.T) {
	uc, productRepo, movRepo := setupUseCase(productoBase())

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		UserID:    "user-1",
		ProductID: "prod-1",
		Tipo:      entity.MovementTypeSalida,
		Cantidad:  11,
		Motivo:    "merma",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.ErrorContains(t, err, "Café molido 500g", "el error debe nombrar el producto")
	assert.ErrorContains(t, err, "disponible 10", "el error debe indicar el stock disponible")

	p, _ := productRepo.GetByID("prod-1")
	assert.Equal(t, 10, p.Stock, "el stock debe quedar intacto tras el rollback")
	assert.Empty(t, movRepo.movements)
}

func TestRegisterMovement_SalidaExactaDejaCero(t *testing.T) {
	uc, productRepo, _ := setupUseCase(productoBase())

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		UserID:    "user-1",
		ProductID: "prod-1",
		Tipo:      entity.MovementTypeSalida,
		Cantidad:  10,
		Motivo:    "venta mostrador",
	})
	require.NoError(t, err)

	p, _ := productRepo.GetByID("prod-1")
	assert.Equal(t, 0, p.Stock, "vender todo el stock es válido y deja cero")
}

// ── Ajustes ───────────────────────────────────────────────────────────────────

// TestRegisterMovement_AjusteEsAbsoluto verifica que el ajuste fija el stock
// en el valor indicado, no suma ni resta.
func TestRegisterMovement_AjusteEsAbsoluto(t *testing.T) {
	uc, productRepo, _ := setupUseCase(productoBase())

	mov, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		UserID:    "user-1",
		ProductID: "prod-1",
		Tipo:      entity.MovementTypeAjuste,
		Cantidad:  4,
		Motivo:    "conteo físico",
	})
	require.NoError(t, err)

	p, _ := productRepo.GetByID("prod-1")
	assert.Equal(t, 4, p.Stock, "el ajuste fija el stock en el valor absoluto")
	assert.Equal(t, 10, mov.StockAnterior)
	assert.Equal(t, 4, mov.StockNuevo)
	assert.True(t, p.PrecioCosto.Equal(decimal.NewFromInt(50)), "el ajuste no toca el costo promedio")
}

func TestRegisterMovement_AjusteNegativoEsInvalido(t *testing.T) {
	uc, _, _ := setupUseCase(productoBase())

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		UserID:    "user-1",
		ProductID: "prod-1",
		Tipo:      entity.MovementTypeAjuste,
		Cantidad:  -1,
		Motivo:    "conteo físico",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Validaciones generales ────────────────────────────────────────────────────

func TestRegisterMovement_TipoDesconocido(t *testing.T) {
	uc, _, _ := setupUseCase(productoBase())

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		UserID:    "user-1",
		ProductID: "prod-1",
		Tipo:      "traspaso",
		Cantidad:  1,
		Motivo:    "x",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterMovement_ProductoInexistente(t *testing.T) {
	uc, _, _ := setupUseCase(productoBase())

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		UserID:    "user-1",
		ProductID: "no-existe",
		Tipo:      entity.MovementTypeSalida,
		Cantidad:  1,
		Motivo:    "merma",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterMovement_MotivoObligatorio(t *testing.T) {
	uc, _, _ := setupUseCase(productoBase())

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		UserID:    "user-1",
		ProductID: "prod-1",
		Tipo:      entity.MovementTypeSalida,
		Cantidad:  1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
