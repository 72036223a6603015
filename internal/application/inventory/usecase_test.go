package inventory_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type ledgerFixture struct {
	uc       *inventory.RegisterMovementUseCase
	query    *inventory.MovementQueryUseCase
	products *memory.ProductRepo
	moves    *memory.MovementRepo
}

func newLedger(t *testing.T) *ledgerFixture {
	t.Helper()
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	moves := memory.NewMovementRepository(store)
	return &ledgerFixture{
		uc:       inventory.NewRegisterMovementUseCase(memory.NewTxRunner(store), products, logger.Nop()),
		query:    inventory.NewMovementQueryUseCase(moves),
		products: products,
		moves:    moves,
	}
}

// seedProduct inserta un producto con el stock indicado directamente en el almacén.
func (f *ledgerFixture) seedProduct(t *testing.T, pieces, pallets int, piecesPerPallet *int) *entity.Product {
	t.Helper()
	now := time.Now().UTC()
	p := &entity.Product{
		ID:                  uuid.New().String(),
		Name:                "Producto " + uuid.New().String()[:8],
		PiecesPerPallet:     piecesPerPallet,
		MinStockAlert:       10,
		PricePerPiece:       decimal.NewFromFloat(2.5),
		CurrentStockPieces:  pieces,
		CurrentStockPallets: pallets,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func (f *ledgerFixture) stock(t *testing.T, id string) (int, int) {
	t.Helper()
	p, err := f.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.CurrentStockPieces, p.CurrentStockPallets
}

func intPtr(v int) *int { return &v }

// ──────────────────────────────────────────────────────────────────────────────
// RecordMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_EntradaSumaAmbosContadores(t *testing.T) {
	f := newLedger(t)
	p := f.seedProduct(t, 0, 0, intPtr(24))

	out, err := f.uc.RecordMovement(context.Background(), inventory.MovementInput{
		ProductID: p.ID, Type: entity.MovementTypeEntry, QuantityPieces: 48, QuantityPallets: 2,
		Reason: "Compra", BarcodeScanned: "4006381333931",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, out.ID)
	assert.Equal(t, entity.MovementTypeEntry, out.MovementType)
	assert.Equal(t, "4006381333931", out.BarcodeScanned)
	assert.Equal(t, entity.DefaultMovementUser, out.User, "sin user se registra el operador por defecto")
	assert.False(t, out.CreatedAt.IsZero())

	pieces, pallets := f.stock(t, p.ID)
	assert.Equal(t, 48, pieces)
	assert.Equal(t, 2, pallets)
}

func TestRecordMovement_ContadoresIndependientes(t *testing.T) {
	f := newLedger(t)
	p := f.seedProduct(t, 0, 0, intPtr(24))

	// Tarimas sin piezas: no se deriva pieces = pallets × ratio.
	_, err := f.uc.RecordMovement(context.Background(), inventory.MovementInput{
		ProductID: p.ID, Type: entity.MovementTypeEntry, QuantityPallets: 3,
	})
	require.NoError(t, err)

	pieces, pallets := f.stock(t, p.ID)
	assert.Equal(t, 0, pieces)
	assert.Equal(t, 3, pallets)
}

func TestRecordMovement_SalidaSinStockRechazada(t *testing.T) {
	f := newLedger(t)
	p := f.seedProduct(t, 0, 0, intPtr(24))

	_, err := f.uc.RecordMovement(context.Background(), inventory.MovementInput{
		ProductID: p.ID, Type: entity.MovementTypeExit, QuantityPieces: 1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	pieces, pallets := f.stock(t, p.ID)
	assert.Equal(t, 0, pieces)
	assert.Equal(t, 0, pallets)

	n, err := f.moves.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "una salida rechazada no deja movimiento")
}

func TestRecordMovement_SalidaTarimasInsuficientes(t *testing.T) {
	f := newLedger(t)
	p := f.seedProduct(t, 100, 1, intPtr(24))

	_, err := f.uc.RecordMovement(context.Background(), inventory.MovementInput{
		ProductID: p.ID, Type: entity.MovementTypeExit, QuantityPieces: 10, QuantityPallets: 2,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	pieces, pallets := f.stock(t, p.ID)
	assert.Equal(t, 100, pieces, "la salida es todo o nada")
	assert.Equal(t, 1, pallets)
}

func TestRecordMovement_SalidaExactaDejaCero(t *testing.T) {
	f := newLedger(t)
	p := f.seedProduct(t, 30, 2, nil)

	_, err := f.uc.RecordMovement(context.Background(), inventory.MovementInput{
		ProductID: p.ID, Type: entity.MovementTypeExit, QuantityPieces: 30, QuantityPallets: 2,
	})
	require.NoError(t, err)

	pieces, pallets := f.stock(t, p.ID)
	assert.Zero(t, pieces)
	assert.Zero(t, pallets)
}

func TestRecordMovement_NotFoundAntesQueValidacion(t *testing.T) {
	f := newLedger(t)

	// Cantidades inválidas y producto inexistente: gana NotFound.
	_, err := f.uc.RecordMovement(context.Background(), inventory.MovementInput{
		ProductID: uuid.New().String(), Type: entity.MovementTypeEntry,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordMovement_Validaciones(t *testing.T) {
	f := newLedger(t)
	p := f.seedProduct(t, 10, 1, nil)

	cases := []struct {
		name string
		in   inventory.MovementInput
	}{
		{"ambas cantidades en cero", inventory.MovementInput{ProductID: p.ID, Type: entity.MovementTypeEntry}},
		{"piezas negativas", inventory.MovementInput{ProductID: p.ID, Type: entity.MovementTypeEntry, QuantityPieces: -1, QuantityPallets: 1}},
		{"tarimas negativas", inventory.MovementInput{ProductID: p.ID, Type: entity.MovementTypeExit, QuantityPieces: 1, QuantityPallets: -1}},
		{"tipo desconocido", inventory.MovementInput{ProductID: p.ID, Type: "adjustment", QuantityPieces: 1}},
		{"piezas sobre el máximo", inventory.MovementInput{ProductID: p.ID, Type: entity.MovementTypeEntry, QuantityPieces: entity.MaxCount + 1}},
		{"tarimas sobre el máximo", inventory.MovementInput{ProductID: p.ID, Type: entity.MovementTypeExit, QuantityPallets: entity.MaxCount + 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.RecordMovement(context.Background(), tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	pieces, pallets := f.stock(t, p.ID)
	assert.Equal(t, 10, pieces)
	assert.Equal(t, 1, pallets)
}

func TestRecordMovement_EntradaQueDesbordaElStockSeRechaza(t *testing.T) {
	f := newLedger(t)
	p := f.seedProduct(t, entity.MaxCount-5, 1, nil)
	ctx := context.Background()

	_, err := f.uc.RecordMovement(ctx, inventory.MovementInput{
		ProductID: p.ID, Type: entity.MovementTypeEntry, QuantityPieces: 6,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	pieces, pallets := f.stock(t, p.ID)
	assert.Equal(t, entity.MaxCount-5, pieces, "el stock no cambia")
	assert.Equal(t, 1, pallets)
	n, err := f.moves.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "no queda movimiento registrado")

	// Hasta el tope exacto se acepta.
	_, err = f.uc.RecordMovement(ctx, inventory.MovementInput{
		ProductID: p.ID, Type: entity.MovementTypeEntry, QuantityPieces: 5,
	})
	require.NoError(t, err)
	pieces, _ = f.stock(t, p.ID)
	assert.Equal(t, entity.MaxCount, pieces)
}

func TestRecordMovement_SalidasConcurrentesNuncaNegativas(t *testing.T) {
	f := newLedger(t)
	const stock = 10
	const workers = 25
	p := f.seedProduct(t, stock, 0, nil)

	var ok, insufficient atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.uc.RecordMovement(context.Background(), inventory.MovementInput{
				ProductID: p.ID, Type: entity.MovementTypeExit, QuantityPieces: 1,
			})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				insufficient.Add(1)
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(stock), ok.Load(), "exactamente las salidas que caben")
	assert.Equal(t, int32(workers-stock), insufficient.Load())

	pieces, _ := f.stock(t, p.ID)
	assert.Zero(t, pieces)

	n, err := f.moves.CountByProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, stock, n)
}

func TestRecordMovement_ProductosDistintosEnParalelo(t *testing.T) {
	f := newLedger(t)
	a := f.seedProduct(t, 0, 0, nil)
	b := f.seedProduct(t, 0, 0, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		for _, id := range []string{a.ID, b.ID} {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_, err := f.uc.RecordMovement(context.Background(), inventory.MovementInput{
					ProductID: id, Type: entity.MovementTypeEntry, QuantityPieces: 2,
				})
				assert.NoError(t, err)
			}(id)
		}
	}
	wg.Wait()

	pa, _ := f.stock(t, a.ID)
	pb, _ := f.stock(t, b.ID)
	assert.Equal(t, 100, pa)
	assert.Equal(t, 100, pb)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listado y conversión
// ──────────────────────────────────────────────────────────────────────────────

func TestMovementQuery_OrdenDeInsercion(t *testing.T) {
	f := newLedger(t)
	a := f.seedProduct(t, 0, 0, nil)
	b := f.seedProduct(t, 0, 0, nil)
	ctx := context.Background()

	for i, id := range []string{a.ID, b.ID, a.ID} {
		_, err := f.uc.RecordMovement(ctx, inventory.MovementInput{
			ProductID: id, Type: entity.MovementTypeEntry, QuantityPieces: i + 1,
		})
		require.NoError(t, err)
	}

	all, err := f.query.List(ctx, inventory.ListMovementsQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{all[0].QuantityPieces, all[1].QuantityPieces, all[2].QuantityPieces})
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.Before(all[i-1].CreatedAt), "created_at no retrocede")
	}

	onlyA, err := f.query.List(ctx, inventory.ListMovementsQuery{ProductID: a.ID})
	require.NoError(t, err)
	require.Len(t, onlyA, 2)
	assert.Equal(t, 1, onlyA[0].QuantityPieces)

	newest, err := f.query.List(ctx, inventory.ListMovementsQuery{Limit: 2, Descending: true})
	require.NoError(t, err)
	require.Len(t, newest, 2)
	assert.Equal(t, 3, newest[0].QuantityPieces)
	assert.Equal(t, 2, newest[1].QuantityPieces)
}

func TestPalletConversion(t *testing.T) {
	f := newLedger(t)
	ctx := context.Background()
	withRatio := f.seedProduct(t, 0, 0, intPtr(24))
	withoutRatio := f.seedProduct(t, 0, 0, nil)

	out, err := f.uc.PalletConversion(ctx, withRatio.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 72, out.Pieces)
	assert.Equal(t, 24, out.PiecesPerPallet)

	_, err = f.uc.PalletConversion(ctx, withoutRatio.ID, 3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.PalletConversion(ctx, withRatio.ID, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.PalletConversion(ctx, uuid.New().String(), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordMovement_FallaDeStorageNoDejaEscrituras(t *testing.T) {
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	runner := &failingRunner{inner: memory.NewTxRunner(store)}
	uc := inventory.NewRegisterMovementUseCase(runner, products, nil)

	p := &entity.Product{ID: uuid.New().String(), Name: "Caja", CurrentStockPieces: 5}
	require.NoError(t, products.Create(context.Background(), p))

	_, err := uc.RecordMovement(context.Background(), inventory.MovementInput{
		ProductID: p.ID, Type: entity.MovementTypeEntry, QuantityPieces: 5,
	})
	require.Error(t, err)

	got, _ := products.GetByID(context.Background(), p.ID)
	assert.Equal(t, 5, got.CurrentStockPieces)
	n, _ := memory.NewMovementRepository(store).Count(context.Background())
	assert.Zero(t, n)
}

// failingRunner envuelve los repos para que UpdateStock falle después de insertar el movimiento.
type failingRunner struct {
	inner inventory.TxRunner
}

func (r *failingRunner) Run(ctx context.Context, fn func(repository.MovementRepository, repository.ProductRepository) error) error {
	return r.inner.Run(ctx, func(m repository.MovementRepository, p repository.ProductRepository) error {
		return fn(m, failingStock{p})
	})
}

type failingStock struct {
	repository.ProductRepository
}

func (failingStock) UpdateStock(context.Context, string, int, int, time.Time) error {
	return errors.New("disco lleno")
}
