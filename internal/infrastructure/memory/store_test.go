package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
)

func TestProductRepo_CodigoUnico(t *testing.T) {
	s := memory.NewStore()
	repo := memory.NewProductRepository(s)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.Product{ID: "a", Name: "A", Barcode: "X1"}))
	err := repo.Create(ctx, &entity.Product{ID: "b", Name: "B", Barcode: "X1"})
	assert.ErrorIs(t, err, domain.ErrDuplicateBarcode)

	got, err := repo.GetByBarcode(ctx, "X1")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)

	missing, err := repo.GetByBarcode(ctx, "x1")
	require.NoError(t, err)
	assert.Nil(t, missing, "la búsqueda es exacta")
}

func TestProductRepo_LecturasDevuelvenCopias(t *testing.T) {
	s := memory.NewStore()
	repo := memory.NewProductRepository(s)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.Product{ID: "a", Name: "A"}))

	p, _ := repo.GetByID(ctx, "a")
	p.CurrentStockPieces = 999

	again, _ := repo.GetByID(ctx, "a")
	assert.Zero(t, again.CurrentStockPieces)
}

func TestProductRepo_UpdateNoTocaStock(t *testing.T) {
	s := memory.NewStore()
	repo := memory.NewProductRepository(s)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.Product{ID: "a", Name: "A", Barcode: "C1", CurrentStockPieces: 4}))

	require.NoError(t, repo.Update(ctx, &entity.Product{ID: "a", Name: "A2", Barcode: "C2", CurrentStockPieces: 100}))

	got, _ := repo.GetByID(ctx, "a")
	assert.Equal(t, "A2", got.Name)
	assert.Equal(t, 4, got.CurrentStockPieces)

	old, _ := repo.GetByBarcode(ctx, "C1")
	assert.Nil(t, old, "el código anterior queda libre")

	assert.ErrorIs(t, repo.Update(ctx, &entity.Product{ID: "zz"}), domain.ErrNotFound)
}

func TestProductRepo_DeleteConservaOrden(t *testing.T) {
	s := memory.NewStore()
	repo := memory.NewProductRepository(s)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(ctx, &entity.Product{ID: id, Name: id}))
	}

	require.NoError(t, repo.Delete(ctx, "b"))
	assert.ErrorIs(t, repo.Delete(ctx, "b"), domain.ErrNotFound)

	list, _ := repo.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "c", list[1].ID)
	n, _ := repo.Count(ctx)
	assert.Equal(t, 2, n)
}

func TestTxRunner_RollbackDescartaEscrituras(t *testing.T) {
	s := memory.NewStore()
	runner := memory.NewTxRunner(s)
	products := memory.NewProductRepository(s)
	moves := memory.NewMovementRepository(s)
	ctx := context.Background()
	require.NoError(t, products.Create(ctx, &entity.Product{ID: "a", Name: "A"}))

	boom := errors.New("boom")
	err := runner.Run(ctx, func(movRepo repository.MovementRepository, productRepo repository.ProductRepository) error {
		require.NoError(t, movRepo.Create(ctx, &entity.Movement{ID: "m1", ProductID: "a", Type: entity.MovementTypeEntry, QuantityPieces: 1}))
		require.NoError(t, productRepo.UpdateStock(ctx, "a", 1, 0, time.Now()))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, _ := moves.Count(ctx)
	assert.Zero(t, n)
	p, _ := products.GetByID(ctx, "a")
	assert.Zero(t, p.CurrentStockPieces)
}

func TestMovementRepo_CreatedAtMonotonico(t *testing.T) {
	s := memory.NewStore()
	moves := memory.NewMovementRepository(s)
	ctx := context.Background()
	t0 := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	first := &entity.Movement{ID: "m1", ProductID: "a", CreatedAt: t0}
	second := &entity.Movement{ID: "m2", ProductID: "a", CreatedAt: t0.Add(-time.Minute)}
	require.NoError(t, moves.Create(ctx, first))
	require.NoError(t, moves.Create(ctx, second))

	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, int64(2), second.Seq)
	assert.Equal(t, t0, second.CreatedAt, "un reloj que retrocede no reordena el ledger")
}

func TestReadSnapshot_NoVeEscriturasPosteriores(t *testing.T) {
	s := memory.NewStore()
	runner := memory.NewTxRunner(s)
	products := memory.NewProductRepository(s)
	ctx := context.Background()
	require.NoError(t, products.Create(ctx, &entity.Product{ID: "a", Name: "A"}))

	err := runner.ReadSnapshot(ctx, func(productRepo repository.ProductRepository, movRepo repository.MovementRepository) error {
		// Escritura concurrente fuera del snapshot.
		require.NoError(t, products.Create(ctx, &entity.Product{ID: "b", Name: "B"}))

		n, err := productRepo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		return nil
	})
	require.NoError(t, err)
}

func TestDelete_EsperaLaFilaBloqueada(t *testing.T) {
	s := memory.NewStore()
	runner := memory.NewTxRunner(s)
	products := memory.NewProductRepository(s)
	ctx := context.Background()
	require.NoError(t, products.Create(ctx, &entity.Product{ID: "a", Name: "A"}))

	locked := make(chan struct{})
	release := make(chan struct{})
	txDone := make(chan error, 1)
	go func() {
		txDone <- runner.Run(ctx, func(movRepo repository.MovementRepository, productRepo repository.ProductRepository) error {
			if _, err := productRepo.GetForUpdate(ctx, "a"); err != nil {
				return err
			}
			close(locked)
			<-release
			return productRepo.UpdateStock(ctx, "a", 5, 0, time.Now())
		})
	}()
	<-locked

	deleted := make(chan error, 1)
	go func() { deleted <- products.Delete(ctx, "a") }()

	select {
	case <-deleted:
		t.Fatal("Delete no debe avanzar mientras la fila está bloqueada")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-txDone)
	require.NoError(t, <-deleted)

	p, _ := products.GetByID(ctx, "a")
	assert.Nil(t, p)
}
