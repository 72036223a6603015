package memory

import (
	"context"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

func TestRowLock_ClaveIndependienteDelBufferDelLlamador(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	const id = "539e5f88-7a1b-4c2d-8e3f-000000000001"
	require.NoError(t, NewProductRepository(s).Create(ctx, &entity.Product{ID: id, Name: "A"}))

	// Cadena que comparte memoria con un buffer reutilizable, como los parámetros de ruta.
	buf := []byte(id)
	borrowed := unsafe.String(&buf[0], len(buf))
	first := s.rowLock(borrowed)
	require.NotNil(t, first)

	copy(buf, "29641ffe-0000-4000-8000-000000000002")

	assert.Same(t, first, s.rowLock(id), "la misma fila debe resolver siempre al mismo mutex")
	assert.Len(t, s.rowLocks, 1)
}

func TestRowLock_NoCreaCandadoParaIDsInexistentes(t *testing.T) {
	s := NewStore()
	runner := NewTxRunner(s)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := runner.Run(ctx, func(_ repository.MovementRepository, productRepo repository.ProductRepository) error {
			p, err := productRepo.GetForUpdate(ctx, "no-existe")
			assert.Nil(t, p)
			return err
		})
		require.NoError(t, err)
	}
	assert.Empty(t, s.rowLocks)
}

func TestDelete_LiberaElCandadoDeLaFila(t *testing.T) {
	s := NewStore()
	runner := NewTxRunner(s)
	products := NewProductRepository(s)
	ctx := context.Background()
	require.NoError(t, products.Create(ctx, &entity.Product{ID: "a", Name: "A", Barcode: "X1"}))

	err := runner.Run(ctx, func(_ repository.MovementRepository, productRepo repository.ProductRepository) error {
		_, err := productRepo.GetForUpdate(ctx, "a")
		return err
	})
	require.NoError(t, err)
	require.Len(t, s.rowLocks, 1)

	require.NoError(t, products.Delete(ctx, "a"))
	assert.Empty(t, s.rowLocks)
	assert.Empty(t, s.byBarcode)
}
