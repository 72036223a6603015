package memory

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/application/analytics"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)
var _ analytics.SnapshotRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks con repositorios transaccionales sobre el Store.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn; las escrituras se aplican atómicamente solo si fn no devuelve error.
// Las filas bloqueadas con GetForUpdate se liberan al terminar.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx := newTxState()
	defer tx.release()

	if err := fn(&MovementRepo{s: r.s, tx: tx}, &ProductRepo{s: r.s, tx: tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.s.commit(tx)
}

// ReadSnapshot ejecuta fn sobre una copia congelada del estado.
func (r *TxRunner) ReadSnapshot(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	snap := r.s.snapshot()
	return fn(&ProductRepo{s: snap}, &MovementRepo{s: snap})
}
