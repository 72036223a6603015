package analytics

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// SnapshotRunner ejecuta fn sobre una vista de solo lectura consistente del directorio
// de productos y del ledger (PostgreSQL: REPEATABLE READ READ ONLY; memoria: copia congelada).
type SnapshotRunner interface {
	ReadSnapshot(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
	) error) error
}
