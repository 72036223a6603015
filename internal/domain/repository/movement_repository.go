package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// MovementFilter filtros para listar el ledger.
type MovementFilter struct {
	ProductID  string // vacío = todos
	Limit      int    // 0 = sin límite
	Descending bool   // true = más reciente primero
}

// MovementRepository define el puerto de persistencia del ledger (solo inserción).
type MovementRepository interface {
	// Create agrega el movimiento y asigna Seq; CreatedAt nunca retrocede respecto al último insertado.
	Create(ctx context.Context, movement *entity.Movement) error
	// List devuelve movimientos en orden de inserción (ascendente salvo Descending).
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	Count(ctx context.Context) (int, error)
	CountByProduct(ctx context.Context, productID string) (int, error)
}
