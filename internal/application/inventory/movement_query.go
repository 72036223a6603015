package inventory

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// MovementQueryUseCase lecturas del ledger (sin bloqueo).
type MovementQueryUseCase struct {
	movRepo repository.MovementRepository
}

// NewMovementQueryUseCase construye el caso de uso.
func NewMovementQueryUseCase(movRepo repository.MovementRepository) *MovementQueryUseCase {
	return &MovementQueryUseCase{movRepo: movRepo}
}

// ListMovementsQuery filtros de listado. Sin Descending el orden es del más antiguo al más reciente.
type ListMovementsQuery struct {
	ProductID  string
	Limit      int
	Descending bool
}

// List devuelve los movimientos según el filtro; un producto sin movimientos da lista vacía.
func (uc *MovementQueryUseCase) List(ctx context.Context, q ListMovementsQuery) ([]dto.MovementResponse, error) {
	list, err := uc.movRepo.List(ctx, repository.MovementFilter{
		ProductID:  q.ProductID,
		Limit:      q.Limit,
		Descending: q.Descending,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *ToMovementResponse(m))
	}
	return out, nil
}
