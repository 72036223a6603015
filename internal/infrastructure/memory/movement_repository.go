package memory

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo ledger en memoria (solo inserción).
type MovementRepo struct {
	s  *Store
	tx *txState
}

// NewMovementRepository construye el repositorio fuera de transacción.
func NewMovementRepository(s *Store) *MovementRepo {
	return &MovementRepo{s: s}
}

// Create agrega el movimiento al ledger. Al aplicarse asigna Seq y ajusta CreatedAt
// para que nunca sea anterior al último movimiento insertado.
func (r *MovementRepo) Create(_ context.Context, movement *entity.Movement) error {
	return r.s.exec(r.tx, op{
		apply: func(s *Store) {
			s.seq++
			movement.Seq = s.seq
			if movement.CreatedAt.Before(s.lastAt) {
				movement.CreatedAt = s.lastAt
			}
			s.lastAt = movement.CreatedAt
			m := *movement
			s.movements = append(s.movements, &m)
		},
	})
}

// List filtra y ordena por orden de inserción.
func (r *MovementRepo) List(_ context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := len(r.s.movements)
	out := make([]*entity.Movement, 0)
	for i := 0; i < n; i++ {
		idx := i
		if filter.Descending {
			idx = n - 1 - i
		}
		m := r.s.movements[idx]
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			continue
		}
		mc := *m
		out = append(out, &mc)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// Count total de movimientos (incluye los de productos eliminados).
func (r *MovementRepo) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.movements), nil
}

// CountByProduct movimientos de un producto.
func (r *MovementRepo) CountByProduct(_ context.Context, productID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			n++
		}
	}
	return n, nil
}
