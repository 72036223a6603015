package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo ledger sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// movementsLockKey clave del advisory lock que serializa los inserts del ledger.
const movementsLockKey int64 = 0x6c6564676572

// Create inserta el movimiento. seq lo asigna la secuencia y created_at se lleva al máximo
// existente si el reloj del proceso quedó atrás, así el ledger nunca retrocede en el tiempo.
// Debe llamarse dentro de la transacción del ledger: el advisory lock se mantiene hasta el
// commit, de modo que el orden de seq y el de created_at coinciden entre transacciones.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	if _, err := r.q.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", movementsLockKey); err != nil {
		return fmt.Errorf("create movement: lock: %w", err)
	}
	query := `
		INSERT INTO movements (id, product_id, movement_type, quantity_pieces, quantity_pallets,
			movement_reason, barcode_scanned, operator, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
			GREATEST($9::timestamptz, COALESCE((SELECT max(created_at) FROM movements), $9::timestamptz)))
		RETURNING seq, created_at`
	err := r.q.QueryRow(ctx, query,
		movement.ID, movement.ProductID, movement.Type, movement.QuantityPieces, movement.QuantityPallets,
		movement.Reason, movement.BarcodeScanned, movement.User, movement.CreatedAt,
	).Scan(&movement.Seq, &movement.CreatedAt)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	movement.CreatedAt = movement.CreatedAt.UTC()
	return nil
}

// List lista movimientos por orden de inserción con filtros opcionales.
func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	query := `
		SELECT id, seq, product_id, movement_type, quantity_pieces, quantity_pallets,
			movement_reason, barcode_scanned, operator, created_at
		FROM movements`
	args := []any{}
	pos := 1
	if filter.ProductID != "" {
		if !validID(filter.ProductID) {
			return []*entity.Movement{}, nil
		}
		query += fmt.Sprintf(" WHERE product_id = $%d", pos)
		args = append(args, filter.ProductID)
		pos++
	}
	if filter.Descending {
		query += " ORDER BY seq DESC"
	} else {
		query += " ORDER BY seq ASC"
	}
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", pos)
		args = append(args, filter.Limit)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Movement, 0)
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(
			&m.ID, &m.Seq, &m.ProductID, &m.Type, &m.QuantityPieces, &m.QuantityPallets,
			&m.Reason, &m.BarcodeScanned, &m.User, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.CreatedAt = m.CreatedAt.UTC()
		list = append(list, &m)
	}
	return list, rows.Err()
}

// Count total de movimientos (incluye los de productos eliminados).
func (r *MovementRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM movements`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

// CountByProduct movimientos de un producto.
func (r *MovementRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	if !validID(productID) {
		return 0, nil
	}
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM movements WHERE product_id = $1`, productID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements by product: %w", err)
	}
	return n, nil
}
