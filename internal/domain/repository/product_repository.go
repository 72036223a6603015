package repository

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Las lecturas devuelven (nil, nil) cuando el producto no existe.
type ProductRepository interface {
	// Create persiste el producto. domain.ErrDuplicateBarcode si el código ya está asignado.
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByBarcode búsqueda exacta por código (indexada).
	GetByBarcode(ctx context.Context, code string) (*entity.Product, error)
	// GetForUpdate lee el producto y bloquea su fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// Update actualiza los atributos estáticos; nunca el stock.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock escribe los contadores de stock (solo el ledger lo usa).
	UpdateStock(ctx context.Context, id string, pieces, pallets int, at time.Time) error
	// List devuelve todos los productos en orden de inserción.
	List(ctx context.Context) ([]*entity.Product, error)
	// Delete elimina el producto. domain.ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
