package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository (directa o dentro de una tx).
type ProductRepo struct {
	s  *Store
	tx *txState
}

// NewProductRepository construye el repositorio fuera de transacción.
func NewProductRepository(s *Store) *ProductRepo {
	return &ProductRepo{s: s}
}

// Create persiste un nuevo producto respetando la unicidad del código de barras.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	p := product.Clone()
	return r.s.exec(r.tx, op{
		check: func(s *Store) error {
			if _, ok := s.products[p.ID]; ok {
				return fmt.Errorf("insert product: id %s duplicado", p.ID)
			}
			if p.Barcode != "" {
				if _, ok := s.byBarcode[p.Barcode]; ok {
					return domain.ErrDuplicateBarcode
				}
			}
			return nil
		},
		apply: func(s *Store) {
			s.products[p.ID] = p
			s.order = append(s.order, p.ID)
			if p.Barcode != "" {
				s.byBarcode[p.Barcode] = p.ID
			}
		},
	})
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return p.Clone(), nil
}

// GetByBarcode búsqueda exacta por código.
func (r *ProductRepo) GetByBarcode(_ context.Context, code string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.byBarcode[code]
	if !ok {
		return nil, nil
	}
	return r.s.products[id].Clone(), nil
}

// GetForUpdate bloquea la fila del producto hasta el fin de la transacción y lo lee.
// Un id inexistente no deja candado y devuelve nil.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	if r.tx != nil {
		r.tx.lock(r.s, id)
	}
	return r.GetByID(ctx, id)
}

// Update actualiza los atributos estáticos. El stock almacenado no se toca.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	p := product.Clone()
	return r.s.exec(r.tx, op{
		check: func(s *Store) error {
			if _, ok := s.products[p.ID]; !ok {
				return domain.ErrNotFound
			}
			if p.Barcode != "" {
				if owner, ok := s.byBarcode[p.Barcode]; ok && owner != p.ID {
					return domain.ErrDuplicateBarcode
				}
			}
			return nil
		},
		apply: func(s *Store) {
			cur := s.products[p.ID]
			if cur.Barcode != p.Barcode {
				delete(s.byBarcode, cur.Barcode)
				if p.Barcode != "" {
					s.byBarcode[p.Barcode] = p.ID
				}
			}
			p.CurrentStockPieces = cur.CurrentStockPieces
			p.CurrentStockPallets = cur.CurrentStockPallets
			p.CreatedAt = cur.CreatedAt
			s.products[p.ID] = p
		},
	})
}

// UpdateStock escribe los contadores de stock.
func (r *ProductRepo) UpdateStock(_ context.Context, id string, pieces, pallets int, at time.Time) error {
	return r.s.exec(r.tx, op{
		check: func(s *Store) error {
			if _, ok := s.products[id]; !ok {
				return domain.ErrNotFound
			}
			if pieces < 0 || pallets < 0 {
				return fmt.Errorf("update stock: contadores negativos (%d, %d)", pieces, pallets)
			}
			return nil
		},
		apply: func(s *Store) {
			p := s.products[id]
			p.CurrentStockPieces = pieces
			p.CurrentStockPallets = pallets
			p.UpdatedAt = at
		},
	})
}

// List devuelve los productos en orden de inserción.
func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Product, 0, len(r.s.order))
	for _, id := range r.s.order {
		list = append(list, r.s.products[id].Clone())
	}
	return list, nil
}

// Delete elimina el producto; espera a que termine cualquier transacción que tenga su fila bloqueada.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	if r.tx != nil {
		r.tx.lock(r.s, id)
	} else if m := r.s.rowLock(id); m != nil {
		m.Lock()
		defer m.Unlock()
	}
	return r.s.exec(r.tx, op{
		check: func(s *Store) error {
			if _, ok := s.products[id]; !ok {
				return domain.ErrNotFound
			}
			return nil
		},
		apply: func(s *Store) {
			p := s.products[id]
			if p.Barcode != "" {
				delete(s.byBarcode, p.Barcode)
			}
			delete(s.products, id)
			delete(s.rowLocks, id)
			for i, oid := range s.order {
				if oid == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		},
	})
}

// Count total de productos.
func (r *ProductRepo) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.products), nil
}
