package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/barcode"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
	"golang.org/x/text/unicode/norm"
)

// ProductUseCase directorio de productos. El stock no se modifica aquí: lo escribe el ledger.
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner inventory.TxRunner
	index    BarcodeIndex
	log      *logger.Logger
}

// NewProductUseCase construye el caso de uso. index puede ser nil (sin caché).
// Los fallos del índice no interrumpen la operación: se registran y se consulta el repositorio.
func NewProductUseCase(
	repo repository.ProductRepository,
	txRunner inventory.TxRunner,
	index BarcodeIndex,
	log *logger.Logger,
) *ProductUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductUseCase{repo: repo, txRunner: txRunner, index: index, log: log.Named("products")}
}

// Create crea un producto con stock en 0, sin importar lo que traiga el request.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := normalizeText(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	if in.MinStockAlert < 0 {
		return nil, fmt.Errorf("%w: min_stock_alert no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.PricePerPiece.IsNegative() {
		return nil, fmt.Errorf("%w: price_per_piece no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.PiecesPerPallet != nil && *in.PiecesPerPallet <= 0 {
		return nil, fmt.Errorf("%w: pieces_per_pallet debe ser mayor que 0", domain.ErrInvalidInput)
	}
	code := strings.TrimSpace(in.Barcode)
	if code != "" {
		if err := barcode.CheckCode(code); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	product := &entity.Product{
		ID:              uuid.New().String(),
		Name:            name,
		Description:     strings.TrimSpace(in.Description),
		Barcode:         code,
		PiecesPerPallet: in.PiecesPerPallet,
		MinStockAlert:   in.MinStockAlert,
		PricePerPiece:   in.PricePerPiece,
		Category:        normalizeText(in.Category),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID. domain.ErrNotFound si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// GetByBarcode búsqueda exacta por código (se recortan espacios del escáner).
// Consulta primero la caché y la descarta si apunta a un producto que ya no lleva ese código.
func (uc *ProductUseCase) GetByBarcode(ctx context.Context, code string) (*dto.ProductResponse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrNotFound
	}

	if uc.index != nil {
		id, ok, err := uc.index.Get(ctx, code)
		if err != nil {
			uc.log.Warn().Err(err).Str("barcode", code).Msg("índice de códigos: lectura fallida")
		}
		if err == nil && ok {
			product, err := uc.repo.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if product != nil && product.Barcode == code {
				return toProductResponse(product), nil
			}
			uc.forget(ctx, code)
		}
	}

	product, err := uc.repo.GetByBarcode(ctx, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if uc.index != nil {
		if err := uc.index.Set(ctx, code, product.ID); err != nil {
			uc.log.Warn().Err(err).Str("barcode", code).Msg("índice de códigos: escritura fallida")
		}
	}
	return toProductResponse(product), nil
}

// Update actualiza atributos estáticos bajo el bloqueo de la fila del producto.
// Cambiar el código de un producto que ya tiene código y movimientos devuelve domain.ErrBarcodeLocked.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var updated *entity.Product
	var oldCode string
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		oldCode = product.Barcode

		if err := applyUpdate(product, in); err != nil {
			return err
		}
		if product.Barcode != oldCode && oldCode != "" {
			n, err := movRepo.CountByProduct(ctx, id)
			if err != nil {
				return err
			}
			if n > 0 {
				return domain.ErrBarcodeLocked
			}
		}
		product.UpdatedAt = time.Now().UTC()
		if err := productRepo.Update(ctx, product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	if oldCode != "" && oldCode != updated.Barcode {
		uc.forget(ctx, oldCode)
	}
	return toProductResponse(updated), nil
}

func applyUpdate(product *entity.Product, in dto.UpdateProductRequest) error {
	if in.Name != nil {
		name := normalizeText(*in.Name)
		if name == "" {
			return fmt.Errorf("%w: name no puede quedar vacío", domain.ErrInvalidInput)
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
	}
	if in.Barcode != nil {
		code := strings.TrimSpace(*in.Barcode)
		if code != "" {
			if err := barcode.CheckCode(code); err != nil {
				return err
			}
		}
		product.Barcode = code
	}
	if in.PiecesPerPallet != nil {
		if *in.PiecesPerPallet <= 0 {
			return fmt.Errorf("%w: pieces_per_pallet debe ser mayor que 0", domain.ErrInvalidInput)
		}
		v := *in.PiecesPerPallet
		product.PiecesPerPallet = &v
	}
	if in.MinStockAlert != nil {
		if *in.MinStockAlert < 0 {
			return fmt.Errorf("%w: min_stock_alert no puede ser negativo", domain.ErrInvalidInput)
		}
		product.MinStockAlert = *in.MinStockAlert
	}
	if in.PricePerPiece != nil {
		if in.PricePerPiece.IsNegative() {
			return fmt.Errorf("%w: price_per_piece no puede ser negativo", domain.ErrInvalidInput)
		}
		product.PricePerPiece = *in.PricePerPiece
	}
	if in.Category != nil {
		product.Category = normalizeText(*in.Category)
	}
	return nil
}

// List devuelve todos los productos en orden de inserción.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// Delete elimina un producto. Sus movimientos se conservan en el ledger.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	if product.Barcode != "" {
		uc.forget(ctx, product.Barcode)
	}
	return nil
}

// forget descarta code del índice. Una entrada que no se pudo borrar se valida en la siguiente lectura.
func (uc *ProductUseCase) forget(ctx context.Context, code string) {
	if uc.index == nil {
		return
	}
	if err := uc.index.Delete(ctx, code); err != nil {
		uc.log.Warn().Err(err).Str("barcode", code).Msg("índice de códigos: borrado fallido")
	}
}

// normalizeText recorta y normaliza a NFC para que nombres escritos con
// caracteres combinados se comparen igual que los precompuestos.
func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:                  p.ID,
		Name:                p.Name,
		Description:         p.Description,
		Barcode:             p.Barcode,
		PiecesPerPallet:     p.PiecesPerPallet,
		MinStockAlert:       p.MinStockAlert,
		PricePerPiece:       p.PricePerPiece,
		Category:            p.Category,
		CurrentStockPieces:  p.CurrentStockPieces,
		CurrentStockPallets: p.CurrentStockPallets,
		IsLowStock:          p.IsLowStock(),
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}
