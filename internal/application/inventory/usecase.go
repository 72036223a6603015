package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// RegisterMovementUseCase es el ledger de stock: registra entradas y salidas de forma
// transaccional con bloqueo de la fila del producto (SELECT FOR UPDATE) y es el único
// que escribe current_stock_pieces / current_stock_pallets.
type RegisterMovementUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	log         *logger.Logger
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	log *logger.Logger,
) *RegisterMovementUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &RegisterMovementUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		log:         log.Named("ledger"),
	}
}

// MovementInput entrada para registrar un movimiento.
// Piezas y tarimas son contadores independientes: no se deriva uno del otro.
type MovementInput struct {
	ProductID       string
	Type            string // entry | exit
	QuantityPieces  int
	QuantityPallets int
	Reason          string
	BarcodeScanned  string
	User            string
}

// MovementInputFromRequest adapta el request HTTP a MovementInput.
func MovementInputFromRequest(in dto.RecordMovementRequest) MovementInput {
	return MovementInput{
		ProductID:       strings.TrimSpace(in.ProductID),
		Type:            strings.ToLower(strings.TrimSpace(in.MovementType)),
		QuantityPieces:  in.QuantityPieces,
		QuantityPallets: in.QuantityPallets,
		Reason:          strings.TrimSpace(in.MovementReason),
		BarcodeScanned:  strings.TrimSpace(in.BarcodeScanned),
		User:            strings.TrimSpace(in.User),
	}
}

// RecordMovement inicia una transacción, bloquea el producto y valida en este orden:
//  1. domain.ErrNotFound si el producto no existe.
//  2. domain.ErrInvalidInput si el tipo no es entry/exit, alguna cantidad es negativa o ambas son 0,
//     o si una cantidad o el stock resultante de una entrada supera entity.MaxCount.
//  3. domain.ErrInsufficientStock si una salida dejaría piezas o tarimas por debajo de 0.
//
// Si todo es válido agrega el movimiento y ajusta ambos contadores en la misma transacción.
func (uc *RegisterMovementUseCase) RecordMovement(ctx context.Context, in MovementInput) (*dto.MovementResponse, error) {
	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		// Bloquea la fila del producto hasta el Commit/Rollback
		product, err := productRepo.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if err := validateMovement(in); err != nil {
			return err
		}

		pieces, pallets := product.CurrentStockPieces, product.CurrentStockPallets
		if in.Type == entity.MovementTypeEntry {
			if pieces > entity.MaxCount-in.QuantityPieces || pallets > entity.MaxCount-in.QuantityPallets {
				return fmt.Errorf("%w: la entrada excede el stock máximo de %d", domain.ErrInvalidInput, entity.MaxCount)
			}
			pieces += in.QuantityPieces
			pallets += in.QuantityPallets
		} else {
			if pieces < in.QuantityPieces || pallets < in.QuantityPallets {
				uc.log.Debug().
					Str("product_id", product.ID).
					Int("stock_pieces", pieces).Int("stock_pallets", pallets).
					Int("requested_pieces", in.QuantityPieces).Int("requested_pallets", in.QuantityPallets).
					Msg("salida rechazada por stock insuficiente")
				return fmt.Errorf("%w: disponible %d piezas y %d tarimas", domain.ErrInsufficientStock, pieces, pallets)
			}
			pieces -= in.QuantityPieces
			pallets -= in.QuantityPallets
		}

		now := time.Now().UTC()
		user := in.User
		if user == "" {
			user = entity.DefaultMovementUser
		}
		mov = &entity.Movement{
			ID:              uuid.New().String(),
			ProductID:       product.ID,
			Type:            in.Type,
			QuantityPieces:  in.QuantityPieces,
			QuantityPallets: in.QuantityPallets,
			Reason:          in.Reason,
			BarcodeScanned:  in.BarcodeScanned,
			User:            user,
			CreatedAt:       now,
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		return productRepo.UpdateStock(ctx, product.ID, pieces, pallets, now)
	})
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(mov), nil
}

func validateMovement(in MovementInput) error {
	if !entity.IsValidMovementType(in.Type) {
		return fmt.Errorf("%w: movement_type debe ser entry o exit", domain.ErrInvalidInput)
	}
	if in.QuantityPieces < 0 || in.QuantityPallets < 0 {
		return fmt.Errorf("%w: las cantidades no pueden ser negativas", domain.ErrInvalidInput)
	}
	if in.QuantityPieces == 0 && in.QuantityPallets == 0 {
		return fmt.Errorf("%w: se requiere al menos una cantidad positiva", domain.ErrInvalidInput)
	}
	if in.QuantityPieces > entity.MaxCount || in.QuantityPallets > entity.MaxCount {
		return fmt.Errorf("%w: las cantidades no pueden superar %d", domain.ErrInvalidInput, entity.MaxCount)
	}
	return nil
}

// PalletConversion convierte tarimas a piezas según pieces_per_pallet del producto.
// Es la transformación que el cliente usa para mantener ambos contadores alineados.
func (uc *RegisterMovementUseCase) PalletConversion(ctx context.Context, productID string, pallets int) (*dto.PalletConversionResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if pallets < 0 {
		return nil, fmt.Errorf("%w: pallets no puede ser negativo", domain.ErrInvalidInput)
	}
	pieces, ok := product.PalletsToPieces(pallets)
	if !ok {
		return nil, fmt.Errorf("%w: el producto no define pieces_per_pallet", domain.ErrInvalidInput)
	}
	return &dto.PalletConversionResponse{
		ProductID:       product.ID,
		Pallets:         pallets,
		PiecesPerPallet: *product.PiecesPerPallet,
		Pieces:          pieces,
	}, nil
}

// ToMovementResponse mapea la entidad al DTO de salida.
func ToMovementResponse(m *entity.Movement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:              m.ID,
		ProductID:       m.ProductID,
		MovementType:    m.Type,
		QuantityPieces:  m.QuantityPieces,
		QuantityPallets: m.QuantityPallets,
		MovementReason:  m.Reason,
		BarcodeScanned:  m.BarcodeScanned,
		User:            m.User,
		CreatedAt:       m.CreatedAt,
	}
}
