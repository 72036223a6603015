package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El stock siempre inicia en 0;
// cualquier campo de stock enviado por el cliente se ignora.
type CreateProductRequest struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Barcode         string          `json:"barcode"`
	PiecesPerPallet *int            `json:"pieces_per_pallet"`
	MinStockAlert   int             `json:"min_stock_alert"`
	PricePerPiece   decimal.Decimal `json:"price_per_piece"`
	Category        string          `json:"category"`
}

// UpdateProductRequest actualización parcial de atributos estáticos (sin stock).
type UpdateProductRequest struct {
	Name            *string          `json:"name"`
	Description     *string          `json:"description"`
	Barcode         *string          `json:"barcode"`
	PiecesPerPallet *int             `json:"pieces_per_pallet"`
	MinStockAlert   *int             `json:"min_stock_alert"`
	PricePerPiece   *decimal.Decimal `json:"price_per_piece"`
	Category        *string          `json:"category"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Barcode             string          `json:"barcode"`
	PiecesPerPallet     *int            `json:"pieces_per_pallet"`
	MinStockAlert       int             `json:"min_stock_alert"`
	PricePerPiece       decimal.Decimal `json:"price_per_piece"`
	Category            string          `json:"category"`
	CurrentStockPieces  int             `json:"current_stock_pieces"`
	CurrentStockPallets int             `json:"current_stock_pallets"`
	IsLowStock          bool            `json:"is_low_stock"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// PalletConversionResponse salida de GET /api/products/:id/pallet-conversion.
type PalletConversionResponse struct {
	ProductID       string `json:"product_id"`
	Pallets         int    `json:"pallets"`
	PiecesPerPallet int    `json:"pieces_per_pallet"`
	Pieces          int    `json:"pieces"`
}
