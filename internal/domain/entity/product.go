package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del almacén con stock en dos unidades (piezas y tarimas).
// CurrentStockPieces y CurrentStockPallets solo los escribe el ledger de movimientos.
type Product struct {
	ID                  string
	Name                string
	Description         string
	Barcode             string // opcional; único cuando está asignado
	PiecesPerPallet     *int   // nil = el producto no se maneja por tarimas
	MinStockAlert       int    // umbral de alerta, en piezas
	PricePerPiece       decimal.Decimal
	Category            string
	CurrentStockPieces  int
	CurrentStockPallets int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsLowStock indica si el stock en piezas está en o por debajo del umbral de alerta.
func (p *Product) IsLowStock() bool {
	return p.CurrentStockPieces <= p.MinStockAlert
}

// PalletsToPieces convierte tarimas a piezas. ok=false si el producto no define piezas por tarima.
func (p *Product) PalletsToPieces(pallets int) (pieces int, ok bool) {
	if p.PiecesPerPallet == nil || *p.PiecesPerPallet <= 0 {
		return 0, false
	}
	return pallets * *p.PiecesPerPallet, true
}

// Clone devuelve una copia independiente (incluye el puntero PiecesPerPallet).
func (p *Product) Clone() *Product {
	cp := *p
	if p.PiecesPerPallet != nil {
		v := *p.PiecesPerPallet
		cp.PiecesPerPallet = &v
	}
	return &cp
}
