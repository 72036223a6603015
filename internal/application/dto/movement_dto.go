package dto

import "time"

// RecordMovementRequest body para POST /api/movements.
type RecordMovementRequest struct {
	ProductID       string `json:"product_id"`
	MovementType    string `json:"movement_type"`
	QuantityPieces  int    `json:"quantity_pieces"`
	QuantityPallets int    `json:"quantity_pallets"`
	MovementReason  string `json:"movement_reason"`
	BarcodeScanned  string `json:"barcode_scanned"`
	User            string `json:"user"`
}

// MovementResponse salida de un movimiento del ledger.
type MovementResponse struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id"`
	MovementType    string    `json:"movement_type"`
	QuantityPieces  int       `json:"quantity_pieces"`
	QuantityPallets int       `json:"quantity_pallets"`
	MovementReason  string    `json:"movement_reason"`
	BarcodeScanned  string    `json:"barcode_scanned"`
	User            string    `json:"user"`
	CreatedAt       time.Time `json:"created_at"`
}
