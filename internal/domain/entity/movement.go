package entity

import (
	"math"
	"time"
)

// Tipos de movimiento del ledger.
const (
	MovementTypeEntry = "entry" // entrada
	MovementTypeExit  = "exit"  // salida
)

// DefaultMovementUser operador registrado cuando el cliente no envía uno.
const DefaultMovementUser = "Sistema"

// MaxCount tope de cantidades y contadores de stock (columnas INTEGER).
const MaxCount = math.MaxInt32

// Movement es un asiento inmutable del ledger (solo se agrega, nunca se modifica).
type Movement struct {
	ID              string
	Seq             int64 // orden de inserción asignado por el almacenamiento
	ProductID       string
	Type            string
	QuantityPieces  int
	QuantityPallets int
	Reason          string
	BarcodeScanned  string // código usado para resolver el producto (auditoría)
	User            string
	CreatedAt       time.Time
}

// IsValidMovementType indica si t es entry o exit.
func IsValidMovementType(t string) bool {
	return t == MovementTypeEntry || t == MovementTypeExit
}
