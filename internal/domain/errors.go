package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicateBarcode    = errors.New("el código de barras ya está asignado a otro producto")
	ErrBarcodeLocked       = errors.New("el código de barras no puede cambiar: el producto ya tiene movimientos")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrAllocationExhausted = errors.New("no se pudo asignar un código de barras libre")
)
