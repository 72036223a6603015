package dto

import "time"

// DashboardResponse respuesta de GET /api/dashboard. Se calcula sobre una sola lectura
// consistente del directorio de productos y del ledger.
type DashboardResponse struct {
	TotalProducts    int                 `json:"total_products"`
	TotalMovements   int                 `json:"total_movements"`
	LowStockCount    int                 `json:"low_stock_count"`
	LowStockProducts []string            `json:"low_stock_products"`
	RecentMovements  []RecentMovementDTO `json:"recent_movements"` // más reciente primero
	GeneratedAt      time.Time           `json:"generated_at"`
}

// RecentMovementDTO movimiento del dashboard con el nombre del producto resuelto.
// ProductFound=false cuando el producto fue eliminado después del movimiento.
type RecentMovementDTO struct {
	MovementResponse
	ProductName  string `json:"product_name"`
	ProductFound bool   `json:"product_found"`
}
