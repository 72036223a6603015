// Package analytics contiene los agregados de solo lectura del almacén: el dashboard
// de stock se calcula siempre desde el directorio y el ledger, sin estado propio.
package analytics

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// DefaultRecentWindow movimientos recientes mostrados en el dashboard.
const DefaultRecentWindow = 10

// DashboardUseCase genera el resumen de stock. No cachea: cada llamada lee un snapshot nuevo.
type DashboardUseCase struct {
	snapshots    SnapshotRunner
	recentWindow int
}

// NewDashboardUseCase construye el caso de uso. recentWindow <= 0 usa DefaultRecentWindow.
func NewDashboardUseCase(snapshots SnapshotRunner, recentWindow int) *DashboardUseCase {
	if recentWindow <= 0 {
		recentWindow = DefaultRecentWindow
	}
	return &DashboardUseCase{snapshots: snapshots, recentWindow: recentWindow}
}

// GetDashboard construye el DashboardResponse:
//   - total_products / total_movements (incluye movimientos de productos eliminados)
//   - low_stock_products: nombres con current_stock_pieces <= min_stock_alert, en orden del directorio
//   - recent_movements: los últimos N, más reciente primero, con el nombre del producto resuelto
func (uc *DashboardUseCase) GetDashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	out := &dto.DashboardResponse{
		LowStockProducts: []string{},
		RecentMovements:  []dto.RecentMovementDTO{},
	}
	err := uc.snapshots.ReadSnapshot(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
	) error {
		products, err := productRepo.List(ctx)
		if err != nil {
			return err
		}
		totalMovements, err := movRepo.Count(ctx)
		if err != nil {
			return err
		}
		recent, err := movRepo.List(ctx, repository.MovementFilter{Limit: uc.recentWindow, Descending: true})
		if err != nil {
			return err
		}

		names := make(map[string]string, len(products))
		for _, p := range products {
			names[p.ID] = p.Name
			if p.IsLowStock() {
				out.LowStockProducts = append(out.LowStockProducts, p.Name)
			}
		}
		out.TotalProducts = len(products)
		out.TotalMovements = totalMovements
		out.LowStockCount = len(out.LowStockProducts)
		out.RecentMovements = resolveRecent(recent, names)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.GeneratedAt = time.Now().UTC()
	return out, nil
}

// resolveRecent adjunta el nombre del producto; uno eliminado queda como no encontrado.
func resolveRecent(movements []*entity.Movement, names map[string]string) []dto.RecentMovementDTO {
	out := make([]dto.RecentMovementDTO, 0, len(movements))
	for _, m := range movements {
		name, found := names[m.ProductID]
		out = append(out, dto.RecentMovementDTO{
			MovementResponse: *inventory.ToMovementResponse(m),
			ProductName:      name,
			ProductFound:     found,
		})
	}
	return out
}
