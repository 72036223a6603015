// Package report arma los reportes descargables (stock en PDF, ledger en XLSX) sobre el
// mismo snapshot consistente que usa el dashboard.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/analytics"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// DeletedProductLabel nombre mostrado para movimientos de productos eliminados.
const DeletedProductLabel = "(producto eliminado)"

// StockReport datos del reporte de stock.
type StockReport struct {
	GeneratedAt    time.Time
	TotalProducts  int
	TotalMovements int
	LowStockCount  int
	Rows           []StockRow
}

// StockRow una fila por producto, en orden del directorio.
type StockRow struct {
	Name            string
	Barcode         string
	Category        string
	PiecesPerPallet *int
	Pieces          int
	Pallets         int
	MinStockAlert   int
	PricePerPiece   decimal.Decimal
	StockValue      decimal.Decimal // piezas × precio por pieza
	LowStock        bool
}

// MovementRow una fila de la exportación del ledger.
type MovementRow struct {
	Seq         int64
	CreatedAt   time.Time
	ProductID   string
	ProductName string
	Type        string
	Pieces      int
	Pallets     int
	Reason      string
	Barcode     string
	User        string
}

// ReportUseCase genera los reportes.
type ReportUseCase struct {
	snapshots analytics.SnapshotRunner
	pdf       StockReportGenerator
	xlsx      MovementExporter
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(snapshots analytics.SnapshotRunner, pdf StockReportGenerator, xlsx MovementExporter) *ReportUseCase {
	return &ReportUseCase{snapshots: snapshots, pdf: pdf, xlsx: xlsx}
}

// StockReportPDF devuelve el PDF del stock actual y el nombre de archivo sugerido.
func (uc *ReportUseCase) StockReportPDF(ctx context.Context) ([]byte, string, error) {
	r, err := uc.BuildStockReport(ctx)
	if err != nil {
		return nil, "", err
	}
	doc, err := uc.pdf.GenerateStockReport(ctx, r)
	if err != nil {
		return nil, "", fmt.Errorf("reporte de stock: %w", err)
	}
	return doc, "stock_" + r.GeneratedAt.Format("20060102_150405") + ".pdf", nil
}

// BuildStockReport arma los datos del reporte de stock en un solo snapshot.
func (uc *ReportUseCase) BuildStockReport(ctx context.Context) (*StockReport, error) {
	r := &StockReport{GeneratedAt: time.Now().UTC()}
	err := uc.snapshots.ReadSnapshot(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
	) error {
		products, err := productRepo.List(ctx)
		if err != nil {
			return err
		}
		total, err := movRepo.Count(ctx)
		if err != nil {
			return err
		}
		r.TotalProducts = len(products)
		r.TotalMovements = total
		r.Rows = make([]StockRow, 0, len(products))
		for _, p := range products {
			low := p.IsLowStock()
			if low {
				r.LowStockCount++
			}
			r.Rows = append(r.Rows, StockRow{
				Name:            p.Name,
				Barcode:         p.Barcode,
				Category:        p.Category,
				PiecesPerPallet: p.PiecesPerPallet,
				Pieces:          p.CurrentStockPieces,
				Pallets:         p.CurrentStockPallets,
				MinStockAlert:   p.MinStockAlert,
				PricePerPiece:   p.PricePerPiece,
				StockValue:      p.PricePerPiece.Mul(decimal.NewFromInt(int64(p.CurrentStockPieces))),
				LowStock:        low,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// MovementsXLSX devuelve el ledger completo (más antiguo primero) como XLSX.
func (uc *ReportUseCase) MovementsXLSX(ctx context.Context) ([]byte, string, error) {
	rows, err := uc.BuildMovementRows(ctx)
	if err != nil {
		return nil, "", err
	}
	doc, err := uc.xlsx.ExportMovements(ctx, rows)
	if err != nil {
		return nil, "", fmt.Errorf("exportación de movimientos: %w", err)
	}
	return doc, "movimientos_" + time.Now().UTC().Format("20060102_150405") + ".xlsx", nil
}

// BuildMovementRows resuelve el nombre de producto de cada movimiento del ledger.
func (uc *ReportUseCase) BuildMovementRows(ctx context.Context) ([]MovementRow, error) {
	var rows []MovementRow
	err := uc.snapshots.ReadSnapshot(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
	) error {
		products, err := productRepo.List(ctx)
		if err != nil {
			return err
		}
		names := make(map[string]string, len(products))
		for _, p := range products {
			names[p.ID] = p.Name
		}
		list, err := movRepo.List(ctx, repository.MovementFilter{})
		if err != nil {
			return err
		}
		rows = make([]MovementRow, 0, len(list))
		for _, m := range list {
			name, ok := names[m.ProductID]
			if !ok {
				name = DeletedProductLabel
			}
			rows = append(rows, MovementRow{
				Seq:         m.Seq,
				CreatedAt:   m.CreatedAt,
				ProductID:   m.ProductID,
				ProductName: name,
				Type:        m.Type,
				Pieces:      m.QuantityPieces,
				Pallets:     m.QuantityPallets,
				Reason:      m.Reason,
				Barcode:     m.BarcodeScanned,
				User:        m.User,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
