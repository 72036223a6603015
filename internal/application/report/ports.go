package report

import "context"

// StockReportGenerator produce el documento del reporte de stock (PDF).
type StockReportGenerator interface {
	GenerateStockReport(ctx context.Context, r *StockReport) ([]byte, error)
}

// MovementExporter produce la exportación del ledger (XLSX).
type MovementExporter interface {
	ExportMovements(ctx context.Context, rows []MovementRow) ([]byte, error)
}
