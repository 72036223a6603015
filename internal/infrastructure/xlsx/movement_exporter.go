// Package xlsx exporta el ledger de movimientos a Excel con excelize.
package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/almacen-api/internal/application/report"
)

// SheetName hoja con los movimientos.
const SheetName = "Movimientos"

var header = []any{
	"#", "Fecha (UTC)", "Producto", "ID producto", "Tipo", "Piezas", "Tarimas", "Motivo", "Código escaneado", "Usuario",
}

var typeLabels = map[string]string{
	"entry": "Entrada",
	"exit":  "Salida",
}

var _ report.MovementExporter = (*MovementExporter)(nil)

// MovementExporter implementa report.MovementExporter.
type MovementExporter struct{}

// NewMovementExporter construye el exportador.
func NewMovementExporter() *MovementExporter { return &MovementExporter{} }

// ExportMovements escribe una fila por movimiento, en el orden recibido, y devuelve el XLSX.
func (e *MovementExporter) ExportMovements(_ context.Context, rows []report.MovementRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("xlsx: cabecera: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", bold); err != nil {
		return nil, fmt.Errorf("xlsx: estilo cabecera: %w", err)
	}

	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		label, ok := typeLabels[r.Type]
		if !ok {
			label = r.Type
		}
		values := []any{
			r.Seq,
			r.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			r.ProductName,
			r.ProductID,
			label,
			r.Pieces,
			r.Pallets,
			r.Reason,
			r.Barcode,
			r.User,
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(SheetName, "B", "B", 20)
	_ = f.SetColWidth(SheetName, "C", "D", 38)
	_ = f.SetColWidth(SheetName, "H", "J", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
