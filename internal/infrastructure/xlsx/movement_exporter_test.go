package xlsx_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/almacen-api/internal/application/report"
	"github.com/jhoicas/almacen-api/internal/infrastructure/xlsx"
)

func TestExportMovements_FilasEnOrden(t *testing.T) {
	at := time.Date(2026, 2, 3, 8, 30, 0, 0, time.UTC)
	rows := []report.MovementRow{
		{Seq: 1, CreatedAt: at, ProductID: "p1", ProductName: "Widget", Type: "entry", Pieces: 48, Pallets: 2, Reason: "Compra", User: "Sistema"},
		{Seq: 2, CreatedAt: at.Add(time.Hour), ProductID: "p2", ProductName: report.DeletedProductLabel, Type: "exit", Pieces: 3, Barcode: "4006381333931", User: "ana"},
	}

	doc, err := xlsx.NewMovementExporter().ExportMovements(context.Background(), rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(doc))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{xlsx.SheetName}, f.GetSheetList())

	got, err := f.GetRows(xlsx.SheetName)
	require.NoError(t, err)
	require.Len(t, got, 3, "cabecera + 2 movimientos")

	assert.Equal(t, "Producto", got[0][2])
	assert.Equal(t, []string{"1", "2026-02-03 08:30:00", "Widget", "p1", "Entrada", "48", "2", "Compra", "", "Sistema"}, got[1])
	assert.Equal(t, report.DeletedProductLabel, got[2][2])
	assert.Equal(t, "Salida", got[2][4])
	assert.Equal(t, "4006381333931", got[2][8])
}

func TestExportMovements_Vacio(t *testing.T) {
	doc, err := xlsx.NewMovementExporter().ExportMovements(context.Background(), nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(doc))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(xlsx.SheetName)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
