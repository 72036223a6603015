package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/report"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "0,00", formatMoney(decimal.Zero))
	assert.Equal(t, "999,90", formatMoney(decimal.RequireFromString("999.9")))
	assert.Equal(t, "25.000,00", formatMoney(decimal.NewFromInt(25000)))
	assert.Equal(t, "1.234.567,89", formatMoney(decimal.RequireFromString("1234567.891")))
}

func TestGenerateStockReport_ProducePDF(t *testing.T) {
	ppp := 24
	r := &report.StockReport{
		GeneratedAt:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		TotalProducts:  2,
		TotalMovements: 7,
		LowStockCount:  1,
		Rows: []report.StockRow{
			{Name: "Widget", Barcode: "4006381333931", PiecesPerPallet: &ppp, Pieces: 5, MinStockAlert: 10, PricePerPiece: decimal.NewFromInt(3), StockValue: decimal.NewFromInt(15), LowStock: true},
			{Name: "Tornillo", Pieces: 500, Pallets: 2, MinStockAlert: 50, PricePerPiece: decimal.RequireFromString("0.25"), StockValue: decimal.NewFromInt(125)},
		},
	}

	doc, err := NewMarotoStockReport("Almacén Central").GenerateStockReport(context.Background(), r)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")), "debe ser un documento PDF")
}

func TestGenerateStockReport_SinProductos(t *testing.T) {
	doc, err := NewMarotoStockReport("").GenerateStockReport(context.Background(), &report.StockReport{GeneratedAt: time.Now()})
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
}
