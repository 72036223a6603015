package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/almacen-api/internal/application/analytics"
	"github.com/jhoicas/almacen-api/internal/application/barcode"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/report"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC     *usecase.ProductUseCase
	Ledger        *inventory.RegisterMovementUseCase
	MovementQuery *inventory.MovementQueryUseCase
	DashboardUC   *appanalytics.DashboardUseCase
	Allocator     *barcode.Allocator
	ReportUC      *report.ReportUseCase
	Health        HealthInfo
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	api.Get("/health", Health(deps.Health))

	// Products (las rutas estáticas antes de /:id)
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Ledger)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/barcode/:code", productHandler.GetByBarcode)
	products.Get("/:id/pallet-conversion", productHandler.PalletConversion)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Movements (ledger)
	movements := api.Group("/movements")
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.MovementQuery)
	movements.Get("/", inventoryHandler.List)
	movements.Post("/", inventoryHandler.RecordMovement)
	movements.Get("/:product_id", inventoryHandler.ListByProduct)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard", dashboardHandler.Get)

	// Barcodes
	barcodeHandler := NewBarcodeHandler(deps.Allocator)
	api.Get("/generate-barcode/:format", barcodeHandler.Generate)
	api.Get("/validate-barcode/:format/:code", barcodeHandler.Validate)

	// Reports
	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/stock.pdf", reportHandler.StockPDF)
	reports.Get("/movements.xlsx", reportHandler.MovementsXLSX)
}
