package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	appanalytics "github.com/jhoicas/almacen-api/internal/application/analytics"
	"github.com/jhoicas/almacen-api/internal/application/barcode"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/report"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/infrastructure/cache"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/almacen-api/internal/infrastructure/postgres"
	infraxlsx "github.com/jhoicas/almacen-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/almacen-api/internal/interfaces/http"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// storage agrupa los adaptadores de persistencia del driver elegido.
type storage struct {
	products  repository.ProductRepository
	movements repository.MovementRepository
	runner    interface {
		inventory.TxRunner
		appanalytics.SnapshotRunner
	}
	ping  func(ctx context.Context) error
	close func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")

	// Precios como números JSON.
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()
	store := openStorage(ctx, cfg, log)
	defer store.close()

	var index usecase.BarcodeIndex
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		index = cache.NewRedisBarcodeIndex(rdb, cfg.Redis.TTL)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("caché de códigos de barras habilitada")
	}

	productUC := usecase.NewProductUseCase(store.products, store.runner, index, log)
	ledgerUC := inventory.NewRegisterMovementUseCase(store.runner, store.products, log)
	movementQueryUC := inventory.NewMovementQueryUseCase(store.movements)
	dashboardUC := appanalytics.NewDashboardUseCase(store.runner, cfg.Ledger.RecentWindow)
	allocator := barcode.NewAllocator(store.products, nil, cfg.Barcode.MaxAttempts)
	reportUC := report.NewReportUseCase(
		store.runner,
		infrapdf.NewMarotoStockReport(cfg.App.Name),
		infraxlsx.NewMovementExporter(),
	)

	app := httpRouter.NewApp(cfg.App.Name, log)
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.CORSAllowOrigins}))
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI: http://localhost:<port>/docs
	if cfg.App.DocsPath != "" {
		if _, err := os.Stat(cfg.App.DocsPath); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.App.DocsPath,
				Path:     "docs",
				Title:    cfg.App.Name,
			}))
		} else {
			log.Warn().Str("path", cfg.App.DocsPath).Msg("swagger.json no encontrado, /docs deshabilitado")
		}
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:     productUC,
		Ledger:        ledgerUC,
		MovementQuery: movementQueryUC,
		DashboardUC:   dashboardUC,
		Allocator:     allocator,
		ReportUC:      reportUC,
		Health: httpRouter.HealthInfo{
			Service: cfg.App.Name,
			Storage: cfg.App.StorageDriver,
			Ping:    store.ping,
		},
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) storage {
	if cfg.App.StorageDriver == config.StorageDriverMemory {
		s := memory.NewStore()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return storage{
			products:  memory.NewProductRepository(s),
			movements: memory.NewMovementRepository(s),
			runner:    memory.NewTxRunner(s),
			close:     func() {},
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return storage{
		products:  postgres.NewProductRepository(pool),
		movements: postgres.NewMovementRepository(pool),
		runner:    postgres.NewTxRunner(pool),
		ping:      pool.Ping,
		close:     pool.Close,
	}
}
