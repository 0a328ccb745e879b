package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Salidas-api/docs"
	"github.com/jhoicas/Salidas-api/internal/application/auth"
	"github.com/jhoicas/Salidas-api/internal/application/inventory"
	"github.com/jhoicas/Salidas-api/internal/application/stockout"
	"github.com/jhoicas/Salidas-api/internal/domain/repository"
	"github.com/jhoicas/Salidas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Salidas-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Salidas-api/internal/infrastructure/notify"
	"github.com/jhoicas/Salidas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Salidas-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Salidas-api/internal/interfaces/http"
	"github.com/jhoicas/Salidas-api/pkg/config"
	"github.com/jhoicas/Salidas-api/pkg/logger"
	"github.com/jhoicas/Salidas-api/pkg/telemetry"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		// validate() solo lo permite en development
		cfg.JWT.Secret = "development-only-secret"
		log.Warn().Msg("JWT_SECRET vacío: se usa un secreto de desarrollo")
	}

	ctx := context.Background()
	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:    cfg.App.Name,
		ServiceVersion: version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar trazas")
	}

	var (
		txRunner      inventory.TxRunner
		productRepo   repository.ProductRepository
		warehouseRepo repository.WarehouseRepository
		userRepo      repository.UserRepository
		seedStore     *memory.Store
	)
	switch cfg.App.StoreDriver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		txRunner, productRepo, warehouseRepo, userRepo = store, store.Products(), store.Warehouses(), store.Users()
		seedStore = store
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		txRunner = postgres.NewTxRunner(pool)
		productRepo = postgres.NewProductRepository(pool)
		warehouseRepo = postgres.NewWarehouseRepository(pool)
		userRepo = postgres.NewUserRepository(pool)
	}

	ledger := inventory.NewLedger(txRunner, productRepo, warehouseRepo, log)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	if seedStore != nil && cfg.App.IsDevelopment() {
		if err := seedDemo(ctx, seedStore, ledger, authUC); err != nil {
			log.Fatal().Err(err).Msg("datos de demostración")
		}
	}

	broker := notify.NewBroker(cfg.Notify.Buffer, log)
	opts := stockout.Options{Notifier: broker, Log: log}
	var exporter httpRouter.MetricsExporter
	if cfg.Metrics.Enabled {
		recorder := metrics.NewRecorder()
		opts.Recorder = recorder
		exporter = recorder
	}

	requestUC := stockout.NewRequestUseCase(txRunner, ledger, opts)
	approvalUC := stockout.NewApprovalUseCase(txRunner, ledger, opts)
	executionUC := stockout.NewExecutionUseCase(txRunner, ledger, opts)
	voucherUC := stockout.NewVoucherUseCase(requestUC, ledger, pdf.NewVoucherGenerator(cfg.App.Name), opts)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, traceparent",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		docs.SwaggerInfo.Host = cfg.HTTP.Addr()
		docs.SwaggerInfo.Version = version
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Salidas API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		RequestUC:   requestUC,
		ApprovalUC:  approvalUC,
		ExecutionUC: executionUC,
		VoucherUC:   voucherUC,
		Ledger:      ledger,
		Events:      broker,
		Metrics:     exporter,
		JWTSecret:   cfg.JWT.Secret,
		ServiceName: cfg.App.Name,
		Log:         log,
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
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("cierre de trazas")
	}

	log.Info().Msg("aplicación detenida")
}
