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
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/jhoicas/stock-ledger-api/docs"

	"github.com/jhoicas/stock-ledger-api/internal/application/auth"
	"github.com/jhoicas/stock-ledger-api/internal/application/idempotency"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/report"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/cache"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/stock-ledger-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/stock-ledger-api/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
	"github.com/jhoicas/stock-ledger-api/pkg/metrics"
	"github.com/jhoicas/stock-ledger-api/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Endpoint:    cfg.Tracing.OTLPEndpoint,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: cfg.App.Env,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar trazas")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migración del esquema")
	}

	rec := metrics.New()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	binRepo := postgres.NewBinRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	activityRepo := postgres.NewActivityLogRepository(pool)
	idempotencyRepo := postgres.NewIdempotencyRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	movements := inventory.NewMovementService(txRunner, rec, log.Component("movements"))
	importUC := inventory.NewImportUseCase(postgres.NewCatalogResolver(pool), movements, log.Component("import"))
	reconcileUC := inventory.NewReconcileUseCase(ledgerRepo, stockRepo)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, cfg.Auth)
	productUC := usecase.NewProductUseCase(productRepo, ledgerRepo)
	locationUC := usecase.NewLocationUseCase(locationRepo, binRepo)
	stockUC := usecase.NewStockUseCase(stockRepo, postgres.NewQuantityRepository(pool))
	activityUC := usecase.NewActivityUseCase(activityRepo, log.Component("activity"))
	exportUC := report.NewExportUseCase(postgres.NewExportRepository(pool))

	// Caché de respuestas idempotentes: en proceso o Redis compartido entre réplicas.
	var responseCache idempotency.ResponseCache
	switch cfg.Idempotency.CacheBackend {
	case config.CacheBackendRedis:
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr()).Msg("conexión a Redis")
		}
		defer client.Close()
		responseCache = cache.NewRedisCache(client, cfg.Idempotency.CacheTTL)
	default:
		mem := cache.NewMemoryCache(cfg.Idempotency.CacheTTL)
		go mem.Run(ctx, cfg.Idempotency.CacheSweepInterval)
		responseCache = mem
	}
	guard := idempotency.NewGuard(responseCache, idempotencyRepo, cfg.Idempotency.Retention, rec, log.Component("idempotency"))

	// Resumen diario de stock bajo
	loc, err := time.LoadLocation(cfg.Digest.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("tz", cfg.Digest.Timezone).Msg("zona horaria inválida, se usa UTC")
		loc = time.UTC
	}
	var pdfGenerator report.LowStockPDFGenerator
	if cfg.Digest.AttachPDF {
		pdfGenerator = infrapdf.NewMarotoPDFGenerator()
	}
	digestUC := report.NewDigestUseCase(
		stockRepo, userRepo, mail.NewSMTPSender(cfg.SMTP), pdfGenerator,
		report.DigestConfig{Threshold: cfg.Digest.Threshold, Location: loc},
		rec, log.Component("digest"),
	)

	jobs := scheduler.New(loc, log.Component("scheduler"))
	if err := jobs.Add("daily-digest", cfg.Digest.Schedule, digestUC.Run); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.Digest.Schedule).Msg("programar resumen diario")
	}
	if err := jobs.Add("idempotency-purge", cfg.Idempotency.PurgeSchedule, func(ctx context.Context) {
		if _, err := guard.Purge(ctx); err != nil {
			log.Error().Err(err).Msg("purga de idempotencia")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.Idempotency.PurgeSchedule).Msg("programar purga de idempotencia")
	}
	jobs.Start()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log.Component("http")),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	if cfg.App.Env == "development" {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.App.CORSOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Idempotency-Key, X-Idempotency-Key",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "OurHouse Stock Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   productUC,
		LocationUC:  locationUC,
		StockUC:     stockUC,
		ActivityUC:  activityUC,
		Movements:   movements,
		Import:      importUC,
		Reconcile:   reconcileUC,
		Export:      exportUC,
		Digest:      digestUC,
		Idempotency: guard,
		Metrics:     rec,
		JWTSecret:   cfg.JWT.Secret,
		Log:         log.Component("http"),
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
	jobs.Stop(shutdownCtx)
	guard.Wait()
	stop()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("cierre del exportador de trazas")
	}

	log.Info().Msg("aplicación detenida")
}
