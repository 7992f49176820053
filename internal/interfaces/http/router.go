package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger-api/internal/application/auth"
	"github.com/jhoicas/stock-ledger-api/internal/application/idempotency"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/report"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProductUC   *usecase.ProductUseCase
	LocationUC  *usecase.LocationUseCase
	StockUC     *usecase.StockUseCase
	ActivityUC  *usecase.ActivityUseCase
	Movements   *inventory.MovementService
	Import      *inventory.ImportUseCase
	Reconcile   *inventory.ReconcileUseCase
	Export      *report.ExportUseCase
	Digest      *report.DigestUseCase
	Idempotency *idempotency.Guard
	Metrics     *metrics.Recorder // nil = sin /metrics
	JWTSecret   string
	Log         zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log

	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	authHandler := NewAuthHandler(deps.AuthUC, log.With().Str("handler", "auth").Logger())
	productHandler := NewProductHandler(deps.ProductUC, deps.ActivityUC, log.With().Str("handler", "products").Logger())
	locationHandler := NewLocationHandler(deps.LocationUC, deps.ActivityUC, log.With().Str("handler", "locations").Logger())
	stockHandler := NewStockHandler(deps.StockUC, deps.ActivityUC, log.With().Str("handler", "stock").Logger())
	movementHandler := NewMovementHandler(deps.Movements, deps.ActivityUC, log.With().Str("handler", "transactions").Logger())
	csvHandler := NewCSVHandler(deps.Import, deps.Export, deps.ActivityUC, log.With().Str("handler", "csv").Logger())
	adminHandler := NewAdminHandler(deps.ActivityUC, deps.Digest, deps.Reconcile, log.With().Str("handler", "admin").Logger())

	// Auth (público)
	authGroup := app.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Catálogo y stock (lectura pública)
	app.Get("/products", productHandler.List)
	app.Get("/locations", locationHandler.List)
	app.Get("/locations/:id/bins", locationHandler.ListBins)
	app.Get("/stock", stockHandler.List)

	authn := AuthMiddleware(deps.JWTSecret)
	anyRole := RequireRole(entity.RoleWorker, entity.RoleManager, entity.RoleAdmin)

	app.Get("/stock/check/:productId/:binId", authn, stockHandler.Check)
	app.Get("/products/:id/transactions", authn, productHandler.Transactions)

	// Movimientos: una Idempotency-Key repetida devuelve la respuesta original.
	tx := app.Group("/transactions", authn, anyRole, IdempotencyMiddleware(deps.Idempotency, log.With().Str("middleware", "idempotency").Logger()))
	tx.Post("/receive", movementHandler.Receive)
	tx.Post("/ship", movementHandler.Ship)
	tx.Post("/transfer", movementHandler.Transfer)

	app.Post("/import/csv", authn, anyRole, csvHandler.Import)
	app.Get("/export/csv", authn, anyRole, csvHandler.Export)

	// Administración (Manager/Admin)
	admin := app.Group("/admin", authn, RequireRole(entity.RoleManager, entity.RoleAdmin))
	admin.Post("/products", productHandler.Create)
	admin.Patch("/products/:id", productHandler.Update)
	admin.Delete("/products/:id", productHandler.Delete)
	admin.Post("/locations", locationHandler.Create)
	admin.Delete("/locations/:id", locationHandler.Delete)
	admin.Post("/bins", locationHandler.CreateBin)
	admin.Delete("/bins/:id", locationHandler.DeleteBin)
	admin.Delete("/stock/:productId/:binId", stockHandler.Delete)
	admin.Get("/logs", adminHandler.Logs)
	admin.Get("/low-stock", adminHandler.LowStock)
	admin.Post("/send-digest", adminHandler.SendDigest)
	admin.Get("/reconcile", adminHandler.Reconcile)
}
