package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/application/sales"
	"github.com/jhoicas/pos-ledger/pkg/logger"
	"github.com/jhoicas/pos-ledger/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Lifecycle     *inventory.ProductLifecycleUseCase
	Engine        *inventory.MovementEngine
	Queries       *inventory.QueryUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Reconcile     *inventory.ReconcileUseCase
	Sales         *sales.ProcessSaleUseCase
	Receipts      *sales.ReceiptUseCase

	JWTSecret string
	JWTIssuer string

	// Idempotency nil desactiva el soporte de Idempotency-Key.
	Idempotency    IdempotencyStore
	IdempotencyTTL time.Duration

	HTTPMetrics *metrics.HTTPMetrics
	// Gatherer nil no expone /metrics.
	Gatherer prometheus.Gatherer
	Log      *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestObserver(deps.HTTPMetrics, deps.Log))

	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	idempotent := Idempotency(deps.Idempotency, deps.IdempotencyTTL, deps.Log)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.Lifecycle, deps.Queries)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.Search)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Get("/:id/prices", productHandler.PriceHistory)

	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Engine, deps.Queries, deps.Replenishment, deps.Reconcile)
	inv.Get("/", inventoryHandler.List)
	inv.Post("/movements", idempotent, inventoryHandler.RecordMovement)
	inv.Get("/products/:id/movements", inventoryHandler.History)
	inv.Get("/products/:id/availability", inventoryHandler.Availability)
	inv.Get("/replenishment", inventoryHandler.Replenishment)
	inv.Get("/reconcile", inventoryHandler.Reconcile)

	salesGroup := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.Sales, deps.Receipts)
	salesGroup.Post("/", idempotent, saleHandler.Create)
	salesGroup.Get("/:id", saleHandler.Detail)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)
}
