// @title						POS Ledger API
// @version					1.0
// @description				Libro de inventario y ventas de punto de venta: productos, movimientos de stock, precios y ventas.
// @BasePath					/
// @securityDefinitions.apikey	Bearer
// @in							header
// @name						Authorization
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	_ "github.com/jhoicas/pos-ledger/docs"
	"github.com/jhoicas/pos-ledger/internal/application/identity"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/application/sales"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/eventbus"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/pos-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/pos-ledger/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/pos-ledger/internal/interfaces/http"
	"github.com/jhoicas/pos-ledger/pkg/catalog"
	"github.com/jhoicas/pos-ledger/pkg/config"
	"github.com/jhoicas/pos-ledger/pkg/logger"
	"github.com/jhoicas/pos-ledger/pkg/metrics"
	"github.com/jhoicas/pos-ledger/pkg/migrate"
	"github.com/jhoicas/pos-ledger/pkg/telemetry"
)

const version = "1.0.0"

// storage unidad de trabajo y repositorios del driver elegido.
type storage struct {
	tx     inventory.TxRunner
	repos  repository.Repos
	actors repository.ActorRepository
	close  func()
}

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
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("aplicación finalizada con error")
		stop()
		os.Exit(1)
	}
	log.Info().Msg("aplicación detenida")
}

// run arranca las dependencias y el servidor HTTP hasta que ctx se cancela.
// Los errores de arranque se devuelven para que los defer cierren lo ya abierto.
func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		Endpoint:       cfg.Telemetry.Endpoint,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version,
		Environment:    cfg.App.Env,
	})
	if err != nil {
		return fmt.Errorf("inicializar trazas: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("cierre de trazas")
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	ledgerMetrics := metrics.NewLedgerMetrics(reg)
	httpMetrics := metrics.NewHTTPMetrics(reg)

	var store *storage
	switch cfg.App.Storage {
	case config.StorageMemory:
		store, err = openMemory(cfg, log)
	default:
		store, err = openPostgres(ctx, cfg, log)
	}
	if err != nil {
		return fmt.Errorf("abrir almacenamiento: %w", err)
	}
	defer store.close()

	systemActor := entity.Actor{ID: cfg.Ledger.SystemActorID, Name: cfg.Ledger.SystemActorName}
	created, err := identity.EnsureSystemActor(ctx, store.actors, systemActor)
	if err != nil {
		return fmt.Errorf("actor de sistema: %w", err)
	}
	if created {
		log.Info().Str("actor_id", systemActor.ID).Msg("actor de sistema creado")
	}

	// Eventos: RabbitMQ si está configurado; si no, se descartan.
	var events inventory.EventPublisher = eventbus.NopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log.Component("eventbus"))
		if err != nil {
			return fmt.Errorf("conexión a RabbitMQ: %w", err)
		}
		defer publisher.Close()
		events = publisher
	}

	var idempotency httpRouter.IdempotencyStore
	if cfg.Redis.URL != "" {
		redisStore, err := infraredis.NewIdempotencyStore(ctx, cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("conexión a Redis: %w", err)
		}
		defer redisStore.Close()
		idempotency = redisStore
	}

	repos := store.repos
	actors := identity.NewActorResolver(systemActor, repos.Refs)
	engine := inventory.NewMovementEngine(store.tx, repos.Refs, actors, events, ledgerMetrics)
	pricing := inventory.NewPricingService(repos.Prices)
	lifecycleUC := inventory.NewProductLifecycleUseCase(store.tx, repos.Refs, repos.Products, engine, pricing, actors, ledgerMetrics)
	queryUC := inventory.NewQueryUseCase(repos, pricing)
	replenishmentUC := inventory.NewReplenishmentUseCase(repos.Inventory)
	reconcileUC := inventory.NewReconcileUseCase(repos.Movements)
	saleUC := sales.NewProcessSaleUseCase(store.tx, engine, pricing, repos.Refs, repos.Sales, actors, events, ledgerMetrics)

	// PDF: recibo de venta
	receiptUC := sales.NewReceiptUseCase(repos.Sales, infrapdf.NewReceiptGenerator(cfg.App.Store))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log.Component("http")),
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "POS Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.App.Storage})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Lifecycle:      lifecycleUC,
		Engine:         engine,
		Queries:        queryUC,
		Replenishment:  replenishmentUC,
		Reconcile:      reconcileUC,
		Sales:          saleUC,
		Receipts:       receiptUC,
		JWTSecret:      cfg.JWT.Secret,
		JWTIssuer:      cfg.JWT.Issuer,
		Idempotency:    idempotency,
		IdempotencyTTL: cfg.Redis.IdempotencyTTL,
		HTTPMetrics:    httpMetrics,
		Gatherer:       reg,
		Log:            log.Component("http"),
	})

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(cfg.HTTP.Addr())
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("servidor HTTP: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("apagado del servidor: %w", err)
	}
	return nil
}

func openPostgres(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		db := migrate.OpenDB(pool)
		err := migrate.Run(ctx, db, "up")
		_ = db.Close()
		if err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return &storage{
		tx:     postgres.NewTxRunner(pool),
		repos:  postgres.NewRepos(pool),
		actors: postgres.NewActorRepository(pool),
		close: func() {
			pool.Close()
			log.Debug().Msg("pool de PostgreSQL cerrado")
		},
	}, nil
}

// openMemory arranca el driver en memoria con el catálogo de MEMORY_SEED_FILE o el catálogo por defecto.
func openMemory(cfg *config.Config, log *logger.Logger) (*storage, error) {
	c := catalog.Default()
	if cfg.App.SeedFile != "" {
		f, err := os.Open(cfg.App.SeedFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if c, err = catalog.Decode(f); err != nil {
			return nil, err
		}
	}
	store := memory.NewStore()
	store.LoadCatalog(c)
	log.Warn().
		Int("locations", len(c.Locations)).
		Int("persons", len(c.Persons)).
		Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	return &storage{
		tx:     store,
		repos:  store.Repos(),
		actors: store.Actors(),
		close: func() {
			log.Debug().Msg("almacenamiento en memoria descartado")
		},
	}, nil
}
