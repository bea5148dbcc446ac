package postgres_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/internal/application/identity"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/application/sales"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-ledger/pkg/config"
	"github.com/jhoicas/pos-ledger/pkg/migrate"
)

// Estados y métodos de pago sembrados por la migración de datos de referencia.
const (
	activeStateID = "6f1c2a9e-0002-4000-8000-000000000001"
	cashMethodID  = "6f1c2a9e-0003-4000-8000-000000000001"
)

// pgFixture datos de referencia propios de cada test (ids nuevos) sobre una base real.
type pgFixture struct {
	pool       *pgxpool.Pool
	engine     *inventory.MovementEngine
	lifecycle  *inventory.ProductLifecycleUseCase
	sales      *sales.ProcessSaleUseCase
	inventory  repository.InventoryRepository
	categoryID string
	supplierID string
	customerID string
	locationID string
}

// newPGFixture requiere TEST_DATABASE_URL; aplica las migraciones y siembra referencias.
func newPGFixture(t *testing.T) *pgFixture {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 30})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	db := migrate.OpenDB(pool)
	require.NoError(t, migrate.Run(ctx, db, "up"))
	require.NoError(t, db.Close())

	f := &pgFixture{
		pool:       pool,
		categoryID: uuid.NewString(),
		supplierID: uuid.NewString(),
		customerID: uuid.NewString(),
		locationID: uuid.NewString(),
	}
	seed := []struct {
		sql  string
		args []any
	}{
		{`INSERT INTO product_categories (id, name) VALUES ($1, 'Bebidas')`, []any{f.categoryID}},
		{`INSERT INTO locations (id, name, address) VALUES ($1, 'Barra', 'Calle 10 #5-20')`, []any{f.locationID}},
		{`INSERT INTO persons (id, name, person_category_id)
		  SELECT $1, 'Distribuidora Andina', id FROM person_categories WHERE code = 'SUPPLIER'`, []any{f.supplierID}},
		{`INSERT INTO persons (id, name, person_category_id)
		  SELECT $1, 'Cliente C', id FROM person_categories WHERE code = 'CUSTOMER'`, []any{f.customerID}},
	}
	for _, s := range seed {
		_, err := pool.Exec(ctx, s.sql, s.args...)
		require.NoError(t, err)
	}

	system := entity.Actor{ID: uuid.NewString(), Name: "Sistema"}
	_, err = identity.EnsureSystemActor(ctx, postgres.NewActorRepository(pool), system)
	require.NoError(t, err)

	repos := postgres.NewRepos(pool)
	tx := postgres.NewTxRunner(pool)
	actors := identity.NewActorResolver(system, repos.Refs)
	engine := inventory.NewMovementEngine(tx, repos.Refs, actors, nil, nil)
	pricing := inventory.NewPricingService(repos.Prices)

	f.engine = engine
	f.lifecycle = inventory.NewProductLifecycleUseCase(tx, repos.Refs, repos.Products, engine, pricing, actors, nil)
	f.sales = sales.NewProcessSaleUseCase(tx, engine, pricing, repos.Refs, repos.Sales, actors, nil, nil)
	f.inventory = repos.Inventory
	return f
}

func (f *pgFixture) createProduct(t *testing.T, name string, price, available int64) string {
	t.Helper()
	id, err := f.lifecycle.Create(context.Background(), inventory.CreateProductInput{
		Name: name, CategoryID: f.categoryID, SupplierID: f.supplierID, StateID: activeStateID,
		Price: price, LocationID: f.locationID, InitialAvailable: available, Minimum: 0, Maximum: 100,
	})
	require.NoError(t, err)
	return id
}

func (f *pgFixture) available(t *testing.T, productID string) int64 {
	t.Helper()
	rec, err := f.inventory.Get(context.Background(), productID, f.locationID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	return rec.Available
}

// Con SELECT ... FOR UPDATE las ventas concurrentes sobre la misma fila nunca dejan stock negativo.
func TestPostgres_ConcurrentSalesNeverOverdraw(t *testing.T) {
	f := newPGFixture(t)
	id := f.createProduct(t, "Widget "+uuid.NewString()[:8], 100, 10)

	var ok, short int64
	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.RecordMovement(context.Background(), inventory.MovementInput{
				ProductID: id, LocationID: f.locationID, Type: "SALE", Quantity: 1,
			})
			switch {
			case err == nil:
				atomic.AddInt64(&ok, 1)
			case errors.Is(err, domain.ErrInsufficientStock):
				atomic.AddInt64(&short, 1)
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(10), ok)
	assert.Equal(t, int64(15), short)
	assert.Equal(t, int64(0), f.available(t, id))

	var saleRows int64
	require.NoError(t, f.pool.QueryRow(context.Background(),
		`SELECT count(*) FROM stock_movements WHERE product_id = $1 AND type = 'SALE'`, id).Scan(&saleRows))
	assert.Equal(t, int64(10), saleRows, "una fila del libro por venta confirmada")
}

func TestPostgres_SaleDetailKeepsLineOrder(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	suffix := uuid.NewString()[:8]
	zumo := f.createProduct(t, "Zumo "+suffix, 300, 5)
	agua := f.createProduct(t, "Agua "+suffix, 100, 5)

	res, err := f.sales.ProcessSale(ctx, sales.SaleInput{
		PaymentMethodID: cashMethodID,
		CustomerID:      f.customerID,
		Lines: []sales.SaleLineInput{
			{ProductID: zumo, LocationID: f.locationID, Quantity: 2},
			{ProductID: agua, LocationID: f.locationID, Quantity: 1},
			{ProductID: zumo, LocationID: f.locationID, Quantity: 3},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1600), res.Total)
	assert.Equal(t, int64(0), f.available(t, zumo))

	lines, err := f.sales.GetSaleDetail(ctx, res.OrderID)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	for i, want := range []struct {
		productID string
		quantity  int64
	}{{zumo, 2}, {agua, 1}, {zumo, 3}} {
		assert.Equal(t, i+1, lines[i].LineNo)
		assert.Equal(t, want.productID, lines[i].ProductID)
		assert.Equal(t, want.quantity, lines[i].Quantity)
	}
}
