package inventory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/internal/application/identity"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/memory"
)

const (
	systemActorID = "00000000-0000-0000-0000-000000000000"
	cashierID     = "9b2f3c1e-0000-4000-8000-000000000001"
	categoryID    = "1a000000-0000-4000-8000-000000000001"
	supplierID    = "2b000000-0000-4000-8000-000000000001"
	stateID       = "3c000000-0000-4000-8000-000000000001"
	locationL1    = "4d000000-0000-4000-8000-000000000001"
	locationL2    = "4d000000-0000-4000-8000-000000000002"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.Event
}

func (p *recordingPublisher) Publish(_ context.Context, events ...entity.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
}

func (p *recordingPublisher) Named(name string) []entity.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []entity.Event
	for _, e := range p.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	store     *memory.Store
	clock     *fakeClock
	events    *recordingPublisher
	engine    *MovementEngine
	pricing   *PricingService
	lifecycle *ProductLifecycleUseCase
	queries   *QueryUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	clock := &fakeClock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	store.SetClock(clock.Now)

	store.AddReference(entity.RefCategory, categoryID, "Bebidas")
	store.AddReference(entity.RefSupplier, supplierID, "Distribuidora Andina")
	store.AddReference(entity.RefState, stateID, "Activo")
	store.AddLocation(locationL1, "Barra", "Calle 10 #5-20")
	store.AddLocation(locationL2, "Bodega", "Calle 10 #5-22")
	store.AddActor(entity.Actor{ID: systemActorID, Name: "Sistema"})
	store.AddActor(entity.Actor{ID: cashierID, Name: "Cajera"})

	repos := store.Repos()
	events := &recordingPublisher{}
	actors := identity.NewActorResolver(entity.Actor{ID: systemActorID, Name: "Sistema"}, repos.Refs)
	engine := NewMovementEngine(store, repos.Refs, actors, events, nil).WithClock(clock.Now)
	pricing := NewPricingService(repos.Prices).WithClock(clock.Now)

	return &fixture{
		store:     store,
		clock:     clock,
		events:    events,
		engine:    engine,
		pricing:   pricing,
		lifecycle: NewProductLifecycleUseCase(store, repos.Refs, repos.Products, engine, pricing, actors, nil),
		queries:   NewQueryUseCase(repos, pricing).WithClock(clock.Now),
	}
}

// createWidget crea el producto del escenario base: 10 unidades en L1, mínimo 2, máximo 50, precio 100.
func (f *fixture) createWidget(t *testing.T) string {
	t.Helper()
	id, err := f.lifecycle.Create(context.Background(), CreateProductInput{
		Name:             "Widget",
		CategoryID:       categoryID,
		SupplierID:       supplierID,
		StateID:          stateID,
		Price:            100,
		LocationID:       locationL1,
		InitialAvailable: 10,
		Minimum:          2,
		Maximum:          50,
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) available(t *testing.T, productID, locationID string) int64 {
	t.Helper()
	rec, err := f.store.Repos().Inventory.Get(context.Background(), productID, locationID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	return rec.Available
}

func (f *fixture) ledger(t *testing.T, productID string) []entity.MovementView {
	t.Helper()
	list, err := f.store.Repos().Movements.ListByProduct(context.Background(), productID)
	require.NoError(t, err)
	return list
}

func int64Ptr(v int64) *int64 { return &v }
