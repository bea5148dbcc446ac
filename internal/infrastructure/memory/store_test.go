package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

func seedProduct(t *testing.T, s *Store, id string) {
	t.Helper()
	require.NoError(t, s.Repos().Products.Create(context.Background(), &entity.Product{ID: id, Name: "Café " + id}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Unidad de trabajo
// ──────────────────────────────────────────────────────────────────────────────

func TestRun_RollbackRestoresEveryTable(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedProduct(t, s, "p1")

	boom := errors.New("boom")
	err := s.Run(ctx, func(r repository.Repos) error {
		require.NoError(t, r.Prices.Append(ctx, &entity.PriceEntry{ProductID: "p1", Price: 100}))
		require.NoError(t, r.Inventory.Create(ctx, &entity.InventoryRecord{ProductID: "p1", LocationID: "l1", Available: 5}))
		require.NoError(t, r.Movements.Append(ctx, &entity.StockMovement{ProductID: "p1", LocationID: "l1", Type: entity.MovementCreation, Quantity: 5}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	rec, err := s.Repos().Inventory.Get(ctx, "p1", "l1")
	require.NoError(t, err)
	assert.Nil(t, rec)
	hist, err := s.Repos().Movements.ListByProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, hist)
	prices, err := s.Repos().Prices.ListByProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, prices)
}

func TestRun_CancelledContextLeavesNoSideEffects(t *testing.T) {
	s := NewStore()
	seedProduct(t, s, "p1")
	ctx, cancel := context.WithCancel(context.Background())

	err := s.Run(ctx, func(r repository.Repos) error {
		cancel()
		return r.Prices.Append(ctx, &entity.PriceEntry{ProductID: "p1", Price: 100})
	})
	require.ErrorIs(t, err, context.Canceled)

	prices, err := s.Repos().Prices.ListByProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Empty(t, prices)
}

func TestRun_SerializesConcurrentWriters(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedProduct(t, s, "p1")
	require.NoError(t, s.Repos().Inventory.Create(ctx, &entity.InventoryRecord{ProductID: "p1", LocationID: "l1"}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Run(ctx, func(r repository.Repos) error {
				rec, err := r.Inventory.GetForUpdate(ctx, "p1", "l1")
				if err != nil {
					return err
				}
				return r.Inventory.UpdateAvailable(ctx, rec.ID, rec.Available+1, time.Now())
			})
		}()
	}
	wg.Wait()

	rec, err := s.Repos().Inventory.Get(ctx, "p1", "l1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), rec.Available)
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios
// ──────────────────────────────────────────────────────────────────────────────

func TestInventory_CreateDuplicatePairConflicts(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.Repos().Inventory

	require.NoError(t, repo.Create(ctx, &entity.InventoryRecord{ProductID: "p1", LocationID: "l1"}))
	err := repo.Create(ctx, &entity.InventoryRecord{ProductID: "p1", LocationID: "l1"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPrices_CurrentUsesSeqTieBreak(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := s.Repos().Prices

	require.NoError(t, repo.Append(ctx, &entity.PriceEntry{ProductID: "p1", Price: 100, RegisteredAt: at}))
	require.NoError(t, repo.Append(ctx, &entity.PriceEntry{ProductID: "p1", Price: 150, RegisteredAt: at}))
	require.NoError(t, repo.Append(ctx, &entity.PriceEntry{ProductID: "p1", Price: 999, RegisteredAt: at.Add(time.Hour)}))

	cur, err := repo.Current(ctx, "p1", at.Add(time.Minute))
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, int64(150), cur.Price)

	none, err := repo.Current(ctx, "p1", at.Add(-time.Second))
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestProducts_SearchIgnoresCaseAndAccents(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.Repos().Products
	require.NoError(t, repo.Create(ctx, &entity.Product{ID: "p1", Name: "Café Tostado"}))
	require.NoError(t, repo.Create(ctx, &entity.Product{ID: "p2", Name: "Té Verde"}))

	found, err := repo.Search(ctx, "CAFE", time.Now(), 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "p1", found[0].ID)
	assert.Nil(t, found[0].Price)
}

func TestMovements_Balances(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	r := s.Repos()
	require.NoError(t, r.Inventory.Create(ctx, &entity.InventoryRecord{ProductID: "p1", LocationID: "l1", Available: 7}))
	require.NoError(t, r.Movements.Append(ctx, &entity.StockMovement{ProductID: "p1", LocationID: "l1", Type: entity.MovementCreation, Quantity: 10}))
	require.NoError(t, r.Movements.Append(ctx, &entity.StockMovement{ProductID: "p1", LocationID: "l1", Type: entity.MovementSale, Quantity: 3}))
	require.NoError(t, r.Movements.Append(ctx, &entity.StockMovement{ProductID: "p1", LocationID: "l1", Type: entity.MovementEdit}))

	balances, err := r.Movements.Balances(ctx)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, int64(7), balances[0].LedgerSum)
	assert.Equal(t, int64(3), balances[0].Movements)
	assert.True(t, balances[0].Consistent())
}
