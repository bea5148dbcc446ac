package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

type inventoryRepo struct {
	s  *Store
	tx bool
}

var _ repository.InventoryRepository = (*inventoryRepo)(nil)

func (r *inventoryRepo) Get(_ context.Context, productID, locationID string) (*entity.InventoryRecord, error) {
	var out *entity.InventoryRecord
	err := r.s.read(r.tx, func(st *state) error {
		if id, ok := st.byPair[pair{productID, locationID}]; ok {
			rec := st.inventory[id]
			out = &rec
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a Get: dentro de Run el lock del Store ya serializa la unidad de trabajo.
func (r *inventoryRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.InventoryRecord, error) {
	return r.Get(ctx, productID, locationID)
}

func (r *inventoryRepo) Create(_ context.Context, rec *entity.InventoryRecord) error {
	return r.s.write(r.tx, func(st *state) error {
		key := pair{rec.ProductID, rec.LocationID}
		if _, ok := st.byPair[key]; ok {
			return fmt.Errorf("create inventory: %w", domain.ErrConflict)
		}
		if rec.Available < 0 || rec.Minimum < 0 || rec.Maximum < rec.Minimum {
			return fmt.Errorf("create inventory: %w: límites inválidos", domain.ErrInvalidInput)
		}
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		if rec.UpdatedAt.IsZero() {
			rec.UpdatedAt = r.s.now()
		}
		st.inventory[rec.ID] = *rec
		st.byPair[key] = rec.ID
		return nil
	})
}

func (r *inventoryRepo) UpdateAvailable(_ context.Context, id string, available int64, at time.Time) error {
	return r.s.write(r.tx, func(st *state) error {
		rec, ok := st.inventory[id]
		if !ok {
			return domain.ErrNotFound
		}
		if available < 0 {
			return fmt.Errorf("update available: %w: disponible negativo", domain.ErrInvalidInput)
		}
		rec.Available = available
		rec.UpdatedAt = at
		st.inventory[id] = rec
		return nil
	})
}

func (r *inventoryRepo) UpdateBounds(_ context.Context, id string, minimum, maximum int64, at time.Time) error {
	return r.s.write(r.tx, func(st *state) error {
		rec, ok := st.inventory[id]
		if !ok {
			return domain.ErrNotFound
		}
		if minimum < 0 || maximum < minimum {
			return fmt.Errorf("update bounds: %w: máximo menor que mínimo", domain.ErrInvalidInput)
		}
		rec.Minimum, rec.Maximum, rec.UpdatedAt = minimum, maximum, at
		st.inventory[id] = rec
		return nil
	})
}

func (r *inventoryRepo) ListByProduct(_ context.Context, productID string) ([]*entity.InventoryRecord, error) {
	var out []*entity.InventoryRecord
	err := r.s.read(r.tx, func(st *state) error {
		for _, rec := range st.inventory {
			if rec.ProductID == productID {
				rec := rec
				out = append(out, &rec)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].LocationID < out[j].LocationID })
	return out, err
}

func (r *inventoryRepo) ListAll(_ context.Context, asOf time.Time) ([]entity.InventoryView, error) {
	return r.list(asOf, func(entity.InventoryRecord) bool { return true })
}

func (r *inventoryRepo) ListBelowMinimum(_ context.Context, asOf time.Time) ([]entity.InventoryView, error) {
	return r.list(asOf, entity.InventoryRecord.BelowMinimum)
}

func (r *inventoryRepo) list(asOf time.Time, keep func(entity.InventoryRecord) bool) ([]entity.InventoryView, error) {
	var out []entity.InventoryView
	err := r.s.read(r.tx, func(st *state) error {
		for _, rec := range st.inventory {
			if !keep(rec) {
				continue
			}
			loc := st.refName(entity.RefLocation, rec.LocationID)
			v := entity.InventoryView{
				InventoryID:     rec.ID,
				ProductID:       rec.ProductID,
				ProductName:     st.products[rec.ProductID].Name,
				LocationID:      rec.LocationID,
				LocationName:    loc.Name,
				LocationAddress: loc.Address,
				Available:       rec.Available,
				Minimum:         rec.Minimum,
				Maximum:         rec.Maximum,
				StockValue:      decimal.Zero,
				UpdatedAt:       rec.UpdatedAt,
			}
			if e := st.currentPrice(rec.ProductID, asOf); e != nil {
				price, at := e.Price, e.RegisteredAt
				v.PriceEntryID, v.Price, v.PriceUpdatedAt = e.ID, &price, &at
				v.StockValue = entity.MoneyFromMinor(price).Mul(decimal.NewFromInt(rec.Available))
			}
			out = append(out, v)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductName != out[j].ProductName {
			return out[i].ProductName < out[j].ProductName
		}
		return out[i].LocationName < out[j].LocationName
	})
	return out, err
}
