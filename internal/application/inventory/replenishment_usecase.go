package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición a partir de los registros bajo su mínimo.
type ReplenishmentUseCase struct {
	inventory repository.InventoryRepository
	now       func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(inventory repository.InventoryRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{inventory: inventory, now: time.Now}
}

// GenerateReplenishmentList devuelve los registros con Available < Minimum, la cantidad sugerida
// para volver al máximo y su valor estimado al precio vigente.
// Prioridad: mayor déficit bajo el mínimo, luego mayor valor estimado, luego nombre.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	rows, err := uc.inventory.ListBelowMinimum(ctx, uc.now())
	if err != nil {
		return nil, fmt.Errorf("list below minimum: %w", err)
	}
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(rows))
	for _, r := range rows {
		suggested := r.Maximum - r.Available
		if suggested < 0 {
			suggested = 0
		}
		estimated := decimal.Zero
		if r.Price != nil {
			estimated = entity.MoneyFromMinor(*r.Price).Mul(decimal.NewFromInt(suggested))
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:      r.ProductID,
			ProductName:    r.ProductName,
			LocationID:     r.LocationID,
			LocationName:   r.LocationName,
			Available:      r.Available,
			Minimum:        r.Minimum,
			Maximum:        r.Maximum,
			Deficit:        r.Minimum - r.Available,
			SuggestedQty:   suggested,
			UnitPrice:      dto.MoneyPtr(r.Price),
			EstimatedValue: estimated,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Deficit != b.Deficit {
			return a.Deficit > b.Deficit
		}
		if !a.EstimatedValue.Equal(b.EstimatedValue) {
			return a.EstimatedValue.GreaterThan(b.EstimatedValue)
		}
		return a.ProductName < b.ProductName
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
