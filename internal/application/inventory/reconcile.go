package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// ReconcileUseCase compara la proyección de stock con la suma firmada del libro.
type ReconcileUseCase struct {
	movements repository.StockMovementRepository
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(movements repository.StockMovementRepository) *ReconcileUseCase {
	return &ReconcileUseCase{movements: movements}
}

// ReconcileReport resultado de una conciliación.
type ReconcileReport struct {
	Checked    int
	Mismatches []entity.LedgerBalance
}

// Reconcile revisa cada par (producto, ubicación); un libro íntegro no produce diferencias.
func (uc *ReconcileUseCase) Reconcile(ctx context.Context) (*ReconcileReport, error) {
	balances, err := uc.movements.Balances(ctx)
	if err != nil {
		return nil, fmt.Errorf("ledger balances: %w", err)
	}
	report := &ReconcileReport{Checked: len(balances), Mismatches: []entity.LedgerBalance{}}
	for _, b := range balances {
		if !b.Consistent() {
			report.Mismatches = append(report.Mismatches, b)
		}
	}
	return report, nil
}
