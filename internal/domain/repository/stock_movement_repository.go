package repository

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// StockMovementRepository libro de movimientos append-only.
type StockMovementRepository interface {
	// Append inserta el movimiento y completa Seq.
	Append(ctx context.Context, m *entity.StockMovement) error
	// ListByProduct devuelve el historial del más reciente al más antiguo.
	ListByProduct(ctx context.Context, productID string) ([]entity.MovementView, error)
	// Balances suma los deltas firmados por (producto, ubicación) junto al disponible proyectado.
	Balances(ctx context.Context) ([]entity.LedgerBalance, error)
}
