package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// InventoryRepository proyección de stock por (producto, ubicación).
// Dentro de una transacción usar GetForUpdate antes de escribir.
type InventoryRepository interface {
	// Get devuelve nil, nil si no hay registro para el par.
	Get(ctx context.Context, productID, locationID string) (*entity.InventoryRecord, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, productID, locationID string) (*entity.InventoryRecord, error)
	// Create devuelve domain.ErrConflict si el par ya existe.
	Create(ctx context.Context, r *entity.InventoryRecord) error
	UpdateAvailable(ctx context.Context, id string, available int64, at time.Time) error
	UpdateBounds(ctx context.Context, id string, minimum, maximum int64, at time.Time) error
	ListByProduct(ctx context.Context, productID string) ([]*entity.InventoryRecord, error)
	// ListAll une producto, ubicación y precio vigente en asOf.
	ListAll(ctx context.Context, asOf time.Time) ([]entity.InventoryView, error)
	// ListBelowMinimum igual que ListAll pero solo filas con Available < Minimum.
	ListBelowMinimum(ctx context.Context, asOf time.Time) ([]entity.InventoryView, error)
}
